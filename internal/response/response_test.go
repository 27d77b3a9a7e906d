package response

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errTest = errors.New("test-error")

func TestBuild(t *testing.T) {
	t.Run("success payload", func(t *testing.T) {
		payload := struct {
			Processed int `json:"processed"`
		}{
			Processed: 3,
		}

		expected, err := json.Marshal(&response{
			IsOk:    true,
			Payload: payload,
		})
		assert.NoError(t, err)

		actual, err := Build(payload, nil)
		assert.NoError(t, err)
		assert.Equal(t, expected, actual)
	})

	t.Run("error", func(t *testing.T) {
		expected, err := json.Marshal(&response{
			IsOk:    false,
			Payload: errTest.Error(),
		})
		assert.NoError(t, err)

		actual, err := Build(struct{}{}, errTest)
		assert.NoError(t, err)
		assert.Equal(t, expected, actual)
	})
}
