package mq

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taotao21503/contract-generator/internal/generator"
	respbuilder "github.com/taotao21503/contract-generator/internal/response"
)

func TestDecodeRequest(t *testing.T) {
	transport := NewGenerateTransport(respbuilder.Build)

	uuid, userID, req, err := transport.DecodeRequest([]byte(
		`{"uuid":"u-1","user_id":7,"excel":"/data/contracts.xlsx","template":"/data/template.docx","header_row":2}`,
	))
	assert.NoError(t, err)
	assert.Equal(t, "u-1", uuid)
	assert.Equal(t, 7, userID)
	assert.Equal(t, "/data/contracts.xlsx", req.Excel)
	assert.Equal(t, "/data/template.docx", req.Template)
	assert.Equal(t, 2, req.HeaderRow)

	_, _, _, err = transport.DecodeRequest([]byte("not json"))
	assert.Error(t, err)
}

func TestEncodeResponse(t *testing.T) {
	transport := NewGenerateTransport(respbuilder.Build)

	message := transport.EncodeResponse("u-1", 7, "/out/u-1", generator.Result{
		Processed: 2,
		Succeeded: 1,
		Failed:    1,
		Errors:    []string{"record 2: boom"},
	}, nil)

	assert.Contains(t, string(message), `"is_ok":true`)
	assert.Contains(t, string(message), `"succeeded":1`)
	assert.Contains(t, string(message), "record 2: boom")

	message = transport.EncodeResponse("u-1", 7, "", generator.Result{}, assert.AnError)
	assert.Contains(t, string(message), `"is_ok":false`)
}
