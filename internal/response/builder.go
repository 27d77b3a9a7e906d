package response

import (
	"encoding/json"
)

// Build wraps a payload and error into the reply envelope. On error the
// payload is replaced by the error text.
func Build(payload interface{}, err error) ([]byte, error) {
	msg := response{
		IsOk:    err == nil,
		Payload: payload,
	}
	if err != nil {
		msg.Payload = err.Error()
	}
	return json.Marshal(msg)
}
