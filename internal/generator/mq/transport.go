package mq

import (
	"encoding/json"

	"github.com/taotao21503/contract-generator/internal/generator"
)

type builder func(payload interface{}, err error) ([]byte, error)

// GenerateTransport ...
type GenerateTransport struct {
	builder builder
}

func NewGenerateTransport(
	builder builder,
) *GenerateTransport {
	return &GenerateTransport{
		builder: builder,
	}
}

// DecodeRequest ...
func (t *GenerateTransport) DecodeRequest(message []byte) (uuid string, userID int, req generator.Request, err error) {
	var r request
	if err = json.Unmarshal(message, &r); err != nil {
		return
	}
	uuid = r.UUID
	userID = r.UserID
	req = generator.Request{
		Excel:     r.Excel,
		Template:  r.Template,
		HeaderRow: r.HeaderRow,
	}
	return
}

// EncodeResponse ...
func (t *GenerateTransport) EncodeResponse(uuid string, userID int, outputDir string, res generator.Result, err error) (message []byte) {
	payload := response{
		UUID:      uuid,
		UserID:    userID,
		OutputDir: outputDir,
		Processed: res.Processed,
		Succeeded: res.Succeeded,
		Failed:    res.Failed,
		Errors:    res.Errors,
	}
	message, _ = t.builder(payload, err)
	return
}
