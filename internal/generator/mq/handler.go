package mq

import (
	"context"

	"github.com/taotao21503/contract-generator/internal/generator"
	"github.com/taotao21503/contract-generator/internal/kafka"
)

type requestDir interface {
	RequestDir() (string, error)
}

type generateServe struct {
	svc       generator.Service
	transport *GenerateTransport
	path      requestDir
	publish   kafka.Publish
}

func (s *generateServe) Handle(ctx context.Context, message []byte) {
	uuid, userID, req, err := s.transport.DecodeRequest(message)

	var res generator.Result
	if err == nil {
		if req.OutputDir, err = s.path.RequestDir(); err == nil {
			res, err = s.svc.Generate(ctx, req)
		}
	}

	s.publish(s.transport.EncodeResponse(uuid, userID, req.OutputDir, res, err))
}

func NewGenerateHandler(
	svc generator.Service,
	transport *GenerateTransport,
	path requestDir,
	publish kafka.Publish,
) kafka.Handler {
	s := &generateServe{
		svc:       svc,
		transport: transport,
		path:      path,
		publish:   publish,
	}

	return s.Handle
}
