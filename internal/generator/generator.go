package generator

import (
	"context"
)

// Service drives batch contract generation.
type Service interface {
	Generate(ctx context.Context, req Request) (res Result, err error)
}
