package stack

import (
	"context"

	domstack "github.com/stackmesh/aossindex/internal/domain/stack"
)

// Repository defines the storage contract for synthesized stacks.
type Repository interface {
	Save(ctx context.Context, rec domstack.Record) error
	Replace(ctx context.Context, rec domstack.Record, expectedRevision int) error
	Get(ctx context.Context, name string) (domstack.Record, error)
	List(ctx context.Context) ([]domstack.Record, error)
	Delete(ctx context.Context, name string) error
}
