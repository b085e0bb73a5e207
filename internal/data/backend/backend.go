package backend

import (
	"context"

	"github.com/yungbote/codewitheasy-admin/internal/data/query"
	"github.com/yungbote/codewitheasy-admin/internal/data/resource"
	pkgerrors "github.com/yungbote/codewitheasy-admin/internal/pkg/errors"
)

var (
	ErrNotFound = pkgerrors.ErrNotFound
	ErrConflict = pkgerrors.ErrConflict
	// ErrMissingReference is returned when a write points at a parent that does not exist.
	ErrMissingReference = pkgerrors.ErrInvalidArgument
)

// Backend is the only layer that talks to persistent storage.
//
// Payload maps are column-keyed. Results are *T for single records and *[]T
// for lists, where T is the resource's model type.
type Backend interface {
	Name() string
	List(ctx context.Context, res *resource.Resource, d query.Descriptor) (any, int64, error)
	GetByID(ctx context.Context, res *resource.Resource, id string, includes []query.Include) (any, error)
	Create(ctx context.Context, res *resource.Resource, payload map[string]any) (any, error)
	Update(ctx context.Context, res *resource.Resource, id string, patch map[string]any) (any, error)
	Delete(ctx context.Context, res *resource.Resource, id string) error
	// UpsertByKey creates the row identified by key or replaces the payload
	// columns of the existing one. created reports which branch ran.
	UpsertByKey(ctx context.Context, res *resource.Resource, key map[string]any, payload map[string]any) (item any, created bool, err error)
}
