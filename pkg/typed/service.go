package typed

import (
	"context"

	"github.com/ga-ut/gh-db/pkg/core"
)

// Service wraps a core.Service so typed access goes through its validation
// and logging.
type Service[T any] struct {
	*Repository[T]
	svc *core.Service
}

// NewService creates a new typed service wrapper.
func NewService[T any](svc *core.Service) *Service[T] {
	return &Service[T]{
		Repository: NewRepository[T](serviceBackend{svc: svc}),
		svc:        svc,
	}
}

// Watch observes changes in a collection.
func (s *Service[T]) Watch(ctx context.Context, q core.Query) (<-chan core.Event, error) {
	return s.svc.Watch(ctx, q)
}

// serviceBackend presents a core.Service as a core.Repository.
type serviceBackend struct {
	svc *core.Service
}

func (b serviceBackend) Create(ctx context.Context, in core.CreateInput) (core.Record, error) {
	return b.svc.CreateRecord(ctx, in)
}

func (b serviceBackend) Get(ctx context.Context, id int) (core.Record, error) {
	return b.svc.GetRecord(ctx, id)
}

func (b serviceBackend) List(ctx context.Context, q core.Query) ([]core.Record, error) {
	return b.svc.ListRecords(ctx, q)
}

func (b serviceBackend) Update(ctx context.Context, id int, data core.Data) (core.Record, error) {
	return b.svc.UpdateRecord(ctx, id, data)
}

func (b serviceBackend) Delete(ctx context.Context, id int) error {
	return b.svc.DeleteRecord(ctx, id)
}

func (b serviceBackend) Initialize(ctx context.Context) error {
	return b.svc.Repository().Initialize(ctx)
}
