// Package typed maps Go structs onto gh-db records.
package typed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ga-ut/gh-db/pkg/core"
)

// DocumentModel is a typed view of a core.Record.
type DocumentModel[T any] struct {
	ID    int
	Data  T        // The typed payload
	Saver Saver[T] // Active Record reference interface
}

// Saver interface avoids circular dependencies or tight coupling with Repository/Service structs.
type Saver[T any] interface {
	Update(ctx context.Context, doc *DocumentModel[T]) error
}

// Save writes the payload back using the attached saver (Repository or Service).
// Only editable records can be saved.
func (d *DocumentModel[T]) Save(ctx context.Context) error {
	if d.Saver == nil {
		return fmt.Errorf("document is detached (missing Saver)")
	}
	return d.Saver.Update(ctx, d)
}

// CreateOption configures how a typed record is created.
type CreateOption func(*core.CreateInput)

// WithTags attaches extra labels to the new record.
func WithTags(tags ...string) CreateOption {
	return func(in *core.CreateInput) {
		in.Tags = append(in.Tags, tags...)
	}
}

// Editable leaves the new record unlocked so it can be updated later.
func Editable() CreateOption {
	return func(in *core.CreateInput) {
		in.Editable = true
	}
}

// Repository wraps a core.Repository to provide type-safe access.
type Repository[T any] struct {
	repo core.Repository
}

// NewRepository creates a new type-safe wrapper around an existing repository.
func NewRepository[T any](repo core.Repository) *Repository[T] {
	return &Repository[T]{repo: repo}
}

// Create stores data under subject. When locking fails the returned document
// still carries the assigned ID alongside the error.
func (r *Repository[T]) Create(ctx context.Context, subject string, data T, opts ...CreateOption) (*DocumentModel[T], error) {
	payload, err := toData(data)
	if err != nil {
		return nil, err
	}
	in := core.CreateInput{Subject: subject, Data: payload}
	for _, opt := range opts {
		opt(&in)
	}

	rec, err := r.repo.Create(ctx, in)
	if rec.ID == 0 {
		return nil, err
	}
	return &DocumentModel[T]{ID: rec.ID, Data: data, Saver: r}, err
}

// Get retrieves a record and unmarshals it.
func (r *Repository[T]) Get(ctx context.Context, id int) (*DocumentModel[T], error) {
	rec, err := r.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return fromCore(rec, r)
}

// List returns one page of a collection converted to the typed model.
func (r *Repository[T]) List(ctx context.Context, q core.Query) ([]*DocumentModel[T], error) {
	recs, err := r.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}

	result := make([]*DocumentModel[T], 0, len(recs))
	for _, rec := range recs {
		model, err := fromCore(rec, r)
		if err != nil {
			return nil, fmt.Errorf("failed to process record %d: %w", rec.ID, err)
		}
		result = append(result, model)
	}
	return result, nil
}

// Update replaces the stored payload with doc.Data. doc.Data is refreshed
// from the tracker's answer.
func (r *Repository[T]) Update(ctx context.Context, doc *DocumentModel[T]) error {
	payload, err := toData(doc.Data)
	if err != nil {
		return err
	}
	rec, err := r.repo.Update(ctx, doc.ID, payload)
	if err != nil {
		return err
	}
	fresh, err := fromCore(rec, r)
	if err != nil {
		return err
	}
	doc.Data = fresh.Data
	if doc.Saver == nil {
		doc.Saver = r
	}
	return nil
}

// Delete soft-deletes a record by ID.
func (r *Repository[T]) Delete(ctx context.Context, id int) error {
	return r.repo.Delete(ctx, id)
}

// toData converts a typed payload into core.Data, honouring JSON tags.
func toData[T any](v T) (core.Data, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal typed data: %w", err)
	}
	var d core.Data
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("failed to convert typed data to map: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Helper to convert core.Record to DocumentModel
func fromCore[T any](rec core.Record, saver Saver[T]) (*DocumentModel[T], error) {
	b, err := json.Marshal(rec.Data)
	if err != nil {
		return nil, fmt.Errorf("payload marshal failed: %w", err)
	}

	var data T
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("unmarshal to target type failed: %w", err)
	}

	return &DocumentModel[T]{
		ID:    rec.ID,
		Data:  data,
		Saver: saver,
	}, nil
}
