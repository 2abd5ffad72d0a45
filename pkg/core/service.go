package core

import (
	"context"
	"errors"
	"log/slog"
)

// Service handles the business logic for records.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new Service. A nil logger disables logging.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// Repository exposes the underlying storage adapter.
func (s *Service) Repository() Repository {
	return s.repo
}

// CreateRecord validates and stores a new record.
func (s *Service) CreateRecord(ctx context.Context, in CreateInput) (Record, error) {
	if in.Subject == "" {
		return Record{}, ErrEmptySubject
	}
	if err := in.Data.Validate(); err != nil {
		return Record{}, err
	}

	rec, err := s.repo.Create(ctx, in)
	if err != nil {
		if IsPhase(err, PhaseLock) {
			// The record exists but is still editable.
			s.logger.Warn("record created but not locked", "subject", in.Subject, "id", rec.ID, "error", err)
		}
		return rec, err
	}
	s.logger.Debug("record created", "subject", in.Subject, "id", rec.ID, "editable", in.Editable)
	return rec, nil
}

// GetRecord retrieves a record.
func (s *Service) GetRecord(ctx context.Context, id int) (Record, error) {
	if id <= 0 {
		return Record{}, ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

// ListRecords retrieves one page of a collection.
func (s *Service) ListRecords(ctx context.Context, q Query) ([]Record, error) {
	q, err := q.Normalize()
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, q)
}

// UpdateRecord replaces the payload of a record.
// Editability is not checked here; the tracker rejects writes to locked records.
func (s *Service) UpdateRecord(ctx context.Context, id int, data Data) (Record, error) {
	if id <= 0 {
		return Record{}, ErrInvalidID
	}
	if err := data.Validate(); err != nil {
		return Record{}, err
	}
	rec, err := s.repo.Update(ctx, id, data)
	if err != nil {
		return Record{}, err
	}
	s.logger.Debug("record updated", "id", id)
	return rec, nil
}

// DeleteRecord soft-deletes a record.
func (s *Service) DeleteRecord(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Debug("record deleted", "id", id)
	return nil
}

// Watch observes changes in a collection if the repository supports it.
func (s *Service) Watch(ctx context.Context, q Query) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	q, err := q.Normalize()
	if err != nil {
		return nil, err
	}
	return w.Watch(ctx, q)
}
