package core_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ga-ut/gh-db/pkg/core"
)

// MockRepository implements core.Repository in memory.
// It deliberately does NOT implement core.Watchable to test fallback/errors.
type MockRepository struct {
	records map[int]core.Record
	nextID  int
	lockErr error
	lastQ   core.Query
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		records: make(map[int]core.Record),
		nextID:  1,
	}
}

func (m *MockRepository) Create(ctx context.Context, in core.CreateInput) (core.Record, error) {
	rec := core.Record{ID: m.nextID, Data: in.Data}
	m.records[rec.ID] = rec
	m.nextID++
	if !in.Editable && m.lockErr != nil {
		return rec, m.lockErr
	}
	return rec, nil
}

func (m *MockRepository) Get(ctx context.Context, id int) (core.Record, error) {
	rec, ok := m.records[id]
	if !ok {
		return core.Record{}, &core.RequestError{Status: 404, Phase: core.PhaseGet}
	}
	return rec, nil
}

func (m *MockRepository) List(ctx context.Context, q core.Query) ([]core.Record, error) {
	m.lastQ = q
	var out []core.Record
	for i := 1; i < m.nextID; i++ {
		if rec, ok := m.records[i]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *MockRepository) Update(ctx context.Context, id int, data core.Data) (core.Record, error) {
	if _, ok := m.records[id]; !ok {
		return core.Record{}, &core.RequestError{Status: 404, Phase: core.PhaseUpdate}
	}
	m.records[id] = core.Record{ID: id, Data: data}
	return m.records[id], nil
}

func (m *MockRepository) Delete(ctx context.Context, id int) error {
	if _, ok := m.records[id]; !ok {
		return &core.RequestError{Status: 404, Phase: core.PhaseDelete}
	}
	delete(m.records, id)
	return nil
}

func (m *MockRepository) Initialize(ctx context.Context) error { return nil }

func TestService_CRUD(t *testing.T) {
	repo := NewMockRepository()
	service := core.NewService(repo, nil)
	ctx := context.TODO()

	// 1. Create
	rec, err := service.CreateRecord(ctx, core.CreateInput{Subject: "users", Data: core.Data{"name": "ana"}})
	if err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}
	if rec.ID != 1 {
		t.Errorf("expected id 1, got %d", rec.ID)
	}

	// 2. Get
	got, err := service.GetRecord(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if got.Data["name"] != "ana" {
		t.Errorf("expected name 'ana', got '%v'", got.Data["name"])
	}

	// 3. List
	_, _ = service.CreateRecord(ctx, core.CreateInput{Subject: "users", Data: core.Data{"name": "bo"}})
	recs, err := service.ListRecords(ctx, core.Query{Subject: "users"})
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("expected 2 records, got %d", len(recs))
	}
	if repo.lastQ.PerPage != core.DefaultPerPage || repo.lastQ.Direction != core.DefaultDirection {
		t.Errorf("expected query defaults to be applied, got %+v", repo.lastQ)
	}

	// 4. Update
	if _, err := service.UpdateRecord(ctx, rec.ID, core.Data{"name": "ana maria"}); err != nil {
		t.Fatalf("UpdateRecord failed: %v", err)
	}

	// 5. Delete
	if err := service.DeleteRecord(ctx, rec.ID); err != nil {
		t.Fatalf("DeleteRecord failed: %v", err)
	}
	_, err = service.GetRecord(ctx, rec.ID)
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound after deletion, got %v", err)
	}
}

func TestService_Validation(t *testing.T) {
	service := core.NewService(NewMockRepository(), nil)
	ctx := context.TODO()

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"empty subject", func() error {
			_, err := service.CreateRecord(ctx, core.CreateInput{Data: core.Data{"a": 1}})
			return err
		}, core.ErrEmptySubject},
		{"nested value", func() error {
			_, err := service.CreateRecord(ctx, core.CreateInput{Subject: "s", Data: core.Data{"a": []int{1}}})
			return err
		}, core.ErrUnsupportedValue},
		{"zero id on get", func() error {
			_, err := service.GetRecord(ctx, 0)
			return err
		}, core.ErrInvalidID},
		{"negative id on delete", func() error {
			return service.DeleteRecord(ctx, -3)
		}, core.ErrInvalidID},
		{"bad sort", func() error {
			_, err := service.ListRecords(ctx, core.Query{Subject: "s", Sort: "title"})
			return err
		}, core.ErrInvalidQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestService_CreateLockFailureKeepsID(t *testing.T) {
	repo := NewMockRepository()
	repo.lockErr = &core.RequestError{Status: 500, Phase: core.PhaseLock}
	service := core.NewService(repo, nil)

	rec, err := service.CreateRecord(context.TODO(), core.CreateInput{Subject: "s", Data: core.Data{"a": 1}})
	if !core.IsPhase(err, core.PhaseLock) {
		t.Fatalf("expected lock phase error, got %v", err)
	}
	if rec.ID == 0 {
		t.Fatal("expected the created id to be reported alongside the lock error")
	}
	if _, ok := repo.records[rec.ID]; !ok {
		t.Error("expected record to remain stored after lock failure")
	}
}

func TestService_Watch_Unsupported(t *testing.T) {
	service := core.NewService(NewMockRepository(), nil)

	_, err := service.Watch(context.TODO(), core.Query{Subject: "s"})
	if err == nil {
		t.Fatal("expected error for non-watchable repo")
	}
	if err.Error() != "repository does not support watching" {
		t.Errorf("unexpected error msg: %v", err)
	}
}

func TestService_State(t *testing.T) {
	service := core.NewService(NewMockRepository(), nil)
	state, ok := service.State().(core.ServiceState)
	if !ok {
		t.Fatalf("unexpected state type %T", service.State())
	}
	if state.RepositoryType != "repository" || state.Watchable {
		t.Errorf("unexpected state: %s", fmt.Sprintf("%+v", state))
	}
}
