package core

import "context"

// Repository defines the contract for storing and retrieving records.
// Adhering to this interface keeps the core independent of the tracker
// that actually holds the data.
type Repository interface {
	// Create stores a new record and returns it with its assigned ID.
	// Non-editable records are locked after creation; if locking fails the
	// returned Record still carries the ID alongside the error.
	Create(ctx context.Context, in CreateInput) (Record, error)

	// Get retrieves a record by its ID.
	Get(ctx context.Context, id int) (Record, error)

	// List returns the records of a collection in the tracker's order.
	// Records whose body cannot be decoded are skipped.
	List(ctx context.Context, q Query) ([]Record, error)

	// Update replaces the payload of a record.
	Update(ctx context.Context, id int, data Data) (Record, error)

	// Delete closes a record and strips its subject, tags and payload.
	Delete(ctx context.Context, id int) error

	// Initialize ensures the repository is ready to serve requests.
	Initialize(ctx context.Context) error
}

// Watchable defines an interface for repositories that can report changes.
type Watchable interface {
	// Watch emits an Event for every record that appears, changes or leaves
	// the collection selected by q. The channel closes when ctx is done.
	Watch(ctx context.Context, q Query) (<-chan Event, error)
}
