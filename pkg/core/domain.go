// Package core holds the domain of gh-db: records, queries, the error taxonomy
// and the Repository port every storage adapter implements.
package core

import (
	"maps"
	"strconv"
)

// Data is the payload of a record.
// Values are limited to strings, numbers and nil; see EncodeBody.
type Data map[string]any

// Record is a document stored in the tracker.
// ID is assigned by the tracker at creation time and never reused.
type Record struct {
	ID   int
	Data Data
}

// Map flattens the record into a single map with the id merged in.
// A payload key named "id" is shadowed by the record ID.
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r.Data)+1)
	maps.Copy(out, r.Data)
	out["id"] = r.ID
	return out
}

// String returns the id as used by the tracker in titles and URLs.
func (r Record) String() string {
	return strconv.Itoa(r.ID)
}

// CreateInput describes a record to be created.
type CreateInput struct {
	// Subject names the collection. It becomes the issue title and a label.
	Subject string
	Data    Data
	// Tags are extra labels used for filtering.
	Tags []string
	// Editable keeps the record open for Update. When false the record is
	// locked right after creation.
	Editable bool
}

// Labels returns the label set sent on creation: the subject followed by the tags.
func (in CreateInput) Labels() []string {
	labels := make([]string, 0, len(in.Tags)+1)
	seen := map[string]bool{in.Subject: true}
	labels = append(labels, in.Subject)
	for _, t := range in.Tags {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		labels = append(labels, t)
	}
	return labels
}

// EventType represents the type of change observed in a collection.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change in a watched collection.
type Event struct {
	Type      EventType
	ID        int
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer (and lifecycle.Event).
func (e Event) String() string {
	return string(e.Type) + " " + strconv.Itoa(e.ID)
}
