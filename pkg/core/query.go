package core

import "fmt"

// Sort orders accepted by the tracker's list endpoint.
const (
	SortCreated  = "created"
	SortUpdated  = "updated"
	SortComments = "comments"
)

// Directions accepted by the tracker's list endpoint.
const (
	DirectionAsc  = "asc"
	DirectionDesc = "desc"
)

// Defaults applied by Query.Normalize.
const (
	DefaultPerPage   = 30
	DefaultPage      = 1
	DefaultSort      = SortCreated
	DefaultDirection = DirectionDesc
)

// Query selects the records of one collection.
// Paging and ordering are passed to the tracker verbatim; nothing is
// re-sorted or re-paged locally.
type Query struct {
	Subject   string
	Tags      []string
	PerPage   int
	Page      int
	Sort      string
	Direction string
}

// Normalize fills zero fields with their defaults and validates the rest.
func (q Query) Normalize() (Query, error) {
	if q.Subject == "" {
		return q, ErrEmptySubject
	}
	if q.PerPage == 0 {
		q.PerPage = DefaultPerPage
	}
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.Sort == "" {
		q.Sort = DefaultSort
	}
	if q.Direction == "" {
		q.Direction = DefaultDirection
	}

	if q.PerPage < 0 || q.Page < 0 {
		return q, fmt.Errorf("%w: per_page and page must be positive", ErrInvalidQuery)
	}
	switch q.Sort {
	case SortCreated, SortUpdated, SortComments:
	default:
		return q, fmt.Errorf("%w: unknown sort %q", ErrInvalidQuery, q.Sort)
	}
	switch q.Direction {
	case DirectionAsc, DirectionDesc:
	default:
		return q, fmt.Errorf("%w: unknown direction %q", ErrInvalidQuery, q.Direction)
	}
	return q, nil
}
