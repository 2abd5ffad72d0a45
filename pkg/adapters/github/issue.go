package github

import "time"

// issue is the subset of the tracker's issue object gh-db reads.
type issue struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Locked    bool      `json:"locked"`
	State     string    `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
	Labels    []struct {
		Name string `json:"name"`
	} `json:"labels"`
}

type createRequest struct {
	Title  string   `json:"title"`
	Labels []string `json:"labels"`
	Body   string   `json:"body"`
}

type updateRequest struct {
	Body string `json:"body"`
}

// deleteRequest strips everything that ties an issue to a collection.
// Labels is not omitempty: an empty list clears the labels.
type deleteRequest struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	State  string   `json:"state"`
	Labels []string `json:"labels"`
}
