// Package testutil provides an in-process issue tracker speaking the subset of
// the GitHub issues REST API that gh-db relies on.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// Label mirrors the label object returned by the tracker.
type Label struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// User mirrors the user object returned by the tracker.
type User struct {
	Login string `json:"login"`
}

// Issue is the stored representation of an issue.
type Issue struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	Labels    []Label    `json:"labels"`
	Locked    bool       `json:"locked"`
	State     string     `json:"state"`
	Body      string     `json:"body"`
	User      User       `json:"user"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at"`
}

// LabelNames returns the names of the issue labels in order.
func (i Issue) LabelNames() []string {
	names := make([]string, 0, len(i.Labels))
	for _, l := range i.Labels {
		names = append(names, l.Name)
	}
	return names
}

// Request records what the tracker received.
type Request struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   string
}

// Tracker is a fake issue tracker backed by an httptest.Server.
type Tracker struct {
	Server *httptest.Server
	Owner  string
	Repo   string

	// RequireToken makes every request without a bearer token fail with 401.
	RequireToken bool
	// MutateBody, when set, rewrites bodies stored by PATCH requests.
	MutateBody func(string) string

	mu       sync.Mutex
	issues   map[int]*Issue
	next     int
	clock    time.Time
	faults   map[string]int
	requests []Request
}

// NewTracker starts a tracker for owner/repo and closes it with the test.
func NewTracker(t testing.TB, owner, repo string) *Tracker {
	t.Helper()
	tr := Start(owner, repo)
	t.Cleanup(tr.Close)
	return tr
}

// Start runs a tracker outside of a test. Callers must Close it.
func Start(owner, repo string) *Tracker {
	tr := &Tracker{
		Owner:  owner,
		Repo:   repo,
		issues: make(map[int]*Issue),
		next:   1,
		clock:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		faults: make(map[string]int),
	}

	base := fmt.Sprintf("/repos/%s/%s/issues", owner, repo)
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+base, tr.handleCreate)
	mux.HandleFunc("GET "+base, tr.handleList)
	mux.HandleFunc("GET "+base+"/{number}", tr.handleGet)
	mux.HandleFunc("PATCH "+base+"/{number}", tr.handlePatch)
	mux.HandleFunc("PUT "+base+"/{number}/lock", tr.handleLock)

	tr.Server = httptest.NewServer(tr.record(mux))
	return tr
}

// Close shuts the server down.
func (tr *Tracker) Close() {
	tr.Server.Close()
}

// URL returns the base URL to configure clients with.
func (tr *Tracker) URL() string {
	return tr.Server.URL
}

// Fail makes the next request of the given kind answer with status.
// Kinds are "create", "lock", "list", "get", "patch".
func (tr *Tracker) Fail(kind string, status int) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.faults[kind] = status
}

// Issue returns a copy of the stored issue.
func (tr *Tracker) Issue(number int) (Issue, bool) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	is, ok := tr.issues[number]
	if !ok {
		return Issue{}, false
	}
	return *is, true
}

// Put stores an issue directly, bypassing the API. Used to seed legacy or
// malformed records.
func (tr *Tracker) Put(title, body string, labels ...string) int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.insert(title, body, labels, tr.Owner).Number
}

// Touch changes the body of an issue and bumps its update time.
func (tr *Tracker) Touch(number int, body string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if is, ok := tr.issues[number]; ok {
		is.Body = body
		is.UpdatedAt = tr.tick()
	}
}

// Requests returns every request received so far.
func (tr *Tracker) Requests() []Request {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return slices.Clone(tr.requests)
}

func (tr *Tracker) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
		}
		tr.mu.Lock()
		tr.requests = append(tr.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   string(body),
		})
		tr.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(body))

		if tr.RequireToken && !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Requires authentication"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (tr *Tracker) fault(kind string) (int, bool) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	status, ok := tr.faults[kind]
	if ok {
		delete(tr.faults, kind)
	}
	return status, ok
}

func (tr *Tracker) tick() time.Time {
	tr.clock = tr.clock.Add(time.Second)
	return tr.clock
}

func (tr *Tracker) insert(title, body string, labels []string, login string) *Issue {
	now := tr.tick()
	is := &Issue{
		Number:    tr.next,
		Title:     title,
		State:     "open",
		Body:      body,
		User:      User{Login: login},
		CreatedAt: now,
		UpdatedAt: now,
	}
	is.Labels = toLabels(labels)
	tr.issues[is.Number] = is
	tr.next++
	return is
}

func toLabels(names []string) []Label {
	labels := make([]Label, 0, len(names))
	for i, n := range names {
		labels = append(labels, Label{ID: i + 1, Name: n})
	}
	return labels
}

func (tr *Tracker) handleCreate(w http.ResponseWriter, r *http.Request) {
	if status, ok := tr.fault("create"); ok {
		writeJSON(w, status, map[string]string{"message": "injected failure"})
		return
	}
	var in struct {
		Title  string   `json:"title"`
		Labels []string `json:"labels"`
		Body   string   `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Title == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Validation Failed"})
		return
	}

	tr.mu.Lock()
	is := *tr.insert(in.Title, in.Body, in.Labels, tr.Owner)
	tr.mu.Unlock()
	writeJSON(w, http.StatusCreated, is)
}

func (tr *Tracker) handleLock(w http.ResponseWriter, r *http.Request) {
	if status, ok := tr.fault("lock"); ok {
		writeJSON(w, status, map[string]string{"message": "injected failure"})
		return
	}
	tr.mu.Lock()
	defer tr.mu.Unlock()
	is, ok := tr.lookup(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	is.Locked = true
	w.WriteHeader(http.StatusNoContent)
}

func (tr *Tracker) handleGet(w http.ResponseWriter, r *http.Request) {
	if status, ok := tr.fault("get"); ok {
		writeJSON(w, status, map[string]string{"message": "injected failure"})
		return
	}
	tr.mu.Lock()
	is, ok := tr.lookup(r)
	var out Issue
	if ok {
		out = *is
	}
	tr.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (tr *Tracker) handlePatch(w http.ResponseWriter, r *http.Request) {
	if status, ok := tr.fault("patch"); ok {
		writeJSON(w, status, map[string]string{"message": "injected failure"})
		return
	}
	var in struct {
		Title  *string   `json:"title"`
		Body   *string   `json:"body"`
		State  *string   `json:"state"`
		Labels *[]string `json:"labels"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Problems parsing JSON"})
		return
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	is, ok := tr.lookup(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	closing := in.State != nil && *in.State == "closed"
	if is.Locked && !closing {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "Issue is locked"})
		return
	}

	if in.Title != nil {
		is.Title = *in.Title
	}
	if in.Body != nil {
		is.Body = *in.Body
		if tr.MutateBody != nil {
			is.Body = tr.MutateBody(is.Body)
		}
	}
	if in.Labels != nil {
		is.Labels = toLabels(*in.Labels)
	}
	is.UpdatedAt = tr.tick()
	if closing {
		is.State = "closed"
		closedAt := is.UpdatedAt
		is.ClosedAt = &closedAt
	}
	writeJSON(w, http.StatusOK, *is)
}

func (tr *Tracker) handleList(w http.ResponseWriter, r *http.Request) {
	if status, ok := tr.fault("list"); ok {
		writeJSON(w, status, map[string]string{"message": "injected failure"})
		return
	}
	q := r.URL.Query()
	perPage := atoiDefault(q.Get("per_page"), 30)
	page := atoiDefault(q.Get("page"), 1)
	var wantLabels []string
	if l := q.Get("labels"); l != "" {
		wantLabels = strings.Split(l, ",")
	}

	tr.mu.Lock()
	var matched []Issue
	for _, is := range tr.issues {
		if is.State != "open" {
			continue
		}
		if t := q.Get("title"); t != "" && is.Title != t {
			continue
		}
		if c := q.Get("creator"); c != "" && is.User.Login != c {
			continue
		}
		names := is.LabelNames()
		if !containsAll(names, wantLabels) {
			continue
		}
		matched = append(matched, *is)
	}
	tr.mu.Unlock()

	key := func(is Issue) int64 {
		if q.Get("sort") == "updated" {
			return is.UpdatedAt.UnixNano()
		}
		return int64(is.Number)
	}
	slices.SortFunc(matched, func(a, b Issue) int {
		d := key(a) - key(b)
		if q.Get("direction") != "asc" {
			d = -d
		}
		switch {
		case d < 0:
			return -1
		case d > 0:
			return 1
		}
		return 0
	})

	start := (page - 1) * perPage
	if start > len(matched) {
		start = len(matched)
	}
	end := min(start+perPage, len(matched))
	out := matched[start:end]
	if out == nil {
		out = []Issue{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (tr *Tracker) lookup(r *http.Request) (*Issue, bool) {
	n, err := strconv.Atoi(r.PathValue("number"))
	if err != nil {
		return nil, false
	}
	is, ok := tr.issues[n]
	return is, ok
}

func containsAll(have, want []string) bool {
	for _, w := range want {
		if !slices.Contains(have, w) {
			return false
		}
	}
	return true
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
