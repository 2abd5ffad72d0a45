// Package ghdb is the composition root for gh-db, a document store that keeps
// JSON records as issues of a GitHub-style issue tracker.
//
// It connects the core domain (pkg/core) with the issue-tracker adapter
// (pkg/adapters/github) using the Hexagonal Architecture pattern.
//
// Mapping:
//
//   - **Collection**: the issue title. Records of a subject share a title.
//   - **Tags**: labels, always including the subject. Used for filtering only.
//   - **Payload**: the issue body, a flat JSON object of string, number and null values.
//   - **Immutability**: records are locked at creation unless created editable.
//   - **Soft Delete**: the issue is closed, retitled to its number and stripped of body and labels.
//
// Usage:
//
//	svc, err := ghdb.New("octo/records",
//		ghdb.WithToken(os.Getenv("GITHUB_TOKEN")),
//		ghdb.WithLogger(logger),
//	)
//
//	rec, err := svc.CreateRecord(ctx, ghdb.CreateInput{
//		Subject: "users",
//		Data:    ghdb.Data{"name": "ana"},
//	})
package ghdb
