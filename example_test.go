package ghdb_test

import (
	"context"
	"fmt"
	"log"

	ghdb "github.com/ga-ut/gh-db"
	"github.com/ga-ut/gh-db/internal/testutil"
)

// Example_basic demonstrates how to store a record and read it back.
func Example_basic() {
	// A local fake tracker stands in for api.github.com.
	tracker := testutil.Start("octo", "records")
	defer tracker.Close()

	svc, err := ghdb.New("octo/records",
		ghdb.WithToken("example-token"),
		ghdb.WithBaseURL(tracker.URL()),
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	rec, err := svc.CreateRecord(ctx, ghdb.CreateInput{
		Subject: "users",
		Data:    ghdb.Data{"name": "ana", "age": 31},
	})
	if err != nil {
		log.Fatal(err)
	}

	got, err := svc.GetRecord(ctx, rec.ID)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("record %d: %v\n", got.ID, got.Data["name"])
	// Output:
	// record 1: ana
}

// ExampleOpenTypedService demonstrates the generic typed wrapper.
func ExampleOpenTypedService() {
	tracker := testutil.Start("octo", "records")
	defer tracker.Close()

	type Task struct {
		Title    string `json:"title"`
		Priority int    `json:"priority"`
	}

	tasks, err := ghdb.OpenTypedService[Task]("octo/records", ghdb.WithBaseURL(tracker.URL()))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	for i, title := range []string{"write docs", "ship"} {
		if _, err := tasks.Create(ctx, "tasks", Task{Title: title, Priority: i + 1}); err != nil {
			log.Fatal(err)
		}
	}

	list, err := tasks.List(ctx, ghdb.Query{Subject: "tasks", Direction: "asc"})
	if err != nil {
		log.Fatal(err)
	}
	for _, doc := range list {
		fmt.Printf("#%d %s (p%d)\n", doc.ID, doc.Data.Title, doc.Data.Priority)
	}
	// Output:
	// #1 write docs (p1)
	// #2 ship (p2)
}
