package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	ghdb "github.com/ga-ut/gh-db"
	lcsource "github.com/ga-ut/gh-db/pkg/adapters/lifecycle"
	"github.com/ga-ut/gh-db/pkg/core"
)

var (
	watchTags     []string
	watchTypes    []string
	watchInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [subject]",
	Short: "Print changes to a collection until interrupted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		types, err := parseEventTypes(watchTypes)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc, err := openService(ghdb.WithPollInterval(watchInterval))
		if err != nil {
			return err
		}

		events, err := svc.Watch(ctx, core.Query{Subject: args[0], Tags: watchTags})
		if err != nil {
			return err
		}

		src := lcsource.NewSource(events, types...)
		if err := src.Start(ctx); err != nil {
			return err
		}
		for e := range src.Events() {
			fmt.Fprintln(cmd.OutOrStdout(), e.String())
		}
		return nil
	},
}

func parseEventTypes(names []string) ([]core.EventType, error) {
	types := make([]core.EventType, 0, len(names))
	for _, n := range names {
		t := core.EventType(strings.ToUpper(strings.TrimSpace(n)))
		switch t {
		case core.EventCreate, core.EventModify, core.EventDelete:
			types = append(types, t)
		default:
			return nil, fmt.Errorf("unknown event type %q", n)
		}
	}
	return types, nil
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringSliceVar(&watchTags, "tag", nil, "Filter by label (repeatable)")
	watchCmd.Flags().StringSliceVar(&watchTypes, "type", nil, "Only print these event types (create, modify, delete)")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 30*time.Second, "Polling interval")
}
