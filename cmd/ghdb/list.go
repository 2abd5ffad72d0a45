package main

import (
	"github.com/spf13/cobra"

	"github.com/ga-ut/gh-db/pkg/core"
)

var (
	listYAML      bool
	listOnly      []string
	listTags      []string
	listPerPage   int
	listPage      int
	listSort      string
	listDirection string
)

var listCmd = &cobra.Command{
	Use:   "list [subject]",
	Short: "List one page of a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}

		recs, err := svc.ListRecords(cmd.Context(), core.Query{
			Subject:   args[0],
			Tags:      listTags,
			PerPage:   listPerPage,
			Page:      listPage,
			Sort:      listSort,
			Direction: listDirection,
		})
		if err != nil {
			return err
		}

		out := make([]map[string]any, 0, len(recs))
		for _, rec := range recs {
			m, err := project(rec.Map(), listOnly)
			if err != nil {
				return err
			}
			out = append(out, m)
		}
		return render(cmd.OutOrStdout(), out, listYAML)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listYAML, "yaml", false, "Output in YAML format")
	listCmd.Flags().StringSliceVar(&listOnly, "only", nil, "Only print payload keys matching these globs")
	listCmd.Flags().StringSliceVar(&listTags, "tag", nil, "Filter by label (repeatable, all must match)")
	listCmd.Flags().IntVar(&listPerPage, "per-page", core.DefaultPerPage, "Records per page")
	listCmd.Flags().IntVar(&listPage, "page", core.DefaultPage, "Page number")
	listCmd.Flags().StringVar(&listSort, "sort", core.DefaultSort, "created, updated or comments")
	listCmd.Flags().StringVar(&listDirection, "direction", core.DefaultDirection, "asc or desc")
}
