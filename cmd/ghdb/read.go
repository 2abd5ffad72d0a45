package main

import (
	"github.com/spf13/cobra"
)

var (
	readYAML bool
	readOnly []string
)

var readCmd = &cobra.Command{
	Use:   "read [id]",
	Short: "Read a record",
	Long:  `Read a record by its ID. Outputs JSON by default, or YAML with --yaml.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}

		rec, err := svc.GetRecord(cmd.Context(), id)
		if err != nil {
			return err
		}
		out, err := project(rec.Map(), readOnly)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), out, readYAML)
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().BoolVar(&readYAML, "yaml", false, "Output in YAML format")
	readCmd.Flags().StringSliceVar(&readOnly, "only", nil, "Only print payload keys matching these globs")
}
