package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ga-ut/gh-db/pkg/core"
)

var (
	createData     string
	createSets     []string
	createTags     []string
	createEditable bool
)

var createCmd = &cobra.Command{
	Use:   "create [subject]",
	Short: "Create a record in a collection",
	Long: `Create a record whose payload comes from --data and/or --set.
Records are locked unless --editable is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := buildPayload(createData, createSets)
		if err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}

		rec, err := svc.CreateRecord(cmd.Context(), core.CreateInput{
			Subject:  args[0],
			Data:     data,
			Tags:     createTags,
			Editable: createEditable,
		})
		if rec.ID != 0 {
			fmt.Fprintln(cmd.OutOrStdout(), rec.ID)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVar(&createData, "data", "", "Payload as a JSON object")
	createCmd.Flags().StringArrayVar(&createSets, "set", nil, "Payload field as key=value (repeatable)")
	createCmd.Flags().StringSliceVar(&createTags, "tag", nil, "Extra label (repeatable)")
	createCmd.Flags().BoolVar(&createEditable, "editable", false, "Leave the record unlocked")
}
