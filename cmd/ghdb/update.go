package main

import (
	"github.com/spf13/cobra"
)

var (
	updateData string
	updateSets []string
	updateYAML bool
)

var updateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Replace the payload of an editable record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		data, err := buildPayload(updateData, updateSets)
		if err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}

		rec, err := svc.UpdateRecord(cmd.Context(), id, data)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), rec.Map(), updateYAML)
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringVar(&updateData, "data", "", "Payload as a JSON object")
	updateCmd.Flags().StringArrayVar(&updateSets, "set", nil, "Payload field as key=value (repeatable)")
	updateCmd.Flags().BoolVar(&updateYAML, "yaml", false, "Output in YAML format")
}
