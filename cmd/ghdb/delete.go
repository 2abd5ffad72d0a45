package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Soft-delete a record",
	Long:  `Close the issue backing a record and strip its title, body and labels.`,
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

		if err := svc.DeleteRecord(cmd.Context(), id); err != nil {
			return err
		}
		slog.Info("record deleted", "id", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
