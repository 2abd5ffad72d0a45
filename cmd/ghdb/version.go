package main

import (
	"fmt"

	"github.com/spf13/cobra"

	ghdb "github.com/ga-ut/gh-db"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ghdb",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ghdb version %s\n", ghdb.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
