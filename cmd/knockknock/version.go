package main

import (
	"fmt"

	"github.com/aretw0/knockknock"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of knockknock",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("knockknock version %s\n", knockknock.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
