package main

import (
	"github.com/aretw0/knockknock/internal/cli"
	"github.com/spf13/cobra"
)

var clientCmd = &cobra.Command{
	Use:   "client <host:port>",
	Short: "Connect to a knock-knock server interactively",
	Long:  `Shows each server line and sends back one line typed on stdin, until the server says goodbye.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.ClientOptions{Addr: args[0]}
		opts.Termination, _ = cmd.Flags().GetString("termination")
		opts.LogLevel, _ = cmd.Flags().GetString("log-level")
		return cli.RunClient(opts)
	},
}

func init() {
	rootCmd.AddCommand(clientCmd)

	clientCmd.Flags().String("termination", "", "Termination phrase sent by the server (default \"Bye.\")")
}
