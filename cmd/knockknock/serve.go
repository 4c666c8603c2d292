package main

import (
	"fmt"

	"github.com/aretw0/knockknock/internal/cli"
	"github.com/aretw0/knockknock/pkg/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [port]",
	Short: "Serve one knock-knock session and exit",
	Long: `Listens on the given port, accepts exactly one client, and runs the
knock-knock dialogue over newline-delimited text until the client declines
another joke. The server then closes the connection and exits.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		portFlag, _ := cmd.Flags().GetString("port")
		if len(args) > 0 {
			if cmd.Flags().Changed("port") {
				return fmt.Errorf("port given both as argument and --port")
			}
			portFlag = args[0]
		}
		if portFlag == "" {
			return fmt.Errorf("usage: %s", cmd.UseLine())
		}

		port, err := cli.ParsePort(portFlag)
		if err != nil {
			return err
		}

		opts := cli.ServeOptions{Port: port}
		opts.Host, _ = cmd.Flags().GetString("host")
		opts.ContentPath, _ = cmd.Flags().GetString("content")
		opts.Repeat, _ = cmd.Flags().GetString("repeat")
		opts.MetricsAddr, _ = cmd.Flags().GetString("metrics-addr")
		opts.IdleTimeout, _ = cmd.Flags().GetDuration("idle-timeout")
		opts.MaxLineSize, _ = cmd.Flags().GetInt("max-line-size")
		opts.LogLevel, _ = cmd.Flags().GetString("log-level")
		noBanner, _ := cmd.Flags().GetBool("no-banner")
		opts.Banner = !noBanner

		return cli.RunServe(opts)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "", "Port to listen on")
	serveCmd.Flags().String("host", "", "Host to bind (default all interfaces)")
	serveCmd.Flags().StringP("content", "c", "", "Content table file (.yaml, .yml, .json or .hjson)")
	serveCmd.Flags().String("repeat", "", "Repeat policy after \"y\": skip or reopen (default from content)")
	serveCmd.Flags().String("metrics-addr", "", "Address for the Prometheus /metrics endpoint (disabled if empty)")
	serveCmd.Flags().Duration("idle-timeout", 0, "Maximum wait for each client line (0 waits forever)")
	serveCmd.Flags().Int("max-line-size", server.DefaultMaxLineSize, "Maximum bytes per client line (0 disables the limit)")
	serveCmd.Flags().Bool("no-banner", false, "Do not print the startup banner")
}
