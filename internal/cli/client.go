package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/knockknock/pkg/client"
)

// ClientOptions contains the configuration for the client command.
type ClientOptions struct {
	Addr        string
	Termination string
	LogLevel    string
}

// RunClient connects to a server and relays stdin until the dialogue ends.
func RunClient(opts ClientOptions) error {
	logger, err := createLogger(opts.LogLevel)
	if err != nil {
		return err
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	conn, err := client.Dial(sigCtx, opts.Addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	var clientOpts []client.Option
	clientOpts = append(clientOpts, client.WithLogger(logger))
	if opts.Termination != "" {
		clientOpts = append(clientOpts, client.WithTermination(opts.Termination))
	}

	c := client.New(nil, nil, clientOpts...)
	if err := c.Run(sigCtx, conn); err != nil {
		if sigCtx.Signal() != nil {
			return nil
		}
		return fmt.Errorf("dialogue with %s ended: %w", opts.Addr, err)
	}
	return nil
}
