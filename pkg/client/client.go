// Package client is an interactive line client for the knock-knock server.
//
// It reads one server line, shows it, and, unless that line was the
// termination phrase, sends back one line read from the user.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strings"

	"github.com/aretw0/knockknock/internal/logging"
	"github.com/aretw0/knockknock/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ErrServerGone is returned when the server closes the connection before
// sending the termination phrase.
var ErrServerGone = errors.New("server closed the connection")

// Client relays lines between a user and a server connection.
type Client struct {
	input       io.Reader
	output      *termenv.Output
	termination string
	prompt      bool
	logger      *slog.Logger
}

// Option defines a functional option for configuring the Client.
type Option func(*Client)

// WithTermination sets the phrase that ends the dialogue.
func WithTermination(phrase string) Option {
	return func(c *Client) {
		c.termination = phrase
	}
}

// WithPrompt forces the "> " prompt on or off.
func WithPrompt(on bool) Option {
	return func(c *Client) {
		c.prompt = on
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client reading user lines from in and writing to out.
// Nil values fall back to Stdin/Stdout. The prompt is shown only when in is
// a terminal.
func New(in io.Reader, out io.Writer, opts ...Option) *Client {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	c := &Client{
		input:       in,
		output:      termenv.NewOutput(out),
		termination: domain.DefaultTermination,
		prompt:      isTerminal(in),
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Dial connects to a knock-knock server.
func Dial(ctx context.Context, addr string) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return conn, nil
}

// Run relays the dialogue over conn until the termination phrase arrives.
// It does not close conn.
func (c *Client) Run(ctx context.Context, conn net.Conn) error {
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	server := bufio.NewReader(conn)
	user := newLinePump(c.input)
	defer user.stop()

	for {
		line, err := server.ReadString('\n')
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return ErrServerGone
			}
			return fmt.Errorf("failed to read from server: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		c.showServer(line)

		if line == c.termination {
			c.logger.Debug("dialogue finished")
			return nil
		}

		if c.prompt {
			fmt.Fprint(c.output, "> ")
		}
		reply, err := user.next(ctx)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(conn, reply+"\n"); err != nil {
			return fmt.Errorf("failed to write to server: %w", err)
		}
		c.logger.Debug("sent", "line", reply)
	}
}

func (c *Client) showServer(line string) {
	label := c.output.String("Server:").Bold().Foreground(c.output.Color("#818cf8"))
	fmt.Fprintf(c.output, "%s %s\n", label, line)
}
