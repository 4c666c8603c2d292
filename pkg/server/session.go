package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/aretw0/knockknock/pkg/ports"
)

var (
	// ErrClientGone is returned when the client hangs up before the
	// termination phrase.
	ErrClientGone = errors.New("client closed the connection")

	// ErrIdleTimeout is returned when no line arrives within the idle timeout.
	ErrIdleTimeout = errors.New("idle timeout waiting for client line")
)

// session wires one connection to one engine.
type session struct {
	conn        net.Conn
	reader      *bufio.Reader
	writer      *bufio.Writer
	engine      ports.Dialogue
	idleTimeout time.Duration
	maxLine     int
	logger      *slog.Logger
}

func newSession(conn net.Conn, eng ports.Dialogue, idle time.Duration, maxLine int, logger *slog.Logger) *session {
	return &session{
		logger:      logger,
		conn:        conn,
		reader:      bufio.NewReader(conn),
		writer:      bufio.NewWriter(conn),
		engine:      eng,
		idleTimeout: idle,
		maxLine:     maxLine,
	}
}

// run drives the dialogue: opening line first, then one reply per line read,
// until the engine is done.
func (s *session) run(ctx context.Context) error {
	// Cancellation unblocks a pending read by expiring its deadline.
	stop := context.AfterFunc(ctx, func() {
		s.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	out, err := s.engine.Start(ctx)
	if err != nil {
		return err
	}
	if err := s.send(out); err != nil {
		return err
	}

	for !s.engine.Done() {
		line, err := s.receive(ctx)
		if err != nil {
			return err
		}

		out, err := s.engine.Reply(ctx, line)
		if err != nil {
			return err
		}
		if err := s.send(out); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) send(line string) error {
	if _, err := s.writer.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("failed to write line: %w", err)
	}
	if err := s.writer.Flush(); err != nil {
		return fmt.Errorf("failed to write line: %w", err)
	}
	return nil
}

// receive reads one line without its terminator. A final line without a
// newline is still delivered; EOF after it surfaces on the next call.
func (s *session) receive(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if s.idleTimeout > 0 {
		if err := s.conn.SetReadDeadline(time.Now().Add(s.idleTimeout)); err != nil {
			return "", fmt.Errorf("failed to set read deadline: %w", err)
		}
		// A cancellation racing the line above may have had its expired
		// deadline overwritten.
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	text, err := s.readLine()
	if err != nil && (text == "" || !errors.Is(err, io.EOF)) {
		return "", s.classify(ctx, err)
	}

	line := trimLine(text)
	if err := CheckLine(line, s.maxLine); err != nil {
		return "", err
	}
	s.logger.Debug("line received", "line", SanitizeLine(line))
	return line, nil
}

// readLine reads up to and including the next newline, refusing to buffer
// more than maxLine bytes plus the terminator.
func (s *session) readLine() (string, error) {
	var buf []byte
	for {
		chunk, err := s.reader.ReadSlice('\n')
		if s.maxLine > 0 && len(buf)+len(chunk) > s.maxLine+2 {
			return "", fmt.Errorf("%w: limit=%d", ErrLineTooLong, s.maxLine)
		}
		buf = append(buf, chunk...)
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return string(buf), err
	}
}

func (s *session) classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, io.EOF) {
		return ErrClientGone
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return fmt.Errorf("%w: %w", ErrIdleTimeout, err)
	}
	return fmt.Errorf("failed to read line: %w", err)
}

func trimLine(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
