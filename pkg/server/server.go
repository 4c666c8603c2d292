package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/aretw0/knockknock"
	"github.com/aretw0/knockknock/internal/logging"
	"github.com/aretw0/knockknock/pkg/domain"
	"github.com/aretw0/knockknock/pkg/ports"
	"github.com/google/uuid"
)

// ErrServerClosed is returned by Serve when the listener was closed before
// a client connected.
var ErrServerClosed = errors.New("server closed before a client connected")

// Outcome describes how a session ended.
type Outcome string

const (
	OutcomeCompleted  Outcome = "completed"   // termination phrase sent
	OutcomeClientGone Outcome = "client_gone" // client hung up first
	OutcomeCancelled  Outcome = "cancelled"   // context cancelled
	OutcomeTimeout    Outcome = "timeout"     // idle timeout hit
	OutcomeError      Outcome = "error"       // transport or engine failure
)

// Observer is notified around the single session.
type Observer interface {
	SessionStarted(sessionID string)
	SessionEnded(sessionID string, outcome Outcome, elapsed time.Duration)
}

// Result summarizes the session served.
type Result struct {
	SessionID string
	Remote    string
	Outcome   Outcome
	Turns     int
	Rounds    int
	Elapsed   time.Duration
}

// Server accepts one connection and runs one dialogue over it.
type Server struct {
	addr        string
	logger      *slog.Logger
	engineOpts  []knockknock.Option
	hooks       domain.LifecycleHooks
	observer    Observer
	idleTimeout time.Duration
	maxLine     int
	newID       func() string
	newDialogue ports.DialogueFactory

	mu       sync.Mutex
	listener net.Listener
}

// New creates a Server for addr (host:port, ":0" picks a free port).
func New(addr string, opts ...Option) *Server {
	s := &Server{
		addr:    addr,
		logger:  logging.NewNop(),
		maxLine: DefaultMaxLineSize,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Listen binds the listening socket. Serve calls it if needed.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return nil
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln
	s.logger.Info("starting server", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Close stops listening. A pending Serve returns ErrServerClosed.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

// Serve accepts exactly one connection, runs the dialogue, and returns.
// The listener is closed as soon as the client is accepted, so no second
// client is ever served.
func (s *Server) Serve(ctx context.Context) (Result, error) {
	if err := s.Listen(); err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	conn, err := ln.Accept()
	stop()
	ln.Close()

	if err != nil {
		if ctx.Err() != nil {
			s.logger.Info("shutting down server", "reason", ctx.Err())
			return Result{Outcome: OutcomeCancelled}, ctx.Err()
		}
		if errors.Is(err, net.ErrClosed) {
			return Result{}, ErrServerClosed
		}
		return Result{}, fmt.Errorf("failed to accept connection: %w", err)
	}

	res, err := s.ServeConn(ctx, conn)
	s.logger.Info("shutting down server")
	return res, err
}

// ServeConn runs one dialogue over conn and closes it.
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) (Result, error) {
	id := s.newID()
	logger := s.logger.With("session_id", id, "remote", conn.RemoteAddr().String())
	logger.Info("client connected")

	res := Result{SessionID: id, Remote: conn.RemoteAddr().String()}
	start := time.Now()
	if s.observer != nil {
		s.observer.SessionStarted(id)
	}

	var snap domain.Snapshot
	dlg, err := s.dialogue(id)
	if err == nil {
		sess := newSession(conn, dlg, s.idleTimeout, s.maxLine, logger)
		err = sess.run(ctx)
		snap = dlg.Snapshot()
	}

	res.Turns = snap.Turns
	res.Rounds = snap.Rounds
	res.Outcome = outcomeOf(err)
	res.Elapsed = time.Since(start)

	logger.Info("closing client connection", "outcome", res.Outcome, "turns", res.Turns)
	if cerr := conn.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
		logger.Warn("failed to close connection", "err", cerr)
	}

	if s.observer != nil {
		s.observer.SessionEnded(id, res.Outcome, res.Elapsed)
	}

	switch res.Outcome {
	case OutcomeCompleted:
		return res, nil
	case OutcomeClientGone, OutcomeTimeout:
		logger.Warn("session ended early", "err", err)
	case OutcomeCancelled:
		logger.Info("session cancelled", "err", err)
	default:
		logger.Error("session failed", "err", err)
	}
	return res, err
}

// dialogue builds the session's dialogue, by default a knockknock.Engine.
func (s *Server) dialogue(id string) (ports.Dialogue, error) {
	if s.newDialogue != nil {
		return s.newDialogue(id)
	}
	opts := append([]knockknock.Option{}, s.engineOpts...)
	opts = append(opts,
		knockknock.WithSessionID(id),
		knockknock.WithLogger(s.logger),
		knockknock.WithLifecycleHooks(s.hooks),
	)
	return knockknock.New(opts...)
}

func outcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeCompleted
	case errors.Is(err, ErrClientGone):
		return OutcomeClientGone
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCancelled
	case errors.Is(err, ErrIdleTimeout):
		return OutcomeTimeout
	default:
		return OutcomeError
	}
}
