package server

import (
	"log/slog"
	"time"

	"github.com/aretw0/knockknock"
	"github.com/aretw0/knockknock/pkg/domain"
	"github.com/aretw0/knockknock/pkg/ports"
)

// Option defines a functional option for configuring the Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithEngineOptions is passed to knockknock.New for the session engine.
func WithEngineOptions(opts ...knockknock.Option) Option {
	return func(s *Server) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// WithLifecycleHooks registers engine hooks for the session.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Server) {
		s.hooks = hooks
	}
}

// WithObserver reports session start and end.
func WithObserver(o Observer) Option {
	return func(s *Server) {
		s.observer = o
	}
}

// WithIdleTimeout bounds the wait for each client line. Zero disables it.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.idleTimeout = d
	}
}

// WithMaxLineSize bounds each client line. Zero or less disables the limit.
func WithMaxLineSize(n int) Option {
	return func(s *Server) {
		s.maxLine = n
	}
}

// WithSessionIDFunc replaces the session identifier generator.
func WithSessionIDFunc(fn func() string) Option {
	return func(s *Server) {
		s.newID = fn
	}
}

// WithDialogueFactory replaces the dialogue built for each session.
// Engine options and hooks are ignored when a factory is set.
func WithDialogueFactory(f ports.DialogueFactory) Option {
	return func(s *Server) {
		s.newDialogue = f
	}
}
