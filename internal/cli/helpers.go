package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/aretw0/knockknock/internal/logging"
	"github.com/aretw0/knockknock/pkg/domain"
)

// ParsePort validates a port argument. Zero asks the OS for a free port.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: must be a number", s)
	}
	if port < 0 || port > 65535 {
		return 0, fmt.Errorf("invalid port %d: must be between 0 and 65535", port)
	}
	return port, nil
}

// createLogger configures the application logger from a level flag.
func createLogger(level string) (*slog.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(lvl), nil
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(ctx context.Context, e *domain.TurnEvent) {
			logger.Debug("Turn", "session_id", e.SessionID, "from", e.From, "to", e.To, "cursor", e.Cursor)
		},
		OnDone: func(ctx context.Context, e *domain.DoneEvent) {
			logger.Debug("Dialogue Done", "session_id", e.SessionID, "turns", e.Turns, "rounds", e.Rounds)
		},
	}
}

// chainHooks calls every non-nil callback of hs in order.
func chainHooks(hs ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(ctx context.Context, e *domain.TurnEvent) {
			for _, h := range hs {
				if h.OnTurn != nil {
					h.OnTurn(ctx, e)
				}
			}
		},
		OnDone: func(ctx context.Context, e *domain.DoneEvent) {
			for _, h := range hs {
				if h.OnDone != nil {
					h.OnDone(ctx, e)
				}
			}
		},
	}
}
