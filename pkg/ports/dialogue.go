package ports

import (
	"context"

	"github.com/aretw0/knockknock/pkg/domain"
)

// Dialogue is one session's state machine, as seen by a host.
type Dialogue interface {
	// Start returns the opening line. It must be the first call.
	Start(ctx context.Context) (string, error)

	// Reply feeds a received line and returns the line to send back.
	// It returns an error wrapping domain.ErrInvalidCall once Done is true.
	Reply(ctx context.Context, line string) (string, error)

	// Done reports whether the termination phrase has been returned.
	Done() bool

	// Snapshot returns a read-only view of the dialogue.
	Snapshot() domain.Snapshot
}

// DialogueFactory creates the dialogue for a new session.
type DialogueFactory func(sessionID string) (Dialogue, error)
