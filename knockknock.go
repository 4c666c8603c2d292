package knockknock

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/knockknock/internal/logging"
	"github.com/aretw0/knockknock/internal/runtime"
	"github.com/aretw0/knockknock/pkg/content"
	"github.com/aretw0/knockknock/pkg/domain"
	"github.com/aretw0/knockknock/pkg/ports"
)

// Version is the release of the knockknock module.
const Version = "0.3.0"

// Engine is the high-level entry point for a single dialogue.
// It wraps the internal runtime with logging and lifecycle hooks.
// An Engine serves exactly one session and is not safe for concurrent use.
type Engine struct {
	runtime   *runtime.Engine
	table     domain.Table
	repeat    domain.RepeatPolicy
	cursor    int
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	sessionID string
	now       func() time.Time
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithTable injects the content table. Defaults to content.Default().
func WithTable(t domain.Table) Option {
	return func(e *Engine) {
		e.table = t
	}
}

// WithRepeatPolicy overrides the table's repeat policy.
func WithRepeatPolicy(p domain.RepeatPolicy) Option {
	return func(e *Engine) {
		e.repeat = p
	}
}

// WithStartCursor selects the entry used by the first round.
func WithStartCursor(i int) Option {
	return func(e *Engine) {
		e.cursor = i
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSessionID labels logs and events with the session identifier.
func WithSessionID(id string) Option {
	return func(e *Engine) {
		e.sessionID = id
	}
}

// New initializes an Engine positioned before the opening turn.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		table: content.Default(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.repeat != "" {
		eng.table = eng.table.Clone()
		eng.table.Repeat = eng.repeat
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.sessionID != "" {
		eng.logger = eng.logger.With("session_id", eng.sessionID)
	}

	rt, err := runtime.NewEngine(eng.table, runtime.WithStartCursor(eng.cursor))
	if err != nil {
		return nil, err
	}
	eng.runtime = rt
	eng.table = rt.Table()
	return eng, nil
}

// Start returns the opening line. It must be the first call.
func (e *Engine) Start(ctx context.Context) (string, error) {
	return e.Advance(ctx, domain.NoInput)
}

// Reply feeds a received line and returns the line to send back.
func (e *Engine) Reply(ctx context.Context, line string) (string, error) {
	return e.Advance(ctx, domain.Line(line))
}

// Advance runs one turn of the dialogue.
// Contract violations return an error wrapping domain.ErrInvalidCall.
func (e *Engine) Advance(ctx context.Context, in domain.Input) (string, error) {
	from := e.runtime.Snapshot()

	out, err := e.runtime.Advance(in)
	if err != nil {
		e.logger.Error("invalid advance", "state", from.State, "input", in.String(), "err", err)
		return "", err
	}

	to := e.runtime.Snapshot()
	e.logger.Debug("turn",
		"from", from.State,
		"to", to.State,
		"cursor", to.Cursor,
		"input", in.String(),
		"output", out,
	)

	if e.hooks.OnTurn != nil {
		ev := &domain.TurnEvent{
			EventBase: e.eventBase(domain.EventTurn),
			From:      from.State,
			To:        to.State,
			Cursor:    to.Cursor,
			Output:    out,
		}
		if line, ok := in.Value(); ok {
			ev.Input = &line
		}
		e.hooks.OnTurn(ctx, ev)
	}

	if to.State.Terminal() {
		e.logger.Debug("dialogue done", "turns", to.Turns, "rounds", to.Rounds)
		if e.hooks.OnDone != nil {
			e.hooks.OnDone(ctx, &domain.DoneEvent{
				EventBase: e.eventBase(domain.EventDone),
				Turns:     to.Turns,
				Rounds:    to.Rounds,
			})
		}
	}
	return out, nil
}

func (e *Engine) eventBase(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: e.now(),
		Type:      t,
		SessionID: e.sessionID,
	}
}

// Done reports whether the termination phrase has been returned.
func (e *Engine) Done() bool {
	return e.runtime.Done()
}

// State returns the current dialogue state.
func (e *Engine) State() domain.DialogueState {
	return e.runtime.State()
}

// Snapshot returns a read-only view of the dialogue.
func (e *Engine) Snapshot() domain.Snapshot {
	return e.runtime.Snapshot()
}

// IsTermination reports whether line is the sentinel that ends the dialogue.
func (e *Engine) IsTermination(line string) bool {
	return line == e.table.Termination
}

var _ ports.Dialogue = (*Engine)(nil)

// Table returns a copy of the content in use.
func (e *Engine) Table() domain.Table {
	return e.table.Clone()
}
