package runtime

import (
	"fmt"

	"github.com/aretw0/knockknock/pkg/domain"
)

// Engine is the dialogue state machine.
// It performs no I/O and is not safe for concurrent use; each session owns
// its own instance.
type Engine struct {
	table  domain.Table
	state  domain.DialogueState
	cursor int
	turns  int
	rounds int
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithStartCursor selects the entry used by the first round.
// Out-of-range values wrap around the table.
func WithStartCursor(i int) EngineOption {
	return func(e *Engine) {
		n := e.table.Len()
		e.cursor = ((i % n) + n) % n
	}
}

// NewEngine creates an engine positioned at StateStart.
// The table is validated and copied.
func NewEngine(table domain.Table, opts ...EngineOption) (*Engine, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		table: table.Clone(),
		state: domain.StateStart,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Advance consumes one input and returns the line to send back.
//
// NoInput is only accepted in StateStart. Once the termination phrase has
// been returned every further call fails. Failed calls leave the engine
// untouched; every other input maps to a transition.
func (e *Engine) Advance(in domain.Input) (string, error) {
	if e.state.Terminal() {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidCall, domain.ErrDialogueDone)
	}
	if !in.Present() && e.state != domain.StateStart {
		return "", fmt.Errorf("%w: %w (state %s)", domain.ErrInvalidCall, domain.ErrMissingInput, e.state)
	}

	line, _ := in.Value()
	out, next := e.transition(line)

	e.state = next
	e.turns++
	return out, nil
}

// transition computes the reply and successor for the current state.
// It advances the cursor on affirmative replies.
func (e *Engine) transition(line string) (string, domain.DialogueState) {
	switch e.state {
	case domain.StateStart:
		return e.table.Opening, domain.StateOpened

	case domain.StateOpened:
		e.rounds++
		return e.table.Entry(e.cursor).Setup, domain.StateClueGiven

	case domain.StateClueGiven:
		return e.table.Entry(e.cursor).Punchline, domain.StatePunchlineGiven

	case domain.StatePunchlineGiven:
		if !e.Affirmative(line) {
			return e.table.Termination, domain.StateDone
		}
		e.cursor = (e.cursor + 1) % e.table.Len()
		if e.table.Repeat == domain.RepeatReopen {
			return e.table.Opening, domain.StateOpened
		}
		e.rounds++
		return e.table.Entry(e.cursor).Setup, domain.StateClueGiven
	}

	// Unreachable for engines built by NewEngine.
	panic(fmt.Sprintf("runtime: unknown dialogue state %q", e.state))
}

// Affirmative reports whether line continues the dialogue.
// The match is exact and case-sensitive.
func (e *Engine) Affirmative(line string) bool {
	return line == e.table.Affirmative
}

// State returns the current dialogue state.
func (e *Engine) State() domain.DialogueState {
	return e.state
}

// Cursor returns the index of the active entry.
func (e *Engine) Cursor() int {
	return e.cursor
}

// Done reports whether the termination phrase has been returned.
func (e *Engine) Done() bool {
	return e.state.Terminal()
}

// Table returns the content the engine was built with.
func (e *Engine) Table() domain.Table {
	return e.table.Clone()
}

// Snapshot returns a read-only view of the engine.
func (e *Engine) Snapshot() domain.Snapshot {
	return domain.Snapshot{
		State:  e.state,
		Cursor: e.cursor,
		Turns:  e.turns,
		Rounds: e.rounds,
	}
}
