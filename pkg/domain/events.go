package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTurn EventType = "turn"
	EventDone EventType = "done"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// TurnEvent describes one completed exchange.
type TurnEvent struct {
	EventBase
	From   DialogueState `json:"from"`
	To     DialogueState `json:"to"`
	Cursor int           `json:"cursor"`
	Input  *string       `json:"input,omitempty"`
	Output string        `json:"output"`
}

// DoneEvent is emitted once, when the dialogue reaches its sink state.
type DoneEvent struct {
	EventBase
	Turns  int `json:"turns"`
	Rounds int `json:"rounds"`
}

// LifecycleHooks defines callbacks for engine observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnTurn func(context.Context, *TurnEvent)
	OnDone func(context.Context, *DoneEvent)
}
