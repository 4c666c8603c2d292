package domain

// DialogueState is the position of a session in the dialogue.
type DialogueState string

const (
	StateStart          DialogueState = "start"           // Nothing sent yet
	StateOpened         DialogueState = "opened"          // Opening sent, awaiting acknowledgement
	StateClueGiven      DialogueState = "clue_given"      // Setup sent, awaiting "who?"
	StatePunchlineGiven DialogueState = "punchline_given" // Punchline sent, awaiting another?
	StateDone           DialogueState = "done"            // Sink state reached
)

// Terminal reports whether no further turn is allowed.
func (s DialogueState) Terminal() bool {
	return s == StateDone
}

func (s DialogueState) String() string {
	return string(s)
}

// Snapshot is a read-only view of an engine between turns.
type Snapshot struct {
	// State is the current dialogue state.
	State DialogueState `json:"state"`

	// Cursor is the index of the active entry.
	Cursor int `json:"cursor"`

	// Turns counts the successful Advance calls, the opening included.
	Turns int `json:"turns"`

	// Rounds counts the entries started so far.
	Rounds int `json:"rounds"`
}
