package domain

// InputClass is how a reply is classified for a transition.
type InputClass string

const (
	InputAny         InputClass = "any"         // content ignored
	InputAffirmative InputClass = "affirmative" // exact match of the affirmative token
	InputOther       InputClass = "other"       // anything but the affirmative token
)

// Emit names the phrase sent on a transition.
type Emit string

const (
	EmitOpening     Emit = "opening"
	EmitSetup       Emit = "setup"
	EmitPunchline   Emit = "punchline"
	EmitTermination Emit = "termination"
)

// Transition is one edge of the dialogue state table.
type Transition struct {
	From DialogueState
	On   InputClass
	To   DialogueState
	Emit Emit

	// NextEntry is set when the edge moves the cursor to the next entry.
	NextEntry bool
}

// Transitions returns the dialogue state table for the repeat policy.
// Every non-terminal state has edges covering every input.
func Transitions(p RepeatPolicy) []Transition {
	again := Transition{From: StatePunchlineGiven, On: InputAffirmative, To: StateClueGiven, Emit: EmitSetup, NextEntry: true}
	if p == RepeatReopen {
		again.To, again.Emit = StateOpened, EmitOpening
	}

	return []Transition{
		{From: StateStart, On: InputAny, To: StateOpened, Emit: EmitOpening},
		{From: StateOpened, On: InputAny, To: StateClueGiven, Emit: EmitSetup},
		{From: StateClueGiven, On: InputAny, To: StatePunchlineGiven, Emit: EmitPunchline},
		again,
		{From: StatePunchlineGiven, On: InputOther, To: StateDone, Emit: EmitTermination},
	}
}

// States lists every dialogue state in dialogue order.
func States() []DialogueState {
	return []DialogueState{StateStart, StateOpened, StateClueGiven, StatePunchlineGiven, StateDone}
}
