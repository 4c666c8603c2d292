package domain

// Input is the optional line handed to the engine on each turn.
// The zero value is NoInput.
type Input struct {
	line    string
	present bool
}

// NoInput is passed on the opening turn only.
var NoInput = Input{}

// Line wraps a received line. Empty lines are valid input.
func Line(s string) Input {
	return Input{line: s, present: true}
}

// Value returns the line and whether one was given.
func (in Input) Value() (string, bool) {
	return in.line, in.present
}

// Present reports whether a line was given.
func (in Input) Present() bool {
	return in.present
}

func (in Input) String() string {
	if !in.present {
		return "<none>"
	}
	return in.line
}
