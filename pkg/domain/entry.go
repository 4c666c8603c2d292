package domain

const (
	// DefaultOpening is the first line of every dialogue.
	DefaultOpening = "Knock! Knock!"

	// DefaultTermination is the sentinel line that ends a dialogue.
	// Hosts close the connection after writing it.
	DefaultTermination = "Bye."

	// DefaultAffirmative is the reply that asks for another entry.
	DefaultAffirmative = "y"
)

// Entry is one setup/punchline pair of the content table.
type Entry struct {
	Setup     string `json:"setup" yaml:"setup" mapstructure:"setup"`
	Punchline string `json:"punchline" yaml:"punchline" mapstructure:"punchline"`
}

// RepeatPolicy decides what is sent after an affirmative reply.
type RepeatPolicy string

const (
	// RepeatSkipOpening sends the next setup phrase directly.
	RepeatSkipOpening RepeatPolicy = "skip"

	// RepeatReopen sends the opening phrase again and waits for the
	// acknowledgement before the next setup phrase.
	RepeatReopen RepeatPolicy = "reopen"
)

// Valid reports whether p is a known policy.
func (p RepeatPolicy) Valid() bool {
	return p == RepeatSkipOpening || p == RepeatReopen
}

// Table is the content a dialogue is scripted from.
// It must not be mutated once handed to an engine; use NewTable to get a
// private copy of the entries.
type Table struct {
	Opening     string
	Termination string
	Affirmative string
	Repeat      RepeatPolicy
	Entries     []Entry
}

// NewTable builds a Table with the default phrases and a copy of entries.
// It returns ErrEmptyTable if no entry is given.
func NewTable(entries ...Entry) (Table, error) {
	t := Table{
		Opening:     DefaultOpening,
		Termination: DefaultTermination,
		Affirmative: DefaultAffirmative,
		Repeat:      RepeatSkipOpening,
		Entries:     append([]Entry(nil), entries...),
	}
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// Len returns the number of entries.
func (t Table) Len() int {
	return len(t.Entries)
}

// Entry returns the entry at i, wrapping around the table.
func (t Table) Entry(i int) Entry {
	return t.Entries[i%len(t.Entries)]
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	c := t
	c.Entries = append([]Entry(nil), t.Entries...)
	return c
}

// WithDefaults fills unset phrases and policy with their defaults.
func (t Table) WithDefaults() Table {
	if t.Opening == "" {
		t.Opening = DefaultOpening
	}
	if t.Termination == "" {
		t.Termination = DefaultTermination
	}
	if t.Affirmative == "" {
		t.Affirmative = DefaultAffirmative
	}
	if t.Repeat == "" {
		t.Repeat = RepeatSkipOpening
	}
	return t
}

// Validate checks the table invariants.
func (t Table) Validate() error {
	if len(t.Entries) == 0 {
		return ErrEmptyTable
	}

	var errs []error
	if t.Opening == "" {
		errs = append(errs, &ValidationError{Key: "opening", Reason: "must not be empty"})
	}
	if t.Termination == "" {
		errs = append(errs, &ValidationError{Key: "termination", Reason: "must not be empty"})
	}
	if t.Affirmative == "" {
		errs = append(errs, &ValidationError{Key: "affirmative", Reason: "must not be empty"})
	}
	if t.Termination != "" && t.Opening == t.Termination {
		errs = append(errs, &ValidationError{Key: "opening", Reason: "must not equal the termination phrase", Value: t.Opening})
	}
	if t.Termination != "" && t.Affirmative == t.Termination {
		errs = append(errs, &ValidationError{Key: "affirmative", Reason: "must not equal the termination phrase", Value: t.Affirmative})
	}
	if !t.Repeat.Valid() {
		errs = append(errs, &ValidationError{Key: "repeat", Reason: "must be \"skip\" or \"reopen\"", Value: string(t.Repeat)})
	}
	for i, e := range t.Entries {
		if e.Setup == "" {
			errs = append(errs, &ValidationError{Key: indexKey(i, "setup"), Reason: "must not be empty"})
		}
		if e.Punchline == "" {
			errs = append(errs, &ValidationError{Key: indexKey(i, "punchline"), Reason: "must not be empty"})
		}
		// A punchline equal to the sentinel would make the host hang up early.
		if e.Setup == t.Termination || e.Punchline == t.Termination {
			errs = append(errs, &ValidationError{Key: indexKey(i, ""), Reason: "must not use the termination phrase"})
		}
	}

	switch len(errs) {
	case 0:
		return nil
	default:
		return &AggregateError{Errors: errs}
	}
}
