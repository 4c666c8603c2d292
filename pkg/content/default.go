package content

import "github.com/aretw0/knockknock/pkg/domain"

const anotherPrompt = " Want another? (y/n)"

var defaultEntries = []domain.Entry{
	{Setup: "Turnip", Punchline: "Turnip the heat, it's cold in here!" + anotherPrompt},
	{Setup: "Little Old Lady", Punchline: "I didn't know you could yodel!" + anotherPrompt},
	{Setup: "Atch", Punchline: "Bless you!" + anotherPrompt},
	{Setup: "Who", Punchline: "Is there an owl in here?" + anotherPrompt},
	{Setup: "Who", Punchline: "Is there an echo in here?" + anotherPrompt},
}

// Default returns the built-in table.
func Default() domain.Table {
	t, err := domain.NewTable(defaultEntries...)
	if err != nil {
		panic("content: built-in table is invalid: " + err.Error())
	}
	return t
}
