package server_test

import (
	"strings"
	"testing"

	"github.com/aretw0/knockknock/pkg/server"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Who's there?", "Who's there?"},
		{"empty", "", ""},
		{"tab kept", "a\tb", "a\tb"},
		{"ansi stripped", "\x1b[31my\x1b[0m", "[31my[0m"},
		{"nul stripped", "y\x00", "y"},
		{"bell stripped", "\aTurnip who?", "Turnip who?"},
		{"unicode kept", "¿quién?", "¿quién?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, server.SanitizeLine(tt.input))
		})
	}
}

func TestCheckLine(t *testing.T) {
	assert.NoError(t, server.CheckLine("y\x00", 10))
	assert.NoError(t, server.CheckLine(strings.Repeat("a", 10), 10))
	assert.NoError(t, server.CheckLine(strings.Repeat("a", 11), 0))
	assert.ErrorIs(t, server.CheckLine(strings.Repeat("a", 11), 10), server.ErrLineTooLong)
	assert.ErrorIs(t, server.CheckLine("\xff\xfe", 10), server.ErrInvalidUTF8)
}
