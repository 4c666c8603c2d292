package content_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/knockknock/pkg/content"
	"github.com/aretw0/knockknock/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	table := content.Default()
	assert.Equal(t, 5, table.Len())
	assert.Equal(t, "Turnip", table.Entry(0).Setup)
	assert.Contains(t, table.Entry(0).Punchline, "Want another? (y/n)")
	assert.NoError(t, table.Validate())
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "jokes.yaml", `
repeat: reopen
entries:
  - setup: Dejav
    punchline: Knock! Knock!
  - setup: Boo
    punchline: Don't cry, it's only a joke.
`)

	table, err := content.Load(path)
	require.NoError(t, err)
	assert.Equal(t, domain.RepeatReopen, table.Repeat)
	assert.Equal(t, domain.DefaultOpening, table.Opening)
	assert.Equal(t, domain.DefaultTermination, table.Termination)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "Boo", table.Entry(1).Setup)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "jokes.json", `{
  "opening": "Ding dong!",
  "affirmative": "yes",
  "entries": [{"setup": "Lettuce", "punchline": "Lettuce in, it's cold out here!"}]
}`)

	table, err := content.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Ding dong!", table.Opening)
	assert.Equal(t, "yes", table.Affirmative)
	assert.Equal(t, domain.RepeatSkipOpening, table.Repeat)
}

func TestLoad_HJSON(t *testing.T) {
	path := writeFile(t, "jokes.hjson", `{
  # comments and quoteless strings are allowed
  termination: See you.
  entries: [
    {
      setup: Atch
      punchline: Bless you!
    }
  ]
}`)

	table, err := content.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "See you.", table.Termination)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "Bless you!", table.Entry(0).Punchline)
}

func TestLoad_Missing(t *testing.T) {
	_, err := content.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoad_UnknownExtension(t *testing.T) {
	_, err := content.Load("jokes.txt")
	assert.ErrorContains(t, err, "unsupported content file extension")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		format content.Format
		body   string
		is     error
		msg    string
	}{
		{name: "empty", format: content.FormatYAML, body: "entries: []", is: domain.ErrEmptyTable},
		{name: "bad repeat", format: content.FormatYAML, body: "repeat: twice\nentries: [{setup: a, punchline: b}]", is: domain.ErrInvalidTable},
		{name: "missing punchline", format: content.FormatJSON, body: `{"entries":[{"setup":"a"}]}`, is: domain.ErrInvalidTable},
		{name: "unknown key", format: content.FormatYAML, body: "jokes: []", msg: "invalid keys"},
		{name: "malformed json", format: content.FormatJSON, body: `{"entries":`, msg: "failed to parse json"},
		{name: "malformed yaml", format: content.FormatYAML, body: "entries: [", msg: "failed to parse yaml"},
		{name: "malformed hjson", format: content.FormatHJSON, body: "{entries: [", msg: "failed to parse hjson"},
		{name: "bad format", format: "toml", body: "", msg: "unsupported content format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := content.Parse([]byte(tt.body), tt.format)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
			if tt.msg != "" {
				assert.ErrorContains(t, err, tt.msg)
			}
		})
	}
}

func TestMarshal_ParsesBack(t *testing.T) {
	for _, format := range []content.Format{content.FormatYAML, content.FormatJSON, content.FormatHJSON} {
		t.Run(string(format), func(t *testing.T) {
			data, err := content.Marshal(content.Default(), format)
			require.NoError(t, err)

			table, err := content.Parse(data, format)
			require.NoError(t, err)
			assert.Equal(t, content.Default(), table)
		})
	}
}
