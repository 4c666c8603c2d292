package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/knockknock/pkg/domain"
	"github.com/hjson/hjson-go/v4"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a table file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	// FormatHJSON is human JSON: comments, unquoted keys and strings.
	FormatHJSON Format = "hjson"
)

// document is the on-disk shape of a table.
type document struct {
	Opening     string         `mapstructure:"opening"`
	Termination string         `mapstructure:"termination"`
	Affirmative string         `mapstructure:"affirmative"`
	Repeat      string         `mapstructure:"repeat"`
	Entries     []domain.Entry `mapstructure:"entries"`
}

// FormatFromPath derives the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".hjson":
		return FormatHJSON, nil
	default:
		return "", fmt.Errorf("unsupported content file extension %q", ext)
	}
}

// Load reads and validates a table file.
func Load(path string) (domain.Table, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return domain.Table{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("failed to read content file: %w", err)
	}

	table, err := Parse(data, format)
	if err != nil {
		return domain.Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// Parse decodes and validates a table. Unset phrases get their defaults.
func Parse(data []byte, format Format) (domain.Table, error) {
	raw := map[string]any{}

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return domain.Table{}, fmt.Errorf("failed to parse json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return domain.Table{}, fmt.Errorf("failed to parse yaml: %w", err)
		}
	case FormatHJSON:
		if err := hjson.Unmarshal(data, &raw); err != nil {
			return domain.Table{}, fmt.Errorf("failed to parse hjson: %w", err)
		}
	default:
		return domain.Table{}, fmt.Errorf("unsupported content format %q", format)
	}

	var doc document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &doc,
		ErrorUnused: true,
	})
	if err != nil {
		return domain.Table{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return domain.Table{}, fmt.Errorf("failed to decode content: %w", err)
	}

	table := domain.Table{
		Opening:     doc.Opening,
		Termination: doc.Termination,
		Affirmative: doc.Affirmative,
		Repeat:      domain.RepeatPolicy(doc.Repeat),
		Entries:     doc.Entries,
	}.WithDefaults()

	if err := table.Validate(); err != nil {
		return domain.Table{}, err
	}
	return table, nil
}

// Marshal encodes a table in the given format, the inverse of Parse.
func Marshal(t domain.Table, format Format) ([]byte, error) {
	out := struct {
		Opening     string         `json:"opening" yaml:"opening"`
		Termination string         `json:"termination" yaml:"termination"`
		Affirmative string         `json:"affirmative" yaml:"affirmative"`
		Repeat      string         `json:"repeat" yaml:"repeat"`
		Entries     []domain.Entry `json:"entries" yaml:"entries"`
	}{t.Opening, t.Termination, t.Affirmative, string(t.Repeat), t.Entries}

	switch format {
	case FormatJSON:
		return json.MarshalIndent(out, "", "  ")
	case FormatYAML:
		return yaml.Marshal(out)
	case FormatHJSON:
		return hjson.Marshal(out)
	default:
		return nil, fmt.Errorf("unsupported content format %q", format)
	}
}
