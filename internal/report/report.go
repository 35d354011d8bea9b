// Package report renders results for the CLI in text, JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/bft-labs/framelab/internal/domain"
	"github.com/bft-labs/framelab/pkg/framing"
	"github.com/bft-labs/framelab/pkg/parity"
)

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts text, json, yaml or yml. Empty means text.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("report: unknown output format %q", raw)
	}
}

// Item is one line of a batch run.
type Item struct {
	Line   int             `json:"line" yaml:"line"`
	Text   string          `json:"text" yaml:"text"`
	Result *framing.Result `json:"result,omitempty" yaml:"result,omitempty"`
	Error  string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// Deframed is what a receiver recovered from one frame.
type Deframed struct {
	Strategy framing.Strategy `json:"strategy" yaml:"strategy"`
	Payload  domain.BitString `json:"payload" yaml:"payload"`
	Text     string           `json:"text,omitempty" yaml:"text,omitempty"`

	// Rest holds bits after a count-prefixed frame, the start of the next one.
	Rest domain.BitString `json:"rest,omitempty" yaml:"rest,omitempty"`
}

// ParityView is the encodable form of parity.Result.
type ParityView struct {
	Mode       parity.Mode        `json:"mode" yaml:"mode"`
	Groups     []domain.BitString `json:"groups" yaml:"groups"`
	Encoded    domain.BitString   `json:"encoded" yaml:"encoded"`
	ParityBits string             `json:"parity_bits" yaml:"parity_bits"`
}

// NewParityView converts r.
func NewParityView(r parity.Result) ParityView {
	return ParityView{
		Mode:       r.Mode,
		Groups:     r.Groups,
		Encoded:    r.Encoded,
		ParityBits: r.ParityString(),
	}
}

// Write renders v to w in format.
func Write(w io.Writer, format Format, v interface{}) error {
	if r, ok := v.(parity.Result); ok {
		v = NewParityView(r)
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		out, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("report: yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	case FormatText, "":
		return writeText(w, v)
	default:
		return fmt.Errorf("report: unknown output format %q", format)
	}
}
