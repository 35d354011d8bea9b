package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v2"

	"github.com/bft-labs/framelab/pkg/exchange"
	"github.com/bft-labs/framelab/pkg/framing"
	"github.com/bft-labs/framelab/pkg/parity"
	"github.com/bft-labs/framelab/pkg/prefs"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"TEXT", FormatText, false},
		{"json", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func frameResult(t *testing.T) framing.Result {
	t.Helper()
	res, err := framing.Frame("0111111", framing.BitStuffing, framing.DefaultOptions())
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	return res
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, frameResult(t)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if got["strategy"] != "bit-stuffing" {
		t.Errorf("strategy = %v", got["strategy"])
	}
	if got["frame"] != "01111110"+"01111101"+"01111110" {
		t.Errorf("frame = %v", got["frame"])
	}
	if got["inserted"] != float64(1) {
		t.Errorf("inserted = %v", got["inserted"])
	}
}

func TestWriteYAMLParity(t *testing.T) {
	res, err := parity.Apply("01000001", parity.Even)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, FormatYAML, res); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var got struct {
		Mode       string `yaml:"mode"`
		Encoded    string `yaml:"encoded"`
		ParityBits string `yaml:"parity_bits"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid yaml %q: %v", buf.String(), err)
	}
	if got.Mode != "even" || got.Encoded != "010000010" || got.ParityBits != "0" {
		t.Fatalf("unexpected yaml: %+v", got)
	}
}

func TestWriteText(t *testing.T) {
	check, err := parity.Verify("010000011", parity.Even)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	tests := []struct {
		name string
		v    interface{}
		want []string
	}{
		{"frame", frameResult(t), []string{"strategy: bit-stuffing", "stuffed:  1", "overhead: 17 bits"}},
		{"check", check, []string{"MISMATCH", "parity error in group 0"}},
		{"prefs", prefs.Prefs{ErrorMode: true}, []string{"error_mode: true", "parity:     (unset)"}},
		{"steps", exchange.Script(exchange.HTTP)[:1], []string{"dns", "DNS: resolving domain..."}},
		{"batch", []Item{{Line: 2, Error: "boom"}}, []string{"2\terror: boom"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, FormatText, tt.v); err != nil {
				t.Fatalf("Write: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output %q missing %q", buf.String(), w)
				}
			}
		})
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, Format("xml"), "x"); err == nil {
		t.Fatal("expected error")
	}
}
