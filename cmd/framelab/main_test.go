package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bft-labs/framelab/internal/cliconfig"
	"github.com/bft-labs/framelab/pkg/framing"
)

// run executes the CLI with an isolated config file and prefs directory.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	a := &app{cfg: cliconfig.DefaultConfig()}
	a.log = cliconfig.Logger()

	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append([]string{
		"--config", filepath.Join(dir, "missing.toml"),
		"--prefs-dir", dir,
		"--log-level", "off",
	}, args...))

	err := root.Execute()
	return out.String(), err
}

func TestEncodeCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), "encode", "A")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if out != "01000001\n" {
		t.Fatalf("encode output = %q", out)
	}
}

func TestFrameCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), "frame", "--strategy", "bit", "--threshold", "2", "--bits", "0101")
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	want := "frame:    " + string(framing.Flag+"0101"+framing.Flag)
	if !strings.Contains(out, want) {
		t.Fatalf("frame output %q missing %q", out, want)
	}
}

func TestDeframeCommandStream(t *testing.T) {
	out, err := run(t, t.TempDir(), "deframe", "--strategy", "count", "-o", "json", "00001000"+"01000001"+"0000")
	if err != nil {
		t.Fatalf("deframe: %v", err)
	}
	var got struct {
		Payload string `json:"payload"`
		Text    string `json:"text"`
		Rest    string `json:"rest"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if got.Payload != "01000001" || got.Text != "A" || got.Rest != "0000" {
		t.Fatalf("deframe = %+v", got)
	}
}

func TestTransmitCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), "transmit", "-o", "json", "--strategy", "byte", "Hello")
	if err != nil {
		t.Fatalf("transmit: %v", err)
	}
	var d struct {
		Sent   string `json:"sent"`
		Output string `json:"output"`
	}
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if d.Sent != "Hello" || d.Output != "Hello" {
		t.Fatalf("delivery = %+v", d)
	}
}

func TestTransmitParityDetectsError(t *testing.T) {
	out, err := run(t, t.TempDir(), "transmit", "--parity-check", "--error-mode", "--seed", "3", "Hi")
	if err != nil {
		t.Fatalf("transmit: %v", err)
	}
	if !strings.Contains(out, "parity error in group") {
		t.Fatalf("single flip should be detected:\n%s", out)
	}
}

func TestCheckCommandFails(t *testing.T) {
	if _, err := run(t, t.TempDir(), "check", "010000011"); err == nil {
		t.Fatal("expected parity error")
	}
	if _, err := run(t, t.TempDir(), "check", "010000010"); err != nil {
		t.Fatalf("clean group: %v", err)
	}
}

func TestInvalidInput(t *testing.T) {
	if _, err := run(t, t.TempDir(), "encode", "€"); err == nil {
		t.Fatal("expected code point error")
	}
	if _, err := run(t, t.TempDir(), "frame", "--strategy", "crc", "A"); err == nil {
		t.Fatal("expected strategy error")
	}
}

func TestPrefsSaveShow(t *testing.T) {
	dir := t.TempDir()

	if _, err := run(t, dir, "prefs", "save", "--error-mode", "--parity", "odd"); err != nil {
		t.Fatalf("prefs save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "prefs.json")); err != nil {
		t.Fatalf("prefs.json not written: %v", err)
	}

	out, err := run(t, dir, "prefs", "show", "-o", "json")
	if err != nil {
		t.Fatalf("prefs show: %v", err)
	}
	var p struct {
		ErrorMode bool   `json:"error_mode"`
		Parity    string `json:"parity"`
	}
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if !p.ErrorMode || p.Parity != "odd" {
		t.Fatalf("prefs = %+v", p)
	}

	// Saved parity now applies without the flag.
	out, err = run(t, dir, "parity", "A")
	if err != nil {
		t.Fatalf("parity: %v", err)
	}
	if !strings.Contains(out, "mode:        Odd") {
		t.Fatalf("saved parity not applied:\n%s", out)
	}
}

func TestExchangeCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), "exchange", "--bounce", "2", "https")
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "Response: 200 OK") || !strings.Contains(lines[1], "Request: GET /index.html") {
		t.Fatalf("exchange output = %q", out)
	}
}

func TestFrameLines(t *testing.T) {
	lines := []string{"A", "€", "", "Hello"}
	items, err := frameLines(context.Background(), lines, 2, framing.BitStuffing, framing.DefaultOptions())
	if err != nil {
		t.Fatalf("frameLines: %v", err)
	}
	if len(items) != len(lines) {
		t.Fatalf("got %d items, want %d", len(items), len(lines))
	}
	for i, it := range items {
		if it.Line != i+1 || it.Text != lines[i] {
			t.Fatalf("item %d out of order: %+v", i, it)
		}
	}
	if items[0].Result == nil || items[3].Result == nil {
		t.Fatal("valid lines should be framed")
	}
	if items[1].Error == "" || items[2].Error == "" {
		t.Fatal("wide rune and empty line should fail")
	}

	payload, err := framing.DeframeBit(items[3].Result.Frame, framing.DefaultThreshold)
	if err != nil || payload != items[3].Result.Payload {
		t.Fatalf("round trip: %v", err)
	}
}

func TestFrameLinesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := frameLines(ctx, []string{"A"}, 1, framing.CountPrefix, framing.DefaultOptions()); err == nil {
		t.Fatal("expected context error")
	}
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "lines.txt")
	if err := os.WriteFile(input, []byte("A\r\nB\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, dir, "batch", "--strategy", "count", input)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	want := "1\t00001000" + "01000001\n" + "2\t00001000" + "01000010\n"
	if out != want {
		t.Fatalf("batch output = %q, want %q", out, want)
	}
}

func TestPrefsDirFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FRAMELAB_PREFS_DIR", "")

	prefsDir := filepath.Join(dir, "p")
	cfgPath := filepath.Join(dir, "c.toml")
	if err := os.WriteFile(cfgPath, []byte("prefs_dir = \""+filepath.ToSlash(prefsDir)+"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	exec := func(args ...string) (string, error) {
		a := &app{cfg: cliconfig.DefaultConfig()}
		a.log = cliconfig.Logger()
		root := newRootCmd(a)
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&bytes.Buffer{})
		root.SetIn(strings.NewReader(""))
		root.SetArgs(append([]string{"--config", cfgPath, "--log-level", "off"}, args...))
		err := root.Execute()
		return out.String(), err
	}

	if _, err := exec("prefs", "save", "--parity", "odd"); err != nil {
		t.Fatalf("prefs save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(prefsDir, "prefs.json")); err != nil {
		t.Fatalf("prefs.json not written under config prefs_dir: %v", err)
	}

	out, err := exec("parity", "A")
	if err != nil {
		t.Fatalf("parity: %v", err)
	}
	if !strings.Contains(out, "mode:        Odd") {
		t.Fatalf("saved parity not applied: %q", out)
	}
}
