package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bft-labs/framelab/internal/domain"
	"github.com/bft-labs/framelab/pkg/channel"
	"github.com/bft-labs/framelab/pkg/exchange"
	"github.com/bft-labs/framelab/pkg/framing"
	"github.com/bft-labs/framelab/pkg/parity"
	"github.com/bft-labs/framelab/pkg/prefs"
	"github.com/bft-labs/framelab/pkg/transmit"
)

// textWriter accumulates the first write error so renderers stay linear.
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) line(format string, args ...interface{}) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format+"\n", args...)
}

func writeText(w io.Writer, v interface{}) error {
	t := &textWriter{w: w}
	switch x := v.(type) {
	case string:
		t.line("%s", x)
	case domain.BitString:
		t.line("%s", x)
	case framing.Result:
		framingText(t, x)
	case Deframed:
		t.line("strategy: %s", x.Strategy)
		t.line("payload:  %s", x.Payload)
		if x.Text != "" {
			t.line("text:     %s", x.Text)
		}
		if x.Rest != "" {
			t.line("rest:     %s", x.Rest)
		}
	case ParityView:
		t.line("mode:        %s", x.Mode)
		t.line("encoded:     %s", x.Encoded)
		t.line("parity bits: %s", x.ParityBits)
	case parity.Check:
		checkText(t, x)
	case channel.Injection:
		injectionText(t, "", x)
	case transmit.Delivery:
		deliveryText(t, x)
	case []transmit.Delivery:
		for i, d := range x {
			if i > 0 {
				t.line("")
			}
			deliveryText(t, d)
		}
	case transmit.ParityTransmission:
		t.line("text:        %s", x.Text)
		t.line("mode:        %s", x.Mode)
		t.line("original:    %s", x.Original)
		t.line("sender:      %s", x.Sender)
		t.line("parity bits: %s", x.ParityBits)
		injectionText(t, "received:    ", x.Channel)
		checkText(t, x.Check)
	case []exchange.Step:
		for i, s := range x {
			t.line("%2d  %-8s %-14s %s", i+1, s.Phase, s.Direction, s.Message)
		}
	case exchange.Step:
		t.line("%s", x.Message)
	case prefs.Prefs:
		t.line("error_mode: %t", x.ErrorMode)
		t.line("parity:     %s", orUnset(x.Parity))
		t.line("strategy:   %s", orUnset(x.Strategy))
		if x.Threshold > 0 {
			t.line("threshold:  %d", x.Threshold)
		} else {
			t.line("threshold:  %s", orUnset(""))
		}
	case []Item:
		for _, it := range x {
			if it.Error != "" || it.Result == nil {
				t.line("%d\terror: %s", it.Line, it.Error)
				continue
			}
			t.line("%d\t%s", it.Line, it.Result.Frame)
		}
	default:
		t.line("%v", v)
	}
	return t.err
}

func framingText(t *textWriter, r framing.Result) {
	t.line("strategy: %s", r.Strategy)
	t.line("payload:  %s", r.Payload)
	t.line("frame:    %s", r.Frame)
	switch r.Strategy {
	case framing.CountPrefix:
		note := ""
		if r.Wrapped {
			note = fmt.Sprintf(" (length %d wrapped)", len(r.Payload))
		}
		t.line("count:    %d-bit field%s", r.CountWidth, note)
	case framing.ByteStuffing:
		t.line("escapes:  %d", r.Inserted)
	case framing.BitStuffing:
		note := ""
		if r.Clamped {
			note = " (clamped)"
		}
		t.line("threshold: %d%s", r.Threshold, note)
		t.line("stuffed:  %d", r.Inserted)
	}
	t.line("overhead: %d bits", r.Overhead())
}

func checkText(t *textWriter, c parity.Check) {
	for i, g := range c.Groups {
		status := "ok"
		if !g.OK {
			status = "MISMATCH (expected " + g.Expected + ")"
		}
		t.line("group %d: %s|%s %s", i, g.Data, g.Parity, status)
	}
	if c.OK() {
		t.line("result: no error detected")
		return
	}
	idx := make([]string, len(c.Mismatches))
	for i, m := range c.Mismatches {
		idx[i] = strconv.Itoa(m)
	}
	t.line("result: parity error in group %s", strings.Join(idx, ", "))
}

func injectionText(t *textWriter, prefix string, inj channel.Injection) {
	if prefix == "" {
		prefix = "bits:     "
	}
	t.line("%s%s", prefix, inj.Bits)
	if inj.Flipped {
		t.line("flipped bit at position %d", inj.Position)
	}
}

func deliveryText(t *textWriter, d transmit.Delivery) {
	t.line("#%d %s", d.Seq, d.Strategy)
	t.line("sent:     %s", d.Sent)
	t.line("frame:    %s", d.Frame)
	injectionText(t, "received: ", d.Channel)
	if d.Error != "" {
		t.line("error:    %s", d.Error)
		return
	}
	t.line("payload:  %s", d.Payload)
	t.line("output:   %s", d.Output)
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}
