package format

import (
	"strings"
	"testing"
	"time"
)

func TestNewTable_ASCII(t *testing.T) {
	tb := NewTable(ASCII)
	tb.Header("trial", "verdict")
	tb.Row(1, "pass")
	tb.Row(2, "fail")

	out := tb.String()
	if !strings.Contains(out, "TRIAL") && !strings.Contains(out, "trial") {
		t.Errorf("header missing from output:\n%s", out)
	}
	if !strings.Contains(out, "pass") || !strings.Contains(out, "fail") {
		t.Errorf("rows missing from output:\n%s", out)
	}
}

func TestNewTable_Markdown(t *testing.T) {
	tb := NewTable(Markdown)
	tb.Header("seed", "applied")
	tb.Row(42, "rename,wrap")

	out := tb.String()
	if !strings.Contains(out, "|") {
		t.Errorf("markdown output should contain pipes:\n%s", out)
	}
	if !strings.Contains(out, "rename,wrap") {
		t.Errorf("row content missing:\n%s", out)
	}
}

func TestFmtPercent(t *testing.T) {
	if got := FmtPercent(0.875); got != "87.5%" {
		t.Errorf("FmtPercent(0.875) = %q", got)
	}
	if got := FmtPercent(1); got != "100.0%" {
		t.Errorf("FmtPercent(1) = %q", got)
	}
}

func TestFmtDuration(t *testing.T) {
	if got := FmtDuration(250 * time.Millisecond); got != "250ms" {
		t.Errorf("FmtDuration = %q", got)
	}
	if got := FmtDuration(90 * time.Second); got != "90.0s" {
		t.Errorf("FmtDuration = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdefgh", 6); got != "abc..." {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("abc", 6); got != "abc" {
		t.Errorf("Truncate = %q", got)
	}
}

func TestBoolMark(t *testing.T) {
	if BoolMark(true) != "✓" || BoolMark(false) != "✗" {
		t.Error("BoolMark marks wrong")
	}
}
