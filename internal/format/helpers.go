package format

import (
	"fmt"
	"time"
)

// FmtPercent renders a fraction as "87.5%".
func FmtPercent(frac float64) string {
	return fmt.Sprintf("%.1f%%", frac*100)
}

// FmtDuration renders trial durations: sub-second as milliseconds,
// otherwise seconds with one decimal.
func FmtDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// Truncate shortens s to maxLen characters, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// BoolMark returns "✓" for true and "✗" for false.
func BoolMark(v bool) string {
	if v {
		return "✓"
	}
	return "✗"
}
