package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/rerange/internal/common"
)

// dueLayout is how due dates are typed and shown.
const dueLayout = "2006-01-02 15:04"

// parseRef parses a 1-based dotted reference such as "2" or "1.3" with
// exactly n parts.
func parseRef(s string, n int) ([]int, error) {
	parts := strings.Split(s, ".")
	if len(parts) != n {
		return nil, fmt.Errorf("%w: reference %q must have %d part(s)", common.ErrValidation, s, n)
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("%w: bad reference %q", common.ErrValidation, s)
		}
		out[i] = v - 1
	}
	return out, nil
}

func usage(text string) error {
	return fmt.Errorf("%w: usage: %s", common.ErrValidation, text)
}

func outOfRange(what string, i int) error {
	return fmt.Errorf("%s #%d: %w", what, i+1, common.ErrNotFound)
}

func formatClock(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func parseDue(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dueLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: due date must look like %s", common.ErrValidation, dueLayout)
	}
	return t, nil
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
