package workspace

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/starford/noteflow/internal/apperr"
)

// ParseDeadline reads a free-form date ("2026-10-20", "Oct 20 2026",
// "10/20/2026") and returns it as a UTC calendar day. Numeric dates are
// read month first.
// A blank input means no deadline.
func ParseDeadline(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return nil, fmt.Errorf("%w: deadline %q: %v", apperr.ErrValidation, s, err)
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &day, nil
}
