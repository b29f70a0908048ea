package workspace

import (
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/starford/noteflow/internal/apperr"
)

func TestParseDeadline(t *testing.T) {
	is := is.New(t)
	want := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

	for _, in := range []string{"2026-10-20", "Oct 20, 2026", "2026-10-20T15:04:05Z"} {
		got, err := ParseDeadline(in)
		is.NoErr(err)
		is.True(got.Equal(want))
	}

	got, err := ParseDeadline("   ")
	is.NoErr(err)
	is.True(got == nil)

	_, err = ParseDeadline("someday soon")
	is.True(errors.Is(err, apperr.ErrValidation))
}
