package reminder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/starford/noteflow/internal/models"
)

type fakeCounter struct {
	n   int
	err error
	seg models.Segment
}

func (f *fakeCounter) OpenCount(_ context.Context, seg models.Segment) (int, error) {
	f.seg = seg
	return f.n, f.err
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestNext(t *testing.T) {
	loc := time.FixedZone("test", 2*60*60)
	cases := []struct {
		now  time.Time
		want time.Time
	}{
		{time.Date(2026, 10, 15, 8, 0, 0, 0, loc), time.Date(2026, 10, 15, 9, 0, 0, 0, loc)},
		{time.Date(2026, 10, 15, 9, 0, 0, 0, loc), time.Date(2026, 10, 16, 9, 0, 0, 0, loc)},
		{time.Date(2026, 10, 15, 23, 30, 0, 0, loc), time.Date(2026, 10, 16, 9, 0, 0, 0, loc)},
		{time.Date(2026, 12, 31, 10, 0, 0, 0, loc), time.Date(2027, 1, 1, 9, 0, 0, 0, loc)},
	}
	for _, tc := range cases {
		if got := Next(tc.now, 9, 0); !got.Equal(tc.want) {
			t.Errorf("Next(%v) = %v, want %v", tc.now, got, tc.want)
		}
	}
}

func TestMessage(t *testing.T) {
	if got := Message(1); got != "1 task due today." {
		t.Errorf("Message(1) = %q", got)
	}
	if got := Message(3); got != "3 tasks due today." {
		t.Errorf("Message(3) = %q", got)
	}
}

func TestCheck(t *testing.T) {
	var got []Notice
	counter := &fakeCounter{n: 2}
	s := NewScheduler(counter, 9, 0, func(n Notice) { got = append(got, n) }, discard())

	s.Check(context.Background())
	if counter.seg != models.SegmentToday {
		t.Errorf("counted segment %q", counter.seg)
	}
	if len(got) != 1 || got[0] != (Notice{Open: 2, Message: "2 tasks due today."}) {
		t.Errorf("notices = %+v", got)
	}

	counter.n = 0
	s.Check(context.Background())
	counter.n, counter.err = 5, errors.New("db down")
	s.Check(context.Background())
	if len(got) != 1 {
		t.Errorf("expected no further notices, got %+v", got)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := NewScheduler(&fakeCounter{}, 9, 0, func(Notice) {}, discard())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_FiresAtTime(t *testing.T) {
	fired := make(chan Notice, 1)
	s := NewScheduler(&fakeCounter{n: 1}, 9, 0, func(n Notice) { fired <- n }, discard())
	// Pretend it is a few milliseconds before 09:00.
	target := time.Date(2026, 10, 15, 9, 0, 0, 0, time.Local)
	start := time.Now()
	s.now = func() time.Time { return target.Add(-20*time.Millisecond + time.Since(start)) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	select {
	case n := <-fired:
		if n.Message != "1 task due today." {
			t.Errorf("notice = %+v", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("reminder did not fire")
	}
}
