// Package reminder fires a daily "tasks due today" notification.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/noteflow/internal/models"
)

// EventType is the SSE event name reminders are published under.
const EventType = "reminder"

// Counter reports how many open tasks a segment holds.
type Counter interface {
	OpenCount(ctx context.Context, seg models.Segment) (int, error)
}

// Notice is the payload of a reminder event.
type Notice struct {
	Open    int    `json:"open"`
	Message string `json:"message"`
}

// Next returns the first hour:minute in now's location strictly after now.
func Next(now time.Time, hour, minute int) time.Time {
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target
}

// Message renders the reminder text for n open tasks.
func Message(n int) string {
	if n == 1 {
		return "1 task due today."
	}
	return fmt.Sprintf("%d tasks due today.", n)
}

// Scheduler checks the today segment once a day and calls notify when it
// holds open tasks.
type Scheduler struct {
	counter Counter
	notify  func(Notice)
	hour    int
	minute  int
	now     func() time.Time
	logger  *slog.Logger
}

// NewScheduler creates a scheduler firing daily at hour:minute local time.
func NewScheduler(counter Counter, hour, minute int, notify func(Notice), logger *slog.Logger) *Scheduler {
	return &Scheduler{
		counter: counter,
		notify:  notify,
		hour:    hour,
		minute:  minute,
		now:     time.Now,
		logger:  logger,
	}
}

// Run blocks until ctx is cancelled, firing once per day.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		next := Next(s.now(), s.hour, s.minute)
		s.logger.Debug("reminder: scheduled", slog.Time("at", next))

		timer := time.NewTimer(next.Sub(s.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("reminder: stopped")
			return nil
		case <-timer.C:
			s.Check(ctx)
		}
	}
}

// Check counts open tasks due today and notifies when there are any.
func (s *Scheduler) Check(ctx context.Context) {
	n, err := s.counter.OpenCount(ctx, models.SegmentToday)
	if err != nil {
		s.logger.Warn("reminder: count failed", slog.String("error", err.Error()))
		return
	}
	if n == 0 {
		return
	}
	s.logger.Info("reminder: due", slog.Int("open", n))
	s.notify(Notice{Open: n, Message: Message(n)})
}
