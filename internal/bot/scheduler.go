package bot

import (
	"context"
	"time"

	"insta-pilot/internal/infra/config"
	"insta-pilot/internal/infra/log"

	"go.uber.org/zap"
)

// Scheduler fires a routine at fixed times of day, forever. It runs the
// routine inline in its own loop, so scheduled runs never overlap even
// when a routine overruns the gap to the next trigger time.
type Scheduler struct {
	times []clockTime
	loc   *time.Location
	run   func(context.Context)
	now   func() time.Time
}

type clockTime struct {
	hour   int
	minute int
}

// NewScheduler parses "HH:MM" trigger times in the named timezone.
// An unknown timezone falls back to UTC.
func NewScheduler(times []string, timezone string, run func(context.Context)) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.LogError("Failed to load timezone, using UTC", zap.String("timezone", timezone), zap.Error(err))
		loc = time.UTC
	}

	s := &Scheduler{
		loc: loc,
		run: run,
		now: time.Now,
	}

	for _, t := range times {
		hour, minute, err := config.ParseClock(t)
		if err != nil {
			return nil, err
		}
		s.times = append(s.times, clockTime{hour: hour, minute: minute})
	}

	return s, nil
}

// NextFire returns the earliest configured trigger strictly after the
// given instant.
func (s *Scheduler) NextFire(after time.Time) time.Time {
	after = after.In(s.loc)

	var next time.Time
	for _, ct := range s.times {
		candidate := time.Date(after.Year(), after.Month(), after.Day(), ct.hour, ct.minute, 0, 0, s.loc)
		if !candidate.After(after) {
			candidate = candidate.Add(24 * time.Hour)
		}
		if next.IsZero() || candidate.Before(next) {
			next = candidate
		}
	}
	return next
}

// Start blocks, firing the routine at every configured time until the
// context is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	log.LogInfo("Scheduler started", zap.Int("trigger_times", len(s.times)))

	for ctx.Err() == nil {
		next := s.NextFire(s.now())
		delay := next.Sub(s.now())
		log.LogInfo("Next routine scheduled",
			zap.Time("next_fire", next),
			zap.Duration("delay", delay))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		s.run(ctx)
	}
}
