package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchedulerRejectsBadTime(t *testing.T) {
	_, err := NewScheduler([]string{"25:00"}, "UTC", func(context.Context) {})
	assert.Error(t, err)

	_, err = NewScheduler([]string{"banana"}, "UTC", func(context.Context) {})
	assert.Error(t, err)
}

func TestNextFirePicksEarliestUpcoming(t *testing.T) {
	s, err := NewScheduler([]string{"10:00", "16:00", "20:00"}, "UTC", func(context.Context) {})
	require.NoError(t, err)

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	next := s.NextFire(day.Add(9 * time.Hour)) // 09:00
	assert.Equal(t, day.Add(10*time.Hour), next)

	next = s.NextFire(day.Add(12 * time.Hour)) // 12:00
	assert.Equal(t, day.Add(16*time.Hour), next)

	next = s.NextFire(day.Add(19*time.Hour + 30*time.Minute)) // 19:30
	assert.Equal(t, day.Add(20*time.Hour), next)
}

func TestNextFireRollsOverToTomorrow(t *testing.T) {
	s, err := NewScheduler([]string{"10:00"}, "UTC", func(context.Context) {})
	require.NoError(t, err)

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// At exactly 10:00 the trigger already fired; next is tomorrow.
	next := s.NextFire(day.Add(10 * time.Hour))
	assert.Equal(t, day.Add(34*time.Hour), next)

	next = s.NextFire(day.Add(23 * time.Hour))
	assert.Equal(t, day.Add(34*time.Hour), next)
}

func TestNextFireHonorsTimezone(t *testing.T) {
	s, err := NewScheduler([]string{"10:00"}, "Europe/Paris", func(context.Context) {})
	require.NoError(t, err)

	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	after := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC) // 10:00 in Paris (CEST)
	next := s.NextFire(after)

	// 10:00 Paris equals the reference instant, so the fire rolls to the
	// next day in Paris time.
	assert.Equal(t, time.Date(2025, 6, 2, 10, 0, 0, 0, paris).Unix(), next.Unix())
}

func TestSchedulerStartStopsOnCancel(t *testing.T) {
	fired := make(chan struct{}, 1)
	s, err := NewScheduler([]string{"10:00"}, "UTC", func(context.Context) {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop on context cancellation")
	}
	assert.Empty(t, fired)
}
