package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock drives a gate deterministically: sleeps advance the clock.
type fakeClock struct {
	current time.Time
	slept   []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time { return c.current }

func (c *fakeClock) sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.current = c.current.Add(d)
}

func (c *fakeClock) advance(d time.Duration) { c.current = c.current.Add(d) }

func newTestGate(interval time.Duration, clock *fakeClock) *CooldownGate {
	g := NewCooldownGate(interval)
	g.now = clock.now
	g.sleep = clock.sleep
	return g
}

func TestCooldownGateFirstCallNeverWaits(t *testing.T) {
	clock := newFakeClock()
	g := newTestGate(8*time.Minute, clock)

	g.Wait()

	assert.Empty(t, clock.slept)
	assert.Equal(t, clock.current, g.lastAction)
}

func TestCooldownGateSecondCallWaitsRemainder(t *testing.T) {
	clock := newFakeClock()
	g := newTestGate(8*time.Minute, clock)

	g.Wait()
	clock.advance(3 * time.Minute)
	g.Wait()

	assert.Equal(t, []time.Duration{5 * time.Minute}, clock.slept)
}

func TestCooldownGateNoWaitAfterInterval(t *testing.T) {
	clock := newFakeClock()
	g := newTestGate(8*time.Minute, clock)

	g.Wait()
	clock.advance(9 * time.Minute)
	g.Wait()

	assert.Empty(t, clock.slept)
}

func TestCooldownGateStampsAfterWait(t *testing.T) {
	clock := newFakeClock()
	g := newTestGate(10*time.Minute, clock)

	g.Wait()
	clock.advance(time.Minute)
	g.Wait()

	// lastAction must be the post-sleep instant, keeping the floor hard
	// for the next caller.
	assert.Equal(t, clock.current, g.lastAction)
}
