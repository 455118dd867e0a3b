package bot

import (
	"time"

	"insta-pilot/internal/infra/log"

	"go.uber.org/zap"
)

// CooldownGate enforces a hard floor on the spacing between consequential
// remote actions, regardless of how fast the orchestrator issues them.
//
// One gate is owned by exactly one orchestrator run; it is not safe for
// concurrent use. Concurrent orchestrators must each own a private gate.
type CooldownGate struct {
	minInterval time.Duration
	lastAction  time.Time
	now         func() time.Time
	sleep       func(time.Duration)
}

// NewCooldownGate returns a gate with the given minimum spacing.
func NewCooldownGate(minInterval time.Duration) *CooldownGate {
	return &CooldownGate{
		minInterval: minInterval,
		now:         time.Now,
		sleep:       time.Sleep,
	}
}

// Wait blocks until minInterval has passed since the previous call and
// stamps the action time. The first call never waits.
func (g *CooldownGate) Wait() {
	if !g.lastAction.IsZero() {
		elapsed := g.now().Sub(g.lastAction)
		if elapsed < g.minInterval {
			wait := g.minInterval - elapsed
			log.LogInfo("Cooldown active, waiting",
				zap.Duration("wait", wait),
				zap.Duration("min_interval", g.minInterval))
			g.sleep(wait)
		}
	}

	g.lastAction = g.now()
}
