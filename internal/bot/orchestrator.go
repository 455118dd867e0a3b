package bot

// Package bot composes bounded activity sessions out of client calls,
// gated by the cooldown and recorded in the follow ledger, and repeats
// them on a long-running loop. Everything runs strictly sequentially in
// one background goroutine; parallel API calls are avoided on purpose.

import (
	"math/rand"
	"time"

	"insta-pilot/internal/infra/config"
	"insta-pilot/internal/ledger"
	"insta-pilot/internal/status"
)

// SessionOutcome summarizes one activity session. It is transient,
// used only for logging and status reporting.
type SessionOutcome struct {
	Likes        int
	Follows      int
	Comments     int
	ClipsWatched int
	Skipped      int
	Err          error
}

// RoutineSummary aggregates one scheduled daily routine for reporting.
type RoutineSummary struct {
	Start        time.Time
	End          time.Time
	Sessions     int
	FailedCount  int
	Likes        int
	Follows      int
	Comments     int
	ClipsWatched int
	Skipped      int
	Unfollows    int
}

// Reporter delivers the end-of-routine summary to an external channel.
type Reporter interface {
	SendDailyReport(summary RoutineSummary) error
}

// Orchestrator drives sessions against an ActivityClient.
type Orchestrator struct {
	client   ActivityClient
	ledger   *ledger.Ledger
	gate     *CooldownGate
	status   *status.Cell
	cfg      config.ActivityConfig
	reporter Reporter

	rng   *rand.Rand
	now   func() time.Time
	sleep func(time.Duration)
}

// NewOrchestrator wires an orchestrator with its own private cooldown gate.
func NewOrchestrator(client ActivityClient, led *ledger.Ledger, cell *status.Cell, cfg config.ActivityConfig) *Orchestrator {
	return &Orchestrator{
		client: client,
		ledger: led,
		gate:   NewCooldownGate(time.Duration(cfg.CooldownMinutes) * time.Minute),
		status: cell,
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// SetReporter installs an optional end-of-routine reporter.
func (o *Orchestrator) SetReporter(r Reporter) {
	o.reporter = r
}

// randomDelay sleeps a random duration in [min, max] seconds to pace
// actions like a person would.
func (o *Orchestrator) randomDelay(minSeconds, maxSeconds int) {
	if maxSeconds <= minSeconds {
		o.sleep(time.Duration(minSeconds) * time.Second)
		return
	}
	delay := minSeconds + o.rng.Intn(maxSeconds-minSeconds+1)
	o.sleep(time.Duration(delay) * time.Second)
}

func (o *Orchestrator) setStatus(state status.State, detail string) {
	if o.status != nil {
		o.status.Set(state, detail)
	}
}
