package status

// Package status holds the process-wide bot status and serves it over
// HTTP. The background bot goroutine is the only writer; the HTTP
// handlers only read. The value is replaced whole through an atomic
// cell, so readers need no locks and tolerate eventually consistent
// reads.

import (
	"sync/atomic"
	"time"
)

// State enumerates the coarse bot states.
type State string

const (
	StateStarting           State = "starting"
	StateRunning            State = "running"
	StateConnected          State = "connected"
	StateSessionError       State = "session-error"
	StateMissingCredentials State = "missing-credentials"
)

// Status is one observed status value.
type Status struct {
	State     State
	Detail    string
	ChangedAt time.Time
}

// String renders the status for the human-readable page.
func (s Status) String() string {
	if s.Detail == "" {
		return string(s.State)
	}
	return string(s.State) + ": " + s.Detail
}

// Cell is the process-wide status holder.
type Cell struct {
	v atomic.Value
}

// NewCell returns a cell in the starting state.
func NewCell() *Cell {
	c := &Cell{}
	c.Set(StateStarting, "")
	return c
}

// Set replaces the whole status value.
func (c *Cell) Set(state State, detail string) {
	c.v.Store(Status{State: state, Detail: detail, ChangedAt: time.Now()})
}

// Get returns the most recently stored status.
func (c *Cell) Get() Status {
	return c.v.Load().(Status)
}
