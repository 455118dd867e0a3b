package ledger

// Package ledger keeps the durable follow history: one JSON document
// mapping subject id to its follow record, rewritten wholesale on every
// mutation. Records are never deleted; an unfollow only flips flags.
//
// A Ledger instance is owned by a single orchestrator goroutine and is
// not safe for concurrent use.

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Record is the follow history of one subject.
type Record struct {
	DisplayName  string     `json:"display_name"`
	FollowedAt   time.Time  `json:"followed_at"`
	Unfollowed   bool       `json:"unfollowed"`
	UnfollowedAt *time.Time `json:"unfollowed_at,omitempty"`
}

// Entry pairs a subject id with its record for snapshot consumers.
type Entry struct {
	SubjectID string
	Record    Record
}

// Ledger is the in-memory view over the persisted follow history.
type Ledger struct {
	path    string
	records map[string]*Record
	now     func() time.Time
}

// Open loads the ledger from path. A missing file starts an empty ledger;
// an unreadable or corrupt file is a configuration error and is surfaced,
// never silently reset.
func Open(path string) (*Ledger, error) {
	l := &Ledger{
		path:    path,
		records: make(map[string]*Record),
		now:     time.Now,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("failed to read follow ledger %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &l.records); err != nil {
		return nil, fmt.Errorf("follow ledger %s is corrupt: %w", path, err)
	}

	return l, nil
}

// RecordFollow upserts a follow record with FollowedAt set to now and
// persists the full ledger synchronously. A persistence failure is
// returned to the caller; the in-memory record stays applied.
func (l *Ledger) RecordFollow(subjectID, displayName string) error {
	l.records[subjectID] = &Record{
		DisplayName: displayName,
		FollowedAt:  l.now(),
		Unfollowed:  false,
	}
	return l.save()
}

// MarkUnfollowed flags a subject as unfollowed and persists. Unknown
// subjects are a no-op.
func (l *Ledger) MarkUnfollowed(subjectID string) error {
	rec, ok := l.records[subjectID]
	if !ok {
		return nil
	}

	now := l.now()
	rec.Unfollowed = true
	rec.UnfollowedAt = &now
	return l.save()
}

// ShouldUnfollow reports whether a subject is eligible for unfollowing:
// subjects the ledger never tracked are eligible by policy, tracked ones
// become eligible daysThreshold days after the follow, and already
// unfollowed ones never are.
func (l *Ledger) ShouldUnfollow(subjectID string, daysThreshold int) bool {
	rec, ok := l.records[subjectID]
	if !ok {
		return true
	}
	if rec.Unfollowed {
		return false
	}

	age := l.now().Sub(rec.FollowedAt)
	return age >= time.Duration(daysThreshold)*24*time.Hour
}

// Get returns a copy of the record for subjectID.
func (l *Ledger) Get(subjectID string) (Record, bool) {
	rec, ok := l.records[subjectID]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Len returns the number of tracked subjects.
func (l *Ledger) Len() int {
	return len(l.records)
}

// Snapshot returns all entries ordered by follow time, oldest first.
func (l *Ledger) Snapshot() []Entry {
	entries := make([]Entry, 0, len(l.records))
	for id, rec := range l.records {
		entries = append(entries, Entry{SubjectID: id, Record: *rec})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Record.FollowedAt.Before(entries[j].Record.FollowedAt)
	})
	return entries
}

func (l *Ledger) save() error {
	if dir := filepath.Dir(l.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(l.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal follow ledger: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0644); err != nil {
		return fmt.Errorf("failed to save follow ledger: %w", err)
	}
	return nil
}
