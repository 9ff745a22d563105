package timelog

import (
	"encoding/json"
	"fmt"

	"tracker_tui/internal/kv"

	"github.com/google/uuid"
)

// Key is the provider key holding the serialized entry list.
const Key = "timeEntries"

// Repository keeps entries in insertion order and mirrors them to the
// provider on every append.
type Repository struct {
	store   kv.Provider
	entries []TimeEntry
}

func NewRepository(store kv.Provider) (*Repository, error) {
	r := &Repository{store: store}
	raw, ok, err := store.Get(Key)
	if err != nil {
		return nil, fmt.Errorf("load time entries: %w", err)
	}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &r.entries); err != nil {
			return nil, fmt.Errorf("decode time entries: %w", err)
		}
	}
	return r, nil
}

// Append assigns an id to e when it has none and persists the grown list.
func (r *Repository) Append(e TimeEntry) (TimeEntry, error) {
	if e.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return TimeEntry{}, fmt.Errorf("generate id: %w", err)
		}
		e.ID = id.String()
	}

	next := make([]TimeEntry, len(r.entries), len(r.entries)+1)
	copy(next, r.entries)
	next = append(next, e)

	data, err := json.Marshal(next)
	if err != nil {
		return TimeEntry{}, fmt.Errorf("encode time entries: %w", err)
	}
	if err := r.store.Set(Key, string(data)); err != nil {
		return TimeEntry{}, fmt.Errorf("save time entries: %w", err)
	}
	r.entries = next
	return e, nil
}

func (r *Repository) All() []TimeEntry {
	out := make([]TimeEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *Repository) Len() int {
	return len(r.entries)
}

// Recent returns the last n entries, newest first.
func (r *Repository) Recent(n int) []TimeEntry {
	if n > len(r.entries) {
		n = len(r.entries)
	}
	out := make([]TimeEntry, 0, n)
	for i := len(r.entries) - 1; i >= len(r.entries)-n; i-- {
		out = append(out, r.entries[i])
	}
	return out
}

func (r *Repository) ForProject(projectID string) []TimeEntry {
	var out []TimeEntry
	for _, e := range r.entries {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out
}

// Totals sums hours per project in insertion order.
func (r *Repository) Totals() map[string]float64 {
	totals := make(map[string]float64)
	for _, e := range r.entries {
		totals[e.ProjectID] += e.Hours
	}
	return totals
}
