package project

import (
	"encoding/json"
	"fmt"
	"strings"

	"tracker_tui/internal/kv"

	"github.com/google/uuid"
)

// Key is the provider key holding the serialized project list.
const Key = "projects"

// Repository is the ordered in-memory project collection. Every mutation is
// written through to the provider before it becomes visible.
type Repository struct {
	store    kv.Provider
	projects []Project
}

func NewRepository(store kv.Provider) (*Repository, error) {
	r := &Repository{store: store}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Repository) load() error {
	raw, ok, err := r.store.Get(Key)
	if err != nil {
		return fmt.Errorf("load projects: %w", err)
	}
	if !ok || raw == "" {
		r.projects = nil
		return nil
	}
	var projects []Project
	if err := json.Unmarshal([]byte(raw), &projects); err != nil {
		return fmt.Errorf("decode projects: %w", err)
	}
	r.projects = projects
	return nil
}

func (r *Repository) save(projects []Project) error {
	if projects == nil {
		projects = []Project{}
	}
	data, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("encode projects: %w", err)
	}
	if err := r.store.Set(Key, string(data)); err != nil {
		return fmt.Errorf("save projects: %w", err)
	}
	r.projects = projects
	return nil
}

// All returns a copy of the projects in creation order.
func (r *Repository) All() []Project {
	out := make([]Project, len(r.projects))
	copy(out, r.projects)
	return out
}

func (r *Repository) Len() int {
	return len(r.projects)
}

func (r *Repository) Get(id string) (Project, bool) {
	for _, p := range r.projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// Resolve finds a project by id, by an id prefix of at least four
// characters, or by case-insensitive name.
func (r *Repository) Resolve(ref string) (Project, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Project{}, ErrNotFound
	}
	if p, ok := r.Get(ref); ok {
		return p, nil
	}
	var matches []Project
	for _, p := range r.projects {
		if (len(ref) >= 4 && strings.HasPrefix(p.ID, ref)) || strings.EqualFold(p.Name, ref) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return Project{}, fmt.Errorf("%w: %q", ErrNotFound, ref)
	case 1:
		return matches[0], nil
	}
	return Project{}, fmt.Errorf("ambiguous project %q matches %d projects", ref, len(matches))
}

func (r *Repository) Add(name string) (Project, error) {
	if strings.TrimSpace(name) == "" {
		return Project{}, ErrEmptyName
	}
	id, err := uuid.NewV7()
	if err != nil {
		return Project{}, fmt.Errorf("generate id: %w", err)
	}
	p := Project{
		ID:         id.String(),
		Name:       name,
		Status:     StatusActive,
		TotalHours: 0,
	}
	next := append(r.All(), p)
	if err := r.save(next); err != nil {
		return Project{}, err
	}
	return p, nil
}

// SetStatus changes a project's status. Unknown ids are ignored.
func (r *Repository) SetStatus(id string, status Status) (bool, error) {
	if _, err := ParseStatus(string(status)); err != nil {
		return false, err
	}
	next := r.All()
	for i := range next {
		if next[i].ID == id {
			next[i].Status = status
			return true, r.save(next)
		}
	}
	return false, nil
}

func (r *Repository) AddHours(id string, hours float64) error {
	next := r.All()
	for i := range next {
		if next[i].ID == id {
			next[i].TotalHours += hours
			return r.save(next)
		}
	}
	return fmt.Errorf("%w: %q", ErrNotFound, id)
}

// SetTotals overwrites totalHours from a recomputed map. Projects missing
// from totals get zero.
func (r *Repository) SetTotals(totals map[string]float64) error {
	next := r.All()
	for i := range next {
		next[i].TotalHours = totals[next[i].ID]
	}
	return r.save(next)
}
