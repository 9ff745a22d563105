package project

import (
	"errors"
	"fmt"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusComplete  Status = "complete"
	StatusOnHold    Status = "on-hold"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusActive, StatusComplete, StatusOnHold, StatusCancelled}

var (
	ErrEmptyName     = errors.New("project name is empty")
	ErrInvalidStatus = errors.New("invalid project status")
	ErrNotFound      = errors.New("project not found")
)

func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Label is the human-readable form of the status.
func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusComplete:
		return "Complete"
	case StatusOnHold:
		return "On Hold"
	case StatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// Next cycles through Statuses, used by the status picker.
func (s Status) Next() Status {
	for i, st := range Statuses {
		if st == s {
			return Statuses[(i+1)%len(Statuses)]
		}
	}
	return StatusActive
}

type Project struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Status     Status  `json:"status"`
	TotalHours float64 `json:"totalHours"`
}

func (p *Project) IsActive() bool {
	return p.Status == StatusActive
}

// StatusFilter selects projects by status; "all" matches everything.
type StatusFilter string

const FilterAll StatusFilter = "all"

func FilterByStatus(projects []Project, filter StatusFilter) []Project {
	if filter == FilterAll || filter == "" {
		return projects
	}
	var out []Project
	for _, p := range projects {
		if string(p.Status) == string(filter) {
			out = append(out, p)
		}
	}
	return out
}

func CountByStatus(projects []Project) map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, p := range projects {
		counts[p.Status]++
	}
	return counts
}

func TotalHours(projects []Project) float64 {
	var total float64
	for _, p := range projects {
		total += p.TotalHours
	}
	return total
}
