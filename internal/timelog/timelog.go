package timelog

import "time"

// TimeEntry is an immutable record of hours spent on a project on a date.
type TimeEntry struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Hours     float64   `json:"hours"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

// Hours converts a duration into fractional hours.
func Hours(d time.Duration) float64 {
	return float64(d) / float64(time.Hour)
}
