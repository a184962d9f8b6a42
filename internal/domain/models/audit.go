package models

import "time"

// ReadAudit is emitted once per read call, successful or not.
type ReadAudit struct {
	ID         string    `json:"id"`
	Database   string    `json:"database"`
	Series     []string  `json:"series"`
	Start      string    `json:"start,omitempty"`
	End        string    `json:"end,omitempty"`
	Rows       int       `json:"rows"`
	Outcome    string    `json:"outcome"` // "ok" or an error class
	DurationMS int64     `json:"duration_ms"`
	OccurredAt time.Time `json:"occurred_at"`
}
