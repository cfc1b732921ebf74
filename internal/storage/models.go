package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Resolution is one recorded pipeline run: what was asked, how it was
// classified, and what came out.
type Resolution struct {
	ID             string    `json:"id"`
	Description    string    `json:"description"`
	Classification string    `json:"classification"`
	Confidence     float64   `json:"confidence"`
	Success        bool      `json:"success"`
	ErrorCode      string    `json:"error_code,omitempty"`
	ProfileName    string    `json:"profile_name,omitempty"`
	ProfileJSON    string    `json:"profile_json,omitempty"` // full profile serialized as JSON; empty on failure
	Environment    string    `json:"environment,omitempty"`  // integrated environment type tag, "" when none
	CreatedAt      time.Time `json:"created_at"`
}
