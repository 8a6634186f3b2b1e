package types

import (
	"time"

	"github.com/google/uuid"
)

// SavedParameters is the display form of SearchParameters stored with a
// saved result. Empty filters are replaced by human-readable defaults.
type SavedParameters struct {
	Role            string   `json:"role"`
	Locations       []string `json:"locations"`
	Country         string   `json:"country"`
	OffSite         *bool    `json:"off_site,omitempty"`
	DatePosted      string   `json:"date_posted"`
	EmploymentTypes []string `json:"employment_types"`
}

// HistoryEntry is one saved matching run.
type HistoryEntry struct {
	ID          uuid.UUID       `json:"id"`
	UserID      *uuid.UUID      `json:"user_id,omitempty"`
	Title       string          `json:"title"`
	Parameters  SavedParameters `json:"parameters"`
	ProjectList ProjectList     `json:"project_list"`
	Evidence    MatchCollection `json:"evidence"`
	CreatedAt   time.Time       `json:"created_at"`
}

// HistorySummary is the list-view projection of a HistoryEntry.
type HistorySummary struct {
	ID         uuid.UUID       `json:"id"`
	Title      string          `json:"title"`
	Parameters SavedParameters `json:"parameters"`
	CreatedAt  time.Time       `json:"created_at"`
}
