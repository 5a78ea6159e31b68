package models

import (
	"time"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/google/uuid"
)

type TournamentStatus string

const (
	StatusActive    TournamentStatus = "active"
	StatusCompleted TournamentStatus = "completed"
)

// Tournament is a running bracket together with the format it was built from.
type Tournament struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Format      Format            `json:"format"`
	Status      TournamentStatus  `json:"status"`
	CreatedBy   string            `json:"created_by,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Bracket     *brackets.Bracket `json:"bracket,omitempty"`
}

// TournamentSummary is the list view of a tournament.
type TournamentSummary struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Format       Format           `json:"format"`
	Status       TournamentStatus `json:"status"`
	EntrantCount int              `json:"entrant_count"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Standing is the final placement of one entrant.
type Standing struct {
	Place   int               `json:"place"`
	Entrant *brackets.Entrant `json:"entrant"`
}
