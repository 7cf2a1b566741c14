package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the moderation state of a Record.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is one of the three moderation states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// User is a registered player.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	GoogleID     *string   `json:"google_id,omitempty"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	Points       float64   `json:"points"`
	Country      string    `json:"country,omitempty"`
	DateJoined   time.Time `json:"date_joined"`
}

// Level is an entry of the main or legacy list.
type Level struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Creator       string    `json:"creator"`
	Verifier      string    `json:"verifier"`
	InGameID      string    `json:"level_id,omitempty"`
	VideoURL      string    `json:"video_url,omitempty"`
	ThumbnailURL  *string   `json:"thumbnail_url,omitempty"`
	Description   string    `json:"description,omitempty"`
	Difficulty    float64   `json:"difficulty"`
	Position      int       `json:"position"`
	IsLegacy      bool      `json:"is_legacy"`
	Points        float64   `json:"points"`
	MinPercentage int       `json:"min_percentage"`
	DateAdded     time.Time `json:"date_added"`
}

// Record is a user's claimed completion of a level.
type Record struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	LevelID       uuid.UUID `json:"level_id"`
	Progress      int       `json:"progress"`
	VideoURL      string    `json:"video_url"`
	Status        Status    `json:"status"`
	Points        float64   `json:"points"`
	DateSubmitted time.Time `json:"date_submitted"`
}
