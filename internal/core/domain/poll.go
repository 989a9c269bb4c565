package domain

import (
	"time"

	"github.com/google/uuid"
)

type Poll struct {
	ID                 uuid.UUID    `json:"id"`
	Title              string       `json:"title"`
	Description        string       `json:"description,omitempty"`
	IsPublic           bool         `json:"is_public"`
	AllowMultipleVotes bool         `json:"allow_multiple_votes"`
	OwnerID            uuid.UUID    `json:"owner_id"`
	Options            []PollOption `json:"options"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

type PollOption struct {
	ID        uuid.UUID `json:"id"`
	PollID    uuid.UUID `json:"poll_id"`
	Text      string    `json:"text"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

type PollOptionStats struct {
	VoteCount  int64   `json:"vote_count"`
	Percentage float64 `json:"percentage"`
}

// PollResults pairs a poll with per-option vote counts keyed by option id.
type PollResults struct {
	Poll  Poll                          `json:"poll"`
	Stats map[uuid.UUID]PollOptionStats `json:"stats"`
}
