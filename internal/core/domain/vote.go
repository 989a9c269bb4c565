package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote is immutable once cast. UserID is set for authenticated voters,
// VoterIP for anonymous ones; never both.
type Vote struct {
	ID        uuid.UUID  `json:"id"`
	PollID    uuid.UUID  `json:"poll_id"`
	OptionID  uuid.UUID  `json:"option_id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	VoterIP   string     `json:"voter_ip,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
