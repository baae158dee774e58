package db

import (
	"time"

	"github.com/google/uuid"
)

// ResumeSummary is a resume row without its content
type ResumeSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultListLimit caps list queries when the caller gives no limit
const DefaultListLimit = 50
