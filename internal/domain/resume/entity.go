package resume

import (
	"time"

	"github.com/google/uuid"
)

// Resume is the stored plain text of an uploaded resume plus the optional
// signals the candidate supplied alongside it.
type Resume struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Filename        string
	Content         string
	Location        *string
	ExpectedSalary  *float64
	ExperienceYears *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
