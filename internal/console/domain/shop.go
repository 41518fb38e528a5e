package domain

import "time"

// Shop is a directory entry managed from the console's stores screen.
type Shop struct {
	ID          string
	Name        string
	OpeningTime string // "HH:MM", display-only
	ClosingTime string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
