package domain

import "time"

// PendingSignup is an application awaiting administrator approval. It is
// owned by the registration workflow until approval or rejection consumes
// it; both outcomes delete the row.
type PendingSignup struct {
	ID          string
	UID         string // identity-provider subject id
	Email       string
	DisplayName string
	CreatedAt   time.Time
}
