package domain

import "time"

// Admin is a dashboard operator. Tickets reference admins by Name, which is
// the stable identifier the workspace and performance views are scoped to.
type Admin struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
