package employee

import "time"

type Role string

const (
	RoleUser    Role = "USER"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

// Employee is the durable internal representation of a user.
// Email and ExternalID are independent candidate keys; ExternalID is
// empty when the provider never supplied one.
type Employee struct {
	ID           int64
	Email        string
	ExternalID   string
	Name         string
	AvatarURL    string
	Role         Role
	Active       bool
	LeaveBalance float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// New returns an unsaved employee with the registration defaults.
func New(email, externalID, name, avatarURL string) *Employee {
	return &Employee{
		Email:        email,
		ExternalID:   externalID,
		Name:         name,
		AvatarURL:    avatarURL,
		Role:         RoleUser,
		Active:       true,
		LeaveBalance: 0,
	}
}
