package session

import (
	"context"
	"time"
)

// Session represents a signed-in employee on the server side. It stores
// identity pointers only; the session token is never persisted.
type Session struct {
	SessionID  string    `json:"session_id"`
	EmployeeID int64     `json:"employee_id"`
	Subject    string    `json:"subject"` // email at sign-in time
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// New builds a session for employeeID valid for ttl from now.
func New(employeeID int64, subject string, now time.Time, ttl time.Duration) (Session, error) {
	id, err := GenerateID()
	if err != nil {
		return Session{}, err
	}
	return Session{
		SessionID:  id,
		EmployeeID: employeeID,
		Subject:    subject,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}, nil
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store defines how sessions are stored and retrieved.
// Get returns (nil, nil) for unknown sessions.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
