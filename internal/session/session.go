// Package session holds server-side admin sessions behind a small Store
// capability so handlers never touch ambient state.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

// RoleAdmin is the only role issued today.
const RoleAdmin = "admin"

var ErrNotFound = errors.New("session not found")

// Session is the server-side state behind an admin cookie
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is no longer valid at now
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions. Create assigns the session id.
type Store interface {
	Create(ctx context.Context, s Session) (string, error)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// NewAdmin returns an admin session for username valid for ttl
func NewAdmin(username string, ttl time.Duration, now time.Time) Session {
	return Session{
		Username:  username,
		Role:      RoleAdmin,
		IsAdmin:   true,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func newID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
