package models

import "time"

// User is the persistent account record. Refresh sessions are embedded in the
// user document so that a login/logout is always a single-document mutation.
type User struct {
	ID        string    `bson:"_id,omitempty" json:"_id"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"` // bcrypt hash, never serialized
	Sessions  []Session `bson:"sessions" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Session is one refresh-token session (one per login; a user logged in from
// several devices holds several sessions).
type Session struct {
	Token     string    `bson:"token" json:"token"`
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
}

// Expired reports whether the session is no longer valid at the given time.
// A session is valid strictly before ExpiresAt.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
