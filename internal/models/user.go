package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NullString wraps sql.NullString to provide proper JSON marshaling
type NullString struct {
	sql.NullString
}

// MarshalJSON implements json.Marshaler
func (ns NullString) MarshalJSON() ([]byte, error) {
	if ns.Valid {
		return json.Marshal(ns.String)
	}
	return json.Marshal(nil)
}

// UnmarshalJSON implements json.Unmarshaler
func (ns *NullString) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s != nil {
		ns.Valid = true
		ns.String = *s
	} else {
		ns.Valid = false
	}
	return nil
}

// NullTime wraps sql.NullTime to provide proper JSON marshaling
type NullTime struct {
	sql.NullTime
}

// MarshalJSON implements json.Marshaler
func (nt NullTime) MarshalJSON() ([]byte, error) {
	if nt.Valid {
		return json.Marshal(nt.Time)
	}
	return json.Marshal(nil)
}

// UnmarshalJSON implements json.Unmarshaler
func (nt *NullTime) UnmarshalJSON(data []byte) error {
	var t *time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	if t != nil {
		nt.Valid = true
		nt.Time = *t
	} else {
		nt.Valid = false
	}
	return nil
}

// Account is an email/password login
type Account struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	DisplayName  string    `json:"display_name" db:"display_name"`
	Disabled     bool      `json:"disabled" db:"disabled"`
	LastLoginAt  NullTime  `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// RefreshToken represents a JWT refresh token
type RefreshToken struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	UserID     uuid.UUID  `json:"user_id" db:"user_id"`
	TokenHash  string     `json:"-" db:"token_hash"` // Never expose
	DeviceType NullString `json:"device_type,omitempty" db:"device_type"`
	IPAddress  NullString `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent  NullString `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at" db:"expires_at"`
	LastUsedAt NullTime   `json:"last_used_at,omitempty" db:"last_used_at"`
	Revoked    bool       `json:"revoked" db:"revoked"`
	RevokedAt  NullTime   `json:"revoked_at,omitempty" db:"revoked_at"`
}

// TokenDevice describes the client a refresh token was issued to
type TokenDevice struct {
	Type      string
	IP        string
	UserAgent string
}

// GuestUserID is the persistence sentinel for guests; nothing is stored under it
var GuestUserID = uuid.Nil

const (
	GuestName  = "Guest"
	GuestEmail = "guest@parkeasy.app"
)

// SessionUser identifies the caller of a session operation
type SessionUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Guest bool      `json:"guest"`
}

// IsGuest reports whether the user is an unpersisted guest
func (u SessionUser) IsGuest() bool {
	return u.Guest || u.ID == GuestUserID
}

// GuestUser returns a guest identity. sessionID keys in-memory state only.
func GuestUser(sessionID uuid.UUID) SessionUser {
	return SessionUser{ID: sessionID, Name: GuestName, Email: GuestEmail, Guest: true}
}
