package users

import (
	"crypto/sha256"
	"encoding/hex"
)

// RoleType is the user-type label carried on a user record. It is a label
// only; this service performs no authorization decisions with it.
type RoleType string

const (
	RoleAdmin     RoleType = "Admin"
	RoleLibrarian RoleType = "Librarian"
	RoleMember    RoleType = "Member"
)

// StatusType marks whether an account may log in.
type StatusType string

const (
	StatusActive   StatusType = "active"
	StatusInactive StatusType = "inactive"
)

type User struct {
	ID           int64      `json:"user_id,omitempty"`   // Unique numeric identifier
	Username     string     `json:"username,omitempty"`  // Unique username
	PasswordHash string     `json:"-"`                   // Hashed password - never serialize
	FullName     string     `json:"full_name,omitempty"` // Display name
	Email        string     `json:"email,omitempty"`     // Contact email
	Role         RoleType   `json:"user_type,omitempty"` // Admin, Librarian or Member
	Status       StatusType `json:"status,omitempty"`    // active or inactive
}

// Active reports whether the account is allowed to authenticate.
func (u *User) Active() bool {
	return u.Status == StatusActive
}

// HashPassword returns the hex-encoded SHA-256 digest of password.
//
// Known limitation: a single fast hash with no per-user salt and no slow
// key derivation. The stored hashes in the USERS table use this exact
// format, so it is load-bearing and must not be swapped out silently.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// CheckPasswordHash compares a plain-text password against a stored hash.
func CheckPasswordHash(password, hash string) bool {
	return HashPassword(password) == hash
}
