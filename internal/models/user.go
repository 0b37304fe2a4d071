package models

import (
	"strings"
	"time"

	"github.com/lord-einar/megasys/internal/permissions"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// GroupAnalysis records how directory group membership was mapped to a role.
type GroupAnalysis struct {
	MatchedGroups []string         `json:"matchedGroups"`
	AssignedRole  permissions.Role `json:"assignedRole"`
	Unmatched     []string         `json:"unmatched"`
}

type User struct {
	ID              string
	Email           string
	FirstName       string
	LastName        string
	FullName        string
	Role            permissions.Role
	Status          UserStatus
	Groups          []string
	GroupAnalysis   GroupAnalysis
	ProfilePhotoURL *string
	PasswordHash    []byte
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DisplayName returns the user's full name, falling back to first+last and
// finally to the email address. It never returns an empty string for a user
// with an email.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	if name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName)); name != "" {
		return name
	}
	return u.Email
}

type Session struct {
	ID               string
	UserID           string
	RefreshTokenHash []byte
	IPAddress        string
	UserAgent        string
	CreatedAt        time.Time
	LastSeenAt       time.Time
	ExpiresAt        time.Time
}
