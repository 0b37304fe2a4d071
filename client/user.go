package client

import (
	"strings"

	"github.com/lord-einar/megasys/internal/models"
	"github.com/lord-einar/megasys/internal/permissions"
)

// User is the canonical client-side user, the shape every API response is
// normalized into regardless of how deeply the server wrapped it.
type User struct {
	ID              string                     `json:"id" mapstructure:"id"`
	Email           string                     `json:"email" mapstructure:"email"`
	FirstName       string                     `json:"firstName" mapstructure:"firstName"`
	LastName        string                     `json:"lastName" mapstructure:"lastName"`
	FullName        string                     `json:"fullName" mapstructure:"fullName"`
	Role            permissions.Role           `json:"role" mapstructure:"role"`
	Groups          []string                   `json:"groups" mapstructure:"groups"`
	Permissions     map[string]map[string]bool `json:"permissions" mapstructure:"permissions"`
	GroupAnalysis   models.GroupAnalysis       `json:"groupAnalysis" mapstructure:"groupAnalysis"`
	ProfilePhotoURL string                     `json:"profilePhotoUrl,omitempty" mapstructure:"profilePhotoUrl"`
}

// DisplayName falls back from fullName through first+last to the email, so
// the UI always has something to show.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	if name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName)); name != "" {
		return name
	}
	return u.Email
}

// Can resolves a capability for this user through the shared table.
func (u *User) Can(resource, action string) bool {
	if u == nil {
		return false
	}
	return permissions.Allowed(u.Role, resource, action)
}
