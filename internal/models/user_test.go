package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{
			name: "full name wins",
			user: User{FullName: "Ana García", FirstName: "Ana", LastName: "García", Email: "ana@megasys.com"},
			want: "Ana García",
		},
		{
			name: "falls back to first+last",
			user: User{FirstName: "Ana", LastName: "García", Email: "ana@megasys.com"},
			want: "Ana García",
		},
		{
			name: "first name only",
			user: User{FirstName: "Ana", Email: "ana@megasys.com"},
			want: "Ana",
		},
		{
			name: "falls back to email",
			user: User{Email: "ana@megasys.com"},
			want: "ana@megasys.com",
		},
		{
			name: "whitespace-only names fall through",
			user: User{FullName: "  ", FirstName: " ", Email: "ana@megasys.com"},
			want: "ana@megasys.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.DisplayName())
		})
	}
}
