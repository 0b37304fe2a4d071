package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionIsAuthenticated(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		want    bool
	}{
		{"empty", Session{}, false},
		{"token without user", Session{Token: "tok"}, false},
		{"user without token", Session{User: testUser()}, false},
		{"both present", Session{User: testUser(), Token: "tok"}, true},
		{"loading does not affect it", Session{User: testUser(), Token: "tok", Loading: true}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.session.IsAuthenticated())
		})
	}
}

func TestSessionStoreNotifiesSubscribers(t *testing.T) {
	store := NewSessionStore()

	var seen []Session
	unsubscribe := store.Subscribe(func(s Session) { seen = append(seen, s) })

	store.set(Session{Token: "tok", User: testUser()})
	store.update(func(s *Session) { s.Loading = true })

	assert.Len(t, seen, 2)
	assert.Equal(t, "tok", seen[0].Token)
	assert.True(t, seen[1].Loading)

	unsubscribe()
	store.set(Session{})
	assert.Len(t, seen, 2, "no notifications after unsubscribe")
}

func TestUserCan(t *testing.T) {
	var nobody *User
	assert.False(t, nobody.Can("sedes", "read"))

	helpdesk := testUser()
	assert.True(t, helpdesk.Can("sedes", "read"))
	assert.False(t, helpdesk.Can("sedes", "delete"))
}

func TestSessionStoreSnapshotsAreIndependent(t *testing.T) {
	store := NewSessionStore()
	store.set(Session{Token: "tok", User: testUser()})

	snapshot := store.Current()
	snapshot.Token = "mutated"

	assert.Equal(t, "tok", store.Current().Token)
}
