package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, baseURL string) *Manager {
	t.Helper()
	m, err := NewManager(Config{
		BaseURL: baseURL,
		Store:   NewFileStore(filepath.Join(t.TempDir(), "credentials.json")),
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	return m
}

func seedCredentials(t *testing.T, m *Manager, token string) {
	t.Helper()
	require.NoError(t, m.store.Save(Credentials{Token: token, User: testUser(), RefreshToken: "ref"}))
}

func TestValidatorNothingCached(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	m := newTestManager(t, srv.URL)
	state := NewValidator(m).Run(context.Background())

	assert.Equal(t, StateIdle, state)
	assert.False(t, m.Sessions().Current().IsAuthenticated())
	assert.False(t, m.Sessions().Current().Loading)
	assert.Zero(t, atomic.LoadInt32(&calls), "no verification call without cached credentials")
}

func TestValidatorConfirmsCachedSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, mePath, r.URL.Path)
		require.Equal(t, "Bearer tok-ok", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := newTestManager(t, srv.URL)
	seedCredentials(t, m, "tok-ok")

	var loadingSeen bool
	m.Sessions().Subscribe(func(s Session) {
		if s.Loading {
			loadingSeen = true
		}
	})

	state := NewValidator(m).Run(context.Background())

	assert.Equal(t, StateValid, state)
	assert.True(t, loadingSeen, "session rehydrates before verification completes")

	session := m.Sessions().Current()
	assert.True(t, session.IsAuthenticated())
	assert.False(t, session.Loading)
	assert.Equal(t, "tok-ok", session.Token)
}

func TestValidatorClearsRejectedSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	m := newTestManager(t, srv.URL)
	seedCredentials(t, m, "tok-stale")

	state := NewValidator(m).Run(context.Background())

	assert.Equal(t, StateInvalid, state)
	assert.False(t, m.Sessions().Current().IsAuthenticated())

	_, ok, err := m.store.Load()
	require.NoError(t, err)
	assert.False(t, ok, "rejected credentials must be cleared from disk")
}

func TestValidatorKeepsSessionWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // every request now fails at the dial

	m := newTestManager(t, srv.URL)
	seedCredentials(t, m, "tok-offline")

	for i := 0; i < 2; i++ { // a second pass behaves the same
		state := NewValidator(m).Run(context.Background())
		assert.Equal(t, StateUnknown, state)

		session := m.Sessions().Current()
		assert.True(t, session.IsAuthenticated(), "network failure must not log the user out")
		assert.False(t, session.Loading)
	}

	_, ok, err := m.store.Load()
	require.NoError(t, err)
	assert.True(t, ok, "credentials survive an unreachable backend")
}
