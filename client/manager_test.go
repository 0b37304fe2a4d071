package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lord-einar/megasys/internal/security"
)

func rawUser() map[string]any {
	return map[string]any{
		"id":        "usr_1",
		"email":     "ana@megasys.test",
		"firstName": "Ana",
		"lastName":  "Ruiz",
		"role":      "helpdesk",
	}
}

func TestManagerLoginLogoutRoundTrip(t *testing.T) {
	var logoutCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, logoutPath, r.URL.Path)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		atomic.AddInt32(&logoutCalls, 1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	m := newTestManager(t, srv.URL)
	require.NoError(t, m.Login(rawUser(), "tok-1", "ref-1", ""))

	session := m.Sessions().Current()
	require.True(t, session.IsAuthenticated())
	assert.Equal(t, "Ana Ruiz", session.User.FullName)

	creds, ok, err := m.store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-1", creds.Token)
	assert.Equal(t, "ref-1", creds.RefreshToken)

	m.Logout(context.Background())

	assert.Equal(t, int32(1), atomic.LoadInt32(&logoutCalls))
	assert.False(t, m.Sessions().Current().IsAuthenticated())

	_, ok, err = m.store.Load()
	require.NoError(t, err)
	assert.False(t, ok, "logout clears both halves of the stored credentials")
}

func TestManagerLogoutSurvivesServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := newTestManager(t, srv.URL)
	require.NoError(t, m.Login(rawUser(), "tok-1", "ref-1", ""))

	m.Logout(context.Background())

	assert.False(t, m.Sessions().Current().IsAuthenticated())
	_, ok, err := m.store.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManagerRefreshRotatesSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, refreshPath, r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "usr_1", req["userId"])
		require.Equal(t, "ref-1", req["refreshToken"])

		json.NewEncoder(w).Encode(map[string]any{
			"user":         rawUser(),
			"token":        "tok-2",
			"refreshToken": "ref-2",
		})
	}))
	defer srv.Close()

	m := newTestManager(t, srv.URL)
	require.NoError(t, m.Login(rawUser(), "tok-1", "ref-1", ""))

	token, err := m.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)
	assert.Equal(t, "tok-2", m.Sessions().Current().Token)

	creds, ok, err := m.store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ref-2", creds.RefreshToken)
}

func TestManagerRefreshFailureLogsOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == refreshPath {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	m := newTestManager(t, srv.URL)
	require.NoError(t, m.Login(rawUser(), "tok-1", "ref-1", ""))

	token, err := m.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrRefreshFailed)
	assert.Empty(t, token)
	assert.False(t, m.Sessions().Current().IsAuthenticated())

	_, ok, err := m.store.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManagerRefreshWithoutCredentials(t *testing.T) {
	m := newTestManager(t, "http://127.0.0.1:0")

	token, err := m.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrRefreshFailed)
	assert.Empty(t, token)
}

func TestHandleCallbackSuccess(t *testing.T) {
	blob, err := security.EncodeAuthData(security.AuthData{
		User:            rawUser(),
		Token:           "tok-cb",
		RefreshToken:    "ref-cb",
		ProfilePhotoURL: "https://cdn.megasys.test/ana.jpg",
	})
	require.NoError(t, err)

	m := newTestManager(t, "http://127.0.0.1:0")
	require.NoError(t, m.HandleCallback(url.Values{"auth_data": {blob}}))

	session := m.Sessions().Current()
	require.True(t, session.IsAuthenticated())
	assert.Equal(t, "tok-cb", session.Token)
	assert.Equal(t, "https://cdn.megasys.test/ana.jpg", session.User.ProfilePhotoURL)
	assert.Empty(t, session.Err)
}

func TestHandleCallbackErrorParams(t *testing.T) {
	m := newTestManager(t, "http://127.0.0.1:0")

	err := m.HandleCallback(url.Values{
		"error":             {"access_denied"},
		"error_description": {"identity verification failed"},
	})
	require.Error(t, err)

	session := m.Sessions().Current()
	assert.False(t, session.IsAuthenticated())
	assert.Equal(t, "access_denied: identity verification failed", session.Err)

	_, ok, loadErr := m.store.Load()
	require.NoError(t, loadErr)
	assert.False(t, ok, "a failed callback must not persist anything")
}

func TestHandleCallbackIncompletePayload(t *testing.T) {
	missingToken, err := security.EncodeAuthData(security.AuthData{User: rawUser()})
	require.NoError(t, err)
	missingUser, err := security.EncodeAuthData(security.AuthData{Token: "tok"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		query url.Values
	}{
		{"no auth_data at all", url.Values{}},
		{"garbage blob", url.Values{"auth_data": {"%%%not-base64%%%"}}},
		{"token missing", url.Values{"auth_data": {missingToken}}},
		{"user missing", url.Values{"auth_data": {missingUser}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestManager(t, "http://127.0.0.1:0")

			require.Error(t, m.HandleCallback(tc.query))

			session := m.Sessions().Current()
			assert.False(t, session.IsAuthenticated())
			assert.NotEmpty(t, session.Err)

			_, ok, err := m.store.Load()
			require.NoError(t, err)
			assert.False(t, ok, "incomplete payloads never reach the store")
		})
	}
}
