package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *User {
	return &User{
		ID:        "usr_1",
		Email:     "ana@megasys.test",
		FirstName: "Ana",
		LastName:  "Ruiz",
		FullName:  "Ana Ruiz",
		Role:      "helpdesk",
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	creds := Credentials{Token: "tok-1", User: testUser(), RefreshToken: "ref-1"}
	require.NoError(t, store.Save(creds))

	loaded, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-1", loaded.Token)
	assert.Equal(t, "ref-1", loaded.RefreshToken)
	require.NotNil(t, loaded.User)
	assert.Equal(t, "ana@megasys.test", loaded.User.Email)
}

func TestFileStoreRejectsIncompleteSave(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))

	assert.Error(t, store.Save(Credentials{Token: "tok-only"}))
	assert.Error(t, store.Save(Credentials{User: testUser()}))

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok, "a failed save must not leave anything behind")
}

func TestFileStoreIgnoresHalfDocuments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token":"orphan"}`), 0o600))

	_, ok, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.False(t, ok, "a token without its user is not a session")
}

func TestFileStoreClearIsIdempotent(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))

	require.NoError(t, store.Clear())

	require.NoError(t, store.Save(Credentials{Token: "tok", User: testUser()}))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}
