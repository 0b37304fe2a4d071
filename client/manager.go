package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/lord-einar/megasys/internal/security"
)

var (
	// ErrIncompleteAuthData is returned when a callback payload is missing the
	// token or the user. No partial session is ever established.
	ErrIncompleteAuthData = errors.New("auth payload missing user or token")
	// ErrRefreshFailed wraps any refresh failure; by the time the caller sees
	// it the session has already been logged out.
	ErrRefreshFailed = errors.New("session refresh failed")
)

// Manager owns the session lifecycle: establishing it from a login or an IdP
// callback, tearing it down, and rotating it via the refresh endpoint. All
// state changes go through the session store so observers stay current.
type Manager struct {
	baseURL  string
	store    CredentialStore
	sessions *SessionStore
	http     *http.Client
	log      zerolog.Logger
}

func NewManager(cfg Config) (*Manager, error) {
	store := cfg.Store
	if store == nil {
		fileStore, err := DefaultFileStore()
		if err != nil {
			return nil, err
		}
		store = fileStore
	}
	return &Manager{
		baseURL:  cfg.BaseURL,
		store:    store,
		sessions: NewSessionStore(),
		http:     cfg.httpClient(),
		log:      cfg.Logger,
	}, nil
}

// Sessions exposes the observable session store.
func (m *Manager) Sessions() *SessionStore { return m.sessions }

// Login establishes a session from an already-verified payload. It performs
// no network calls: by the time Login runs, the server has spoken. The raw
// user is normalized, then credentials and session are written together.
func (m *Manager) Login(rawUser map[string]any, token, refreshToken, profilePhotoURL string) error {
	if token == "" {
		return ErrIncompleteAuthData
	}

	user, err := NormalizeUser(rawUser)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if profilePhotoURL != "" {
		user.ProfilePhotoURL = profilePhotoURL
	}

	if err := m.store.Save(Credentials{Token: token, User: user, RefreshToken: refreshToken}); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	m.sessions.set(Session{User: user, Token: token})
	return nil
}

// Logout tears the session down. The server call is best effort; local state
// is cleared no matter what the network does.
func (m *Manager) Logout(ctx context.Context) {
	if token := m.sessions.Current().Token; token != "" {
		if err := m.post(ctx, logoutPath, token, nil, nil); err != nil {
			m.log.Debug().Err(err).Msg("server logout failed, clearing locally")
		}
	}

	if err := m.store.Clear(); err != nil {
		m.log.Warn().Err(err).Msg("clear credentials failed")
	}
	m.sessions.set(Session{})
}

// Refresh exchanges the stored refresh token for a new session and returns
// the new access token. Any failure logs the session out and returns
// ErrRefreshFailed; there is no half-refreshed state.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	creds, ok, err := m.store.Load()
	if err != nil || !ok || creds.RefreshToken == "" {
		m.Logout(ctx)
		return "", ErrRefreshFailed
	}

	body := map[string]string{
		"userId":       creds.User.ID,
		"refreshToken": creds.RefreshToken,
	}

	var result struct {
		User         map[string]any `json:"user"`
		Token        string         `json:"token"`
		RefreshToken string         `json:"refreshToken"`
	}
	if err := m.post(ctx, refreshPath, "", body, &result); err != nil {
		m.log.Debug().Err(err).Msg("refresh rejected")
		m.Logout(ctx)
		return "", ErrRefreshFailed
	}

	if err := m.Login(result.User, result.Token, result.RefreshToken, ""); err != nil {
		m.Logout(ctx)
		return "", ErrRefreshFailed
	}
	return result.Token, nil
}

// HandleCallback completes the IdP redirect flow from the query parameters
// the server bounced back. Error parameters and incomplete payloads surface
// on the session without ever establishing it.
func (m *Manager) HandleCallback(query url.Values) error {
	if code := query.Get("error"); code != "" {
		desc := query.Get("error_description")
		msg := code
		if desc != "" {
			msg = code + ": " + desc
		}
		m.sessions.update(func(s *Session) { s.Err = msg })
		return errors.New(msg)
	}

	blob := query.Get("auth_data")
	if blob == "" {
		m.sessions.update(func(s *Session) { s.Err = ErrIncompleteAuthData.Error() })
		return ErrIncompleteAuthData
	}

	data, err := security.DecodeAuthData(blob)
	if err != nil {
		m.sessions.update(func(s *Session) { s.Err = "malformed auth payload" })
		return fmt.Errorf("decode auth_data: %w", err)
	}

	if data.Token == "" || len(data.User) == 0 {
		m.sessions.update(func(s *Session) { s.Err = ErrIncompleteAuthData.Error() })
		return ErrIncompleteAuthData
	}

	return m.Login(data.User, data.Token, data.RefreshToken, data.ProfilePhotoURL)
}

// LoginURL asks the server for the identity-provider authorize URL the
// caller should open in a browser.
func (m *Manager) LoginURL(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+loginPath, nil)
	if err != nil {
		return "", err
	}

	resp, err := m.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request login url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login url: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode login url: %w", err)
	}
	return payload.URL, nil
}

func (m *Manager) post(ctx context.Context, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := m.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
