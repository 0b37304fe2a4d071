package client

import (
	"context"
	"net/http"
)

// VerifyState is the outcome of a startup validation pass.
type VerifyState int

const (
	// StateIdle means nothing was cached; the app starts logged out.
	StateIdle VerifyState = iota
	// StateValid means the cached session was confirmed by the server.
	StateValid
	// StateInvalid means the server rejected the cached token; local state
	// was cleared.
	StateInvalid
	// StateUnknown means the server could not be reached; the cached session
	// is trusted until a later call proves otherwise.
	StateUnknown
)

func (s VerifyState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValid:
		return "valid"
	case StateInvalid:
		return "invalid"
	case StateUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// Validator restores a persisted session at startup and verifies it against
// the server. Restoration is immediate so the app can render with the cached
// identity while the verification round trip completes.
type Validator struct {
	manager *Manager
}

func NewValidator(m *Manager) *Validator {
	return &Validator{manager: m}
}

// Run performs one validation pass. With nothing cached the session resolves
// empty without a network call. With cached credentials the session is
// rehydrated first, then verified; only an explicit non-2xx clears it, and a
// network failure or timeout leaves it standing. Run is safe to call again
// after an Unknown outcome.
func (v *Validator) Run(ctx context.Context) VerifyState {
	m := v.manager

	creds, ok, err := m.store.Load()
	if err != nil {
		m.log.Warn().Err(err).Msg("load cached credentials failed")
	}
	if !ok {
		m.sessions.set(Session{})
		return StateIdle
	}

	// Optimistic rehydration: the cached identity is live before the server
	// has confirmed it.
	m.sessions.set(Session{User: creds.User, Token: creds.Token, Loading: true})

	switch v.verify(ctx, creds.Token) {
	case http.StatusOK:
		m.sessions.update(func(s *Session) { s.Loading = false })
		return StateValid
	case 0:
		m.log.Debug().Msg("session verification unreachable, keeping cached session")
		m.sessions.update(func(s *Session) { s.Loading = false })
		return StateUnknown
	default:
		if err := m.store.Clear(); err != nil {
			m.log.Warn().Err(err).Msg("clear rejected credentials failed")
		}
		m.sessions.set(Session{})
		return StateInvalid
	}
}

// verify probes the session endpoint. It returns the HTTP status, or 0 when
// no response was obtained at all.
func (v *Validator) verify(ctx context.Context, token string) int {
	ctx, cancel := context.WithTimeout(ctx, VerifyTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.manager.baseURL+mePath, nil)
	if err != nil {
		return 0
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.manager.http.Do(req)
	if err != nil {
		return 0
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return http.StatusOK
	}
	return resp.StatusCode
}
