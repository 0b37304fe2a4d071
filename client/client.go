// Package client implements the Megasys session lifecycle for Go front ends
// and tools: credential persistence, optimistic rehydration with background
// verification, login/logout/refresh against the API, and declarative route
// gating on top of the shared capability table.
package client

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	mePath      = "/api/v1/auth/me"
	logoutPath  = "/api/v1/auth/logout"
	refreshPath = "/api/v1/auth/refresh"
	loginPath   = "/api/v1/auth/login"
)

// VerifyTimeout bounds the startup session verification call. A slow or
// unreachable backend keeps the cached session; only an explicit rejection
// clears it.
const VerifyTimeout = 5 * time.Second

type Config struct {
	// BaseURL of the Megasys API, e.g. http://127.0.0.1:8080.
	BaseURL string
	// Store holds the persisted credentials. Defaults to the file store under
	// the user config dir.
	Store CredentialStore
	// HTTPClient defaults to a plain http.Client; the verification timeout is
	// applied per call, not here.
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

func (c Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{}
}
