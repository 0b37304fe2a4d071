package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

var errEmptyUser = errors.New("payload contains no user")

// NormalizeUser converts a decoded API payload into the canonical User.
// Servers wrap the user inconsistently; all of these are accepted:
//
//	{"user": {...}}
//	{"data": {"user": {...}}}
//	{"data": {...}}
//	{...}
//
// A payload from which neither an id nor an email can be recovered is
// rejected rather than admitted as an anonymous session.
func NormalizeUser(raw map[string]any) (*User, error) {
	unwrapped := unwrapUser(raw)

	var user User
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &user,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("build user decoder: %w", err)
	}
	if err := dec.Decode(unwrapped); err != nil {
		return nil, fmt.Errorf("normalize user: %w", err)
	}

	if user.ID == "" && user.Email == "" {
		return nil, errEmptyUser
	}

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.FullName == "" {
		user.FullName = user.DisplayName()
	}
	return &user, nil
}

// unwrapUser strips the known envelope layers. "user" wins over "data" so a
// {"data": {"user": {...}}} response unwraps in two steps.
func unwrapUser(raw map[string]any) map[string]any {
	for i := 0; i < 3; i++ {
		if inner, ok := raw["user"].(map[string]any); ok {
			raw = inner
			continue
		}
		if inner, ok := raw["data"].(map[string]any); ok {
			raw = inner
			continue
		}
		break
	}
	return raw
}
