package security

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// AuthData is the opaque blob handed to the front end after the identity
// provider redirect, carried in the auth_data query parameter as URL-safe
// base64 JSON. The user payload stays raw here: normalization into the
// canonical shape happens on the client side, at one boundary.
type AuthData struct {
	User            map[string]any `json:"user"`
	Token           string         `json:"token"`
	RefreshToken    string         `json:"refreshToken,omitempty"`
	ProfilePhotoURL string         `json:"profilePhotoUrl,omitempty"`
}

func EncodeAuthData(data AuthData) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal auth data: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func DecodeAuthData(blob string) (AuthData, error) {
	raw, err := base64.RawURLEncoding.DecodeString(blob)
	if err != nil {
		return AuthData{}, fmt.Errorf("decode auth data: %w", err)
	}
	var data AuthData
	if err := json.Unmarshal(raw, &data); err != nil {
		return AuthData{}, fmt.Errorf("unmarshal auth data: %w", err)
	}
	return data, nil
}
