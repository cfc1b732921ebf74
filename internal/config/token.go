package config

import (
	"fmt"

	"github.com/google/uuid"
)

const tokenKey = "server.api_token"

// GetAPIToken returns the local API bearer token, generating and persisting
// one on first use. The token only guards the loopback HTTP API, so a
// random UUID stored in the config file is sufficient.
func GetAPIToken() (string, error) {
	return getAPIToken(newFileBackend())
}

func getAPIToken(b Backend) (string, error) {
	if tok, ok, err := b.GetString(tokenKey); err != nil {
		return "", fmt.Errorf("reading API token: %w", err)
	} else if ok && tok != "" {
		return tok, nil
	}

	tok := uuid.New().String()
	if err := b.SetString(tokenKey, tok); err != nil {
		return "", fmt.Errorf("persisting API token: %w", err)
	}
	return tok, nil
}
