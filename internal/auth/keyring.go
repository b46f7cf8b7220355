// Package auth resolves LLM API keys. An environment variable always takes
// priority over a key stored in the OS credential store.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/mikebijl/attrm/internal/constants"
)

// ServiceName is the keyring service under which keys are stored.
const ServiceName = "attrm"

// ErrNoAPIKey is returned when neither the environment nor the keyring
// holds a key for the provider.
var ErrNoAPIKey = errors.New("no API key found")

// Source records where an API key came from.
type Source string

const (
	SourceNone    Source = "none"
	SourceEnv     Source = "environment"
	SourceKeyring Source = "keyring"
)

func keyName(provider constants.Provider) string {
	return string(provider) + "_api_key"
}

// GetAPIKey returns the API key for provider. Providers that need no key
// return an empty key with SourceNone.
func GetAPIKey(provider constants.Provider) (string, Source, error) {
	info, ok := constants.GetProviderInfo(provider)
	if !ok {
		return "", SourceNone, fmt.Errorf("unknown provider: %s", provider)
	}
	if !info.NeedsAPIKey {
		return "", SourceNone, nil
	}

	if info.APIKeyEnv != "" {
		if key := strings.TrimSpace(os.Getenv(info.APIKeyEnv)); key != "" {
			return key, SourceEnv, nil
		}
	}

	key, err := StoredAPIKey(provider)
	if err != nil {
		return "", SourceNone, err
	}
	if key == "" {
		return "", SourceNone, fmt.Errorf("%w for %s", ErrNoAPIKey, info.Name)
	}
	return key, SourceKeyring, nil
}

// StoredAPIKey returns the key in the keyring, or "" when none is stored.
func StoredAPIKey(provider constants.Provider) (string, error) {
	key, err := keyring.Get(ServiceName, keyName(provider))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read keyring: %w", err)
	}
	return key, nil
}

// SetAPIKey stores key in the keyring.
func SetAPIKey(provider constants.Provider, key string) error {
	if err := keyring.Set(ServiceName, keyName(provider), key); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	return nil
}

// DeleteAPIKey removes the stored key. A missing key is not an error.
func DeleteAPIKey(provider constants.Provider) error {
	if err := keyring.Delete(ServiceName, keyName(provider)); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete API key: %w", err)
	}
	return nil
}
