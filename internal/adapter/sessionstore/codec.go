// Package sessionstore persists the single credential record
// {accessToken, refreshToken, user} under one well-known key.
//
// All drivers share the JSON codec in this file; transient session fields
// (loading, error) have no representation here.
package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/domain"
)

// Store is the persistence boundary used by the session service.
// Load returns nil, nil when no record exists.
type Store interface {
	Load(ctx context.Context) (*domain.PersistedSession, error)
	Save(ctx context.Context, rec *domain.PersistedSession) error
	Clear(ctx context.Context) error
	Close() error
}

// envelope wraps the record with its key and format version.
type envelope struct {
	Key     string                   `json:"key"`
	Version int                      `json:"version"`
	State   *domain.PersistedSession `json:"state"`
}

const formatVersion = 1

// Encode serializes rec for storage under key.
func Encode(key string, rec *domain.PersistedSession) ([]byte, error) {
	raw, err := json.Marshal(envelope{Key: key, Version: formatVersion, State: rec})
	if err != nil {
		return nil, fmt.Errorf("sessionstore: encode: %w", err)
	}
	return raw, nil
}

// Decode parses a stored payload. A payload stored under a different key or an
// empty record decodes to nil.
func Decode(key string, raw []byte) (*domain.PersistedSession, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("sessionstore: decode: %w", err)
	}
	if env.Key != key || env.State.IsEmpty() {
		return nil, nil
	}
	if env.State.User != nil && !env.State.User.Role.IsValid() {
		return nil, fmt.Errorf("sessionstore: decode: unknown role %q", env.State.User.Role)
	}
	return env.State, nil
}
