// Package credstore persists the device credential set: session token, auth
// token and active tenant id. It is the only component allowed to touch
// those keys.
package credstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Key string

const (
	KeySessionToken Key = "sessionToken"
	KeyAuthToken    Key = "authToken"
	KeyActiveTenant Key = "activeTenantId"
)

// Keys is the fixed key set; Clear must cover all of them.
var Keys = []Key{KeySessionToken, KeyAuthToken, KeyActiveTenant}

var (
	// ErrStorageUnavailable wraps any backend failure. It is never silently
	// swallowed by callers.
	ErrStorageUnavailable = errors.New("credential storage unavailable")

	ErrKeyNotFound = errors.New("credential key not found")

	ErrUnknownKey = errors.New("unknown credential key")
)

// ClearError reports a partial clear: the keys that could not be removed.
type ClearError struct {
	Failed []Key
}

func (e *ClearError) Error() string {
	names := make([]string, len(e.Failed))
	for i, k := range e.Failed {
		names[i] = string(k)
	}
	return fmt.Sprintf("failed to clear credential keys: %s", strings.Join(names, ", "))
}

func (e *ClearError) Unwrap() error { return ErrStorageUnavailable }

// Store holds the three device credentials across process restarts.
type Store interface {
	Put(ctx context.Context, key Key, value string) error
	Get(ctx context.Context, key Key) (string, error)
	// Clear removes all keys. On partial failure it returns a *ClearError
	// naming the keys still present.
	Clear(ctx context.Context) error
}

func validKey(key Key) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}
