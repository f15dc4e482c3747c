// Package store provides the key-value blob storage that backs profiles,
// applications and the notification opt-in flag.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	ProfileKey       = "userProfile"
	ApplicationsKey  = "candidaturas"
	NotificationsKey = "notificationsEnabled"
)

var (
	// ErrQuotaExceeded is returned when a write would grow the store past its limit.
	ErrQuotaExceeded = errors.New("store quota exceeded")
	// ErrUnknownDriver is returned by Open for unsupported drivers.
	ErrUnknownDriver = errors.New("unknown store driver")
)

// Store is a string-keyed blob store. Get reports found=false for missing keys.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// GetJSON decodes the value under key into target. Missing keys leave target untouched.
func GetJSON(ctx context.Context, s Store, key string, target any) (bool, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if !found || len(raw) == 0 {
		return false, nil
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}

	return true, nil
}

// SetJSON encodes value and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	return nil
}
