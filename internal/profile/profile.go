// Package profile keeps the farmer profile captured at signup.
package profile

import (
	"context"
	"fmt"
	"time"

	"cropdesk/internal/kv"
)

type Profile struct {
	Name         string    `json:"name"`
	FarmSize     string    `json:"farmSize"`
	Location     string    `json:"location"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// Store reads and writes farmer_profile:<userId>.
type Store struct {
	KV kv.Store
}

func key(userID string) string { return kv.Key("farmer_profile", userID) }

func (s *Store) Save(ctx context.Context, userID string, p Profile) error {
	if err := s.KV.Set(ctx, key(userID), p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, userID string) (Profile, bool, error) {
	var p Profile
	ok, err := s.KV.Get(ctx, key(userID), &p)
	if err != nil {
		return Profile{}, false, fmt.Errorf("read profile: %w", err)
	}
	return p, ok, nil
}
