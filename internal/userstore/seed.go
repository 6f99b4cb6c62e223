package userstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"userdesk/internal/entity"
	"userdesk/internal/storage"
)

// Seed writes users as the initial document when none exists yet. An existing
// document is never touched. It reports whether the seed was written.
func (s *Store) Seed(ctx context.Context, users []entity.User) (bool, error) {
	_, err := s.storage.Load(ctx, s.key)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, storage.ErrNotExist):
		if err := s.persist(ctx, users); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, NewStorageError("Failed to read users data", err)
	}
}

// LoadSeedFile reads a JSON array of users. Ids must be positive and unique.
func LoadSeedFile(path string) ([]entity.User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var users []entity.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	seen := make(map[int64]struct{}, len(users))
	for idx := range users {
		id := users[idx].ID
		if id <= 0 {
			return nil, fmt.Errorf("seed user at index %d has invalid id %d", idx, id)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("seed user id %d is duplicated", id)
		}
		seen[id] = struct{}{}
	}
	return users, nil
}
