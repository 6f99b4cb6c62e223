package storage

import (
	"context"
	"errors"
	"fmt"

	"userdesk/internal/config"
	"userdesk/internal/entity/db"
	"userdesk/internal/model"

	"gorm.io/gorm"
)

// sqlStorage keeps each document as a single row, so a save is still a
// whole-document overwrite.
type sqlStorage struct {
	repo model.Repository
}

// NewSQLStorage opens the database configured by DBType and friends.
func NewSQLStorage(cfg config.Config) (Storage, error) {
	repo, err := model.InitRepository(&cfg)
	if err != nil {
		return nil, fmt.Errorf("storage: init sql repository: %w", err)
	}
	return NewRepositoryStorage(repo), nil
}

// NewRepositoryStorage wraps an already opened repository.
func NewRepositoryStorage(repo model.Repository) Storage {
	return &sqlStorage{repo: repo}
}

func (s *sqlStorage) Load(ctx context.Context, key string) ([]byte, error) {
	normalized, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	doc, err := s.repo.GetDocument(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notExist(key)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return []byte(doc.Body), nil
}

func (s *sqlStorage) Save(ctx context.Context, key string, data []byte) error {
	if len(data) == 0 {
		return errors.New("empty payload")
	}
	normalized, err := normalizeKey(key)
	if err != nil {
		return err
	}
	if err := s.repo.SaveDocument(ctx, &db.Document{Key: normalized, Body: string(data)}); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

var _ Storage = (*sqlStorage)(nil)
