package sql

import (
	"context"
	"fmt"
	"strings"

	"userdesk/internal/entity/db"

	"gorm.io/gorm/clause"
)

// GetDocument loads a whole document by key.
func (r *GormRepository) GetDocument(ctx context.Context, key string) (*db.Document, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return nil, fmt.Errorf("document key is empty")
	}

	var doc db.Document
	if err := r.db.WithContext(ctx).Where("doc_key = ?", trimmed).First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// SaveDocument inserts the document or overwrites the body of an existing one.
func (r *GormRepository) SaveDocument(ctx context.Context, doc *db.Document) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if doc == nil {
		return fmt.Errorf("document is nil")
	}
	doc.Key = strings.TrimSpace(doc.Key)
	if doc.Key == "" {
		return fmt.Errorf("document key is empty")
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doc_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(doc).Error
}
