package model

import (
	"context"

	"userdesk/internal/entity/db"
)

// Repository 定义文档表的数据库操作接口
type Repository interface {
	// GetDocument 读取整份文档，不存在时返回 gorm.ErrRecordNotFound
	GetDocument(ctx context.Context, key string) (*db.Document, error)
	// SaveDocument 整体覆盖写入文档
	SaveDocument(ctx context.Context, doc *db.Document) error
}
