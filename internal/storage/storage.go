package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"userdesk/internal/config"
)

const (
	// TypeLocal 表示本地文件系统存储。
	TypeLocal = "local"
	// TypeS3 表示 Amazon S3 或兼容的存储后端。
	TypeS3 = "s3"
	// TypeOSS 表示阿里云 OSS 存储。
	TypeOSS = "oss"
	// TypeCOS 表示腾讯云 COS 存储。
	TypeCOS = "cos"
	// TypeR2 表示 Cloudflare R2 存储。
	TypeR2 = "r2"
	// TypeSQL 表示通过 GORM 存放在数据库表中。
	TypeSQL = "sql"
)

// ErrNotExist 表示请求的文档尚未被写入过。
var ErrNotExist = errors.New("storage: document does not exist")

// Storage 以整份文档为单位读写数据：没有局部读取，也没有局部写入。
//
// Save 总是覆盖同一 key 下的全部内容；覆盖是否原子取决于具体后端。
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// NewStorage 根据配置实例化存储后端。
func NewStorage(cfg config.Config) (Storage, error) {
	typeName := strings.ToLower(strings.TrimSpace(cfg.StorageType))
	switch typeName {
	case "", TypeLocal:
		return NewLocalStorage(cfg.StorageLocalDir)
	case TypeS3:
		return NewS3Storage(cfg)
	case TypeOSS:
		return NewOSSStorage(cfg)
	case TypeCOS:
		return NewCOSStorage(cfg)
	case TypeR2:
		return NewR2Storage(cfg)
	case TypeSQL:
		return NewSQLStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}

func notExist(key string) error {
	return fmt.Errorf("%w: %s", ErrNotExist, key)
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
