package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"userdesk/internal/config"
	"userdesk/internal/entity/db"
	"userdesk/internal/model/sql"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

const (
	DBTypeMySQL    = "mysql"
	DBTypeSQLite   = "sqlite"
	DBTypePostgres = "postgres"

	defaultSQLitePath = "datas/userdesk.db"
)

// InitRepository 打开 DBType 指定的数据库，迁移文档表后返回仓库
func InitRepository(cfg *config.Config) (Repository, error) {
	if cfg == nil || strings.TrimSpace(cfg.DBType) == "" {
		return nil, errors.New("database type is not configured")
	}

	dialector, err := newDialector(cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := openGormDB(dialector)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBType, err)
	}

	// 文档表只有一张，启动时自动迁移即可
	if err := gdb.AutoMigrate(&db.Document{}); err != nil {
		return nil, fmt.Errorf("migrate user_documents: %w", err)
	}
	return sql.NewGormRepository(gdb), nil
}

func newDialector(cfg *config.Config) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.DBType)) {
	case DBTypeMySQL:
		return mysql.Open(mysqlDSN(cfg)), nil
	case DBTypePostgres:
		return postgres.Open(postgresDSN(cfg)), nil
	case DBTypeSQLite:
		path, err := prepareSQLitePath(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return sqlite.Open(path), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DBType)
	}
}

// mysqlDSN DSN_URL 优先，否则由分项配置拼接
func mysqlDSN(cfg *config.Config) string {
	if cfg.DSNURL != "" {
		return cfg.DSNURL
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPassword, cfg.DBAddr, cfg.DBPort, cfg.DBName)
}

func postgresDSN(cfg *config.Config) string {
	if cfg.DSNURL != "" {
		return cfg.DSNURL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBAddr, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)
}

// prepareSQLitePath sqlite 只会创建文件，目录需要提前建好
func prepareSQLitePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = defaultSQLitePath
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create sqlite directory %q: %w", dir, err)
		}
	}
	return path, nil
}

func openGormDB(dialector gorm.Dialector) (*gorm.DB, error) {
	// gorm 日志并入 logrus，找不到记录属于正常分支
	gormLogger := logger.New(
		logrus.StandardLogger(),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
	})
	if err != nil {
		return nil, err
	}

	// 每次请求只读写一行，连接数不需要很大
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return gdb, nil
}
