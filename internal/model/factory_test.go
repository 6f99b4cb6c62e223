package model

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"userdesk/internal/config"
	"userdesk/internal/entity/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSNBuilders(t *testing.T) {
	cfg := &config.Config{DBUser: "u", DBPassword: "p", DBAddr: "db.local", DBPort: "3306", DBName: "userdesk"}

	assert.Equal(t, "u:p@tcp(db.local:3306)/userdesk?charset=utf8mb4&parseTime=True&loc=Local", mysqlDSN(cfg))
	assert.Equal(t, "host=db.local user=u password=p dbname=userdesk port=3306 sslmode=disable TimeZone=UTC", postgresDSN(cfg))

	cfg.DSNURL = "explicit"
	assert.Equal(t, "explicit", mysqlDSN(cfg))
	assert.Equal(t, "explicit", postgresDSN(cfg))
}

func TestInitRepositoryRejectsBadConfig(t *testing.T) {
	_, err := InitRepository(nil)
	assert.Error(t, err)

	_, err = InitRepository(&config.Config{DBType: " "})
	assert.Error(t, err)

	_, err = InitRepository(&config.Config{DBType: "oracle"})
	assert.ErrorContains(t, err, "unsupported database type")
}

func TestInitRepositorySQLiteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "users.db")

	repo, err := InitRepository(&config.Config{DBType: "SQLite", DBPath: path})
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, repo.SaveDocument(ctx, &db.Document{Key: "users.json", Body: "[]"}))
	doc, err := repo.GetDocument(ctx, "users.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", doc.Body)
}
