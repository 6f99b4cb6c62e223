package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"userdesk/internal/api"
	"userdesk/internal/config"
	"userdesk/internal/entity"
	"userdesk/internal/storage"
	"userdesk/internal/userstore"
	"userdesk/internal/version"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var (
	buildVersion = ""
	commit       = ""
	treeState    = ""
	date         = ""
	builtBy      = ""
)

func main() {
	// 初始化配置
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("Failed to parse config")
		os.Exit(1)
	}

	// 初始化logger
	logrus.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(strings.TrimSpace(cfg.LogLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	info := version.Build(buildVersion, commit, date, builtBy, treeState)
	logrus.WithFields(logrus.Fields{
		"version": info.GitVersion,
		"commit":  info.GitCommit,
		"env":     cfg.AppEnv,
		"storage": cfg.StorageType,
	}).Info("userdesk starting")

	backend, err := storage.NewStorage(cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise storage")
		os.Exit(1)
	}

	users, err := userstore.New(backend, userstore.Options{
		DocumentKey:           cfg.UsersDocumentKey,
		EnforceUniqueUsername: cfg.UsersEnforceUniqueUsername,
	})
	if err != nil {
		logrus.WithError(err).Error("failed to initialise user store")
		os.Exit(1)
	}

	seedFile := strings.TrimSpace(cfg.UsersSeedFile)
	if err := seedUsers(users, seedFile); err != nil {
		logrus.WithError(err).WithField("file", seedFile).Error("failed to seed users")
		os.Exit(1)
	}

	// 设置Gin模式
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.NewHTTPHandler(cfg, users))

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	logrus.WithFields(logrus.Fields{
		"host":            serverHost,
		"document_key":    users.DocumentKey(),
		"unique_username": users.EnforcesUniqueUsername(),
	}).Info("服务器启动")

	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	err = httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logrus.WithError(err).Error("服务器启动失败")
		os.Exit(1)
	}
}

// seedUsers 文档不存在时写入种子数据；未配置种子文件则写入空集合
func seedUsers(users *userstore.Store, path string) error {
	seed := []entity.User{}
	if path != "" {
		loaded, err := userstore.LoadSeedFile(path)
		if err != nil {
			return err
		}
		seed = loaded
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	written, err := users.Seed(ctx, seed)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"file":    path,
		"count":   len(seed),
		"written": written,
	}).Info("users seed checked")
	return nil
}
