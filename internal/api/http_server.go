package api

import (
	"net/http"

	"userdesk/internal/config"
	"userdesk/internal/userstore"

	"github.com/gin-gonic/gin"
)

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg   config.Config
	users *userstore.Store
}

// NewHTTPHandler 创建 HTTP 处理器实例
func NewHTTPHandler(cfg config.Config, users *userstore.Store) *HTTPHandler {
	return &HTTPHandler{cfg: cfg, users: users}
}

// NewRouter 创建带中间件和全部路由的 gin 引擎
func NewRouter(h *HTTPHandler) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware())
	r.Use(gin.Recovery())
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes 注册路由
func (h *HTTPHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	users := r.Group("/api/users")
	users.GET("", h.ListUsers)
	users.GET("/:id", h.GetUser)
	users.POST("", h.CreateUser)
	users.PUT("", h.UpdateUser)
	users.PUT("/:id", h.UpdateUser)
	users.DELETE("", h.DeleteUser)
	users.DELETE("/:id", h.DeleteUser)
}

func (h *HTTPHandler) handleError(c *gin.Context, err error) {
	HandleError(c, err, h.cfg.IsDevelopment())
}
