package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"userdesk/internal/entity/dto"

	"github.com/gin-gonic/gin"
)

const requestTimeout = 5 * time.Second

func (h *HTTPHandler) ListUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	users, err := h.users.List(ctx)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserListResponse{
		Success: true,
		Message: "Users fetched successfully",
		Users:   users,
	})
}

func (h *HTTPHandler) GetUser(c *gin.Context) {
	id := parseUserID(c.Param("id"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	user, err := h.users.Get(ctx, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserResponse{
		Success: true,
		Message: fmt.Sprintf("User with ID %d found", id),
		User:    user,
	})
}

func (h *HTTPHandler) CreateUser(c *gin.Context) {
	var req dto.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	user, err := h.users.Create(ctx, req.User)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserResponse{
		Success: true,
		Message: "User added successfully",
		User:    user,
	})
}

// UpdateUser 接受 body 中的 id，路径参数存在时以路径为准
func (h *HTTPHandler) UpdateUser(c *gin.Context) {
	var req dto.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	if raw := c.Param("id"); raw != "" {
		req.ID = parseUserID(raw)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	user, err := h.users.Update(ctx, req.ID, req.User)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserResponse{
		Success: true,
		Message: fmt.Sprintf("User with ID %d updated successfully", req.ID),
		User:    user,
	})
}

// DeleteUser 支持 ?id=N 与 /:id 两种写法
func (h *HTTPHandler) DeleteUser(c *gin.Context) {
	raw := c.Param("id")
	if raw == "" {
		raw = c.Query("id")
	}
	id := parseUserID(raw)

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.users.Delete(ctx, id); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{
		Success: true,
		Message: fmt.Sprintf("User with ID %d deleted successfully", id),
	})
}

// parseUserID 解析失败时返回 0，交给 store 报 "User ID is required"
func parseUserID(raw string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
