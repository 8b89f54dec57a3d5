package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"nirdeshona/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ListRoles 列出全部角色。
func (h *HTTPHandler) ListRoles(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	roles, err := h.roleService.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to list roles")
		InternalError(c, "failed to load roles")
		return
	}

	c.JSON(http.StatusOK, entity.RoleListResponse{Roles: roles})
}

// CreateRole 管理员注册新角色。
func (h *HTTPHandler) CreateRole(c *gin.Context) {
	var req entity.RoleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	role, err := h.roleService.Create(ctx, req.Name, req.Label)
	if err != nil {
		ServiceError(c, err, "failed to create role")
		return
	}

	c.JSON(http.StatusCreated, role)
}

// DeleteRole 管理员删除角色。admin 角色受保护。
func (h *HTTPHandler) DeleteRole(c *gin.Context) {
	roleID, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	roles, err := h.roleService.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to load roles")
		InternalError(c, "failed to delete role")
		return
	}

	var name string
	for i := range roles {
		if roles[i].ID == roleID {
			name = roles[i].Name
			break
		}
	}
	if name == "" {
		NotFound(c, ErrCodeNotFound, "role not found")
		return
	}

	if err := h.roleService.Delete(ctx, roleID, name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeNotFound, "role not found")
			return
		}
		ServiceError(c, err, "failed to delete role")
		return
	}

	c.Status(http.StatusNoContent)
}
