package api

import (
	"context"
	"net/http"
	"time"

	"nirdeshona/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ListPermissions 返回已存储的权限矩阵。
func (h *HTTPHandler) ListPermissions(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	perms, err := h.permissionService.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to list permissions")
		InternalError(c, "failed to load permissions")
		return
	}

	c.JSON(http.StatusOK, entity.PermissionListResponse{Permissions: perms})
}

// GetRolePermission 返回某个角色的有效权限行（无行时为全 false）。
func (h *HTTPHandler) GetRolePermission(c *gin.Context) {
	role := c.Param("role")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	perm, err := h.permissionService.Get(ctx, role)
	if err != nil {
		logrus.WithError(err).WithField("role", role).Error("failed to load permission")
		InternalError(c, "failed to load permission")
		return
	}

	c.JSON(http.StatusOK, perm)
}

// UpsertPermissions 管理员保存权限矩阵，逐行整体覆盖。
func (h *HTTPHandler) UpsertPermissions(c *gin.Context) {
	var req entity.PermissionUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.permissionService.Upsert(ctx, req.Permissions); err != nil {
		ServiceError(c, err, "failed to save permissions")
		return
	}

	perms, err := h.permissionService.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to reload permissions")
		InternalError(c, "failed to load permissions")
		return
	}

	c.JSON(http.StatusOK, entity.PermissionListResponse{Permissions: perms})
}
