package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"nirdeshona/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ListUsers 管理员列出全部用户。
func (h *HTTPHandler) ListUsers(c *gin.Context) {
	var query entity.UserQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	users, meta, err := h.repo.ListUsers(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list users")
		InternalError(c, "failed to load users")
		return
	}

	summaries := make([]entity.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, h.makeUserSummary(&users[i]))
	}

	c.JSON(http.StatusOK, entity.UserListResponse{Users: summaries, Meta: meta})
}

// UpdateUserRole 管理员修改用户角色。角色必须已在注册表中。
func (h *HTTPHandler) UpdateUserRole(c *gin.Context) {
	userID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req entity.UserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	roleName := strings.ToLower(strings.TrimSpace(req.Role))
	if roleName == "" {
		BadRequest(c, ErrCodeMissingField, "role is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.repo.GetRoleByName(ctx, roleName); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			BadRequest(c, ErrCodeInvalidRequest, "unknown role "+roleName)
			return
		}
		logrus.WithError(err).Error("failed to look up role")
		InternalError(c, "failed to update user role")
		return
	}

	if err := h.repo.UpdateUser(ctx, userID, map[string]interface{}{"role": roleName}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeUserNotFound, "user not found")
			return
		}
		logrus.WithError(err).WithField("user_id", userID).Error("failed to update user role")
		InternalError(c, "failed to update user role")
		return
	}

	updated, err := h.repo.GetUserByID(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("failed to reload user")
		InternalError(c, "failed to load user")
		return
	}

	c.JSON(http.StatusOK, h.makeUserSummary(updated))
}

// DeleteUser 管理员删除用户，不能删除自己。
func (h *HTTPHandler) DeleteUser(c *gin.Context) {
	userID, ok := parseIDParam(c)
	if !ok {
		return
	}

	current := CurrentUser(c)
	if current != nil && current.ID == userID {
		Forbidden(c, "cannot delete your own account")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeUserNotFound, "user not found")
			return
		}
		logrus.WithError(err).WithField("user_id", userID).Error("failed to delete user")
		InternalError(c, "failed to delete user")
		return
	}

	c.Status(http.StatusNoContent)
}

// parseIDParam 解析路径中的 :id 参数，失败时直接写入 400 响应。
func parseIDParam(c *gin.Context) (uint, bool) {
	rawID := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}
