package api

import (
	"context"
	"net/http"
	"time"

	"nirdeshona/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ListCategories 列出全部分类及其路径，无需认证。
func (h *HTTPHandler) ListCategories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	items, err := h.categoryService.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to list categories")
		InternalError(c, "failed to load categories")
		return
	}

	c.JSON(http.StatusOK, entity.CategoryListResponse{Categories: items})
}

// CreateCategory 创建分类，要求 can_create_category。
func (h *HTTPHandler) CreateCategory(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	category, err := h.categoryService.Create(ctx, user.Role, req.Name, req.ParentID)
	if err != nil {
		ServiceError(c, err, "failed to create category")
		return
	}

	c.JSON(http.StatusCreated, category)
}

// UpdateCategory 重命名或移动分类，要求 can_edit_category。
func (h *HTTPHandler) UpdateCategory(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	categoryID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req entity.CategoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	category, err := h.categoryService.Update(ctx, user.Role, categoryID, req.Name, req.ParentID)
	if err != nil {
		ServiceError(c, err, "failed to update category")
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory 删除分类，要求 can_delete_category。
func (h *HTTPHandler) DeleteCategory(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	categoryID, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.categoryService.Delete(ctx, user.Role, categoryID); err != nil {
		ServiceError(c, err, "failed to delete category")
		return
	}

	c.Status(http.StatusNoContent)
}
