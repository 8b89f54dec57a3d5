package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"nirdeshona/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ListPosts 认证用户列出文章，支持状态过滤和 mine=1 只看自己的。
func (h *HTTPHandler) ListPosts(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var query entity.PostQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c)
		return
	}
	if strings.TrimSpace(c.Query("mine")) == "1" {
		query.AuthorID = user.ID
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	posts, meta, err := h.postService.List(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list posts")
		InternalError(c, "failed to load posts")
		return
	}

	c.JSON(http.StatusOK, entity.PostListResponse{Posts: h.makePosts(posts), Meta: meta})
}

// GetPost 认证用户查看单篇文章（含草稿）。
func (h *HTTPHandler) GetPost(c *gin.Context) {
	postID, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	post, err := h.repo.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeNotFound, "post not found")
			return
		}
		logrus.WithError(err).WithField("post_id", postID).Error("failed to load post")
		InternalError(c, "failed to load post")
		return
	}

	c.JSON(http.StatusOK, entity.PostDetailResponse{Post: h.makePost(*post)})
}

// CreatePost 创建文章，权限检查在服务层完成。
func (h *HTTPHandler) CreatePost(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.PostCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	post, err := h.postService.Create(ctx, user.Caller(), req)
	if err != nil {
		ServiceError(c, err, "failed to create post")
		return
	}

	c.JSON(http.StatusCreated, entity.PostDetailResponse{Post: h.makePost(*post)})
}

// UpdatePost 全量覆盖文章字段。
func (h *HTTPHandler) UpdatePost(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	postID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req entity.PostUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	post, err := h.postService.Update(ctx, user.Caller(), postID, req)
	if err != nil {
		ServiceError(c, err, "failed to update post")
		return
	}

	c.JSON(http.StatusOK, entity.PostDetailResponse{Post: h.makePost(*post)})
}

// DeletePost 删除文章，要求 can_delete。
func (h *HTTPHandler) DeletePost(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	postID, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.postService.Delete(ctx, user.Caller(), postID); err != nil {
		ServiceError(c, err, "failed to delete post")
		return
	}

	c.Status(http.StatusNoContent)
}

// PublicListPosts 公开文章列表，只含已发布的。
func (h *HTTPHandler) PublicListPosts(c *gin.Context) {
	var query entity.PostQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	posts, meta, err := h.postService.PublicList(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list public posts")
		InternalError(c, "failed to load posts")
		return
	}

	c.JSON(http.StatusOK, entity.PostListResponse{Posts: h.makePosts(posts), Meta: meta})
}

// PublicGetPostBySlug 按 slug 读取已发布的文章。
func (h *HTTPHandler) PublicGetPostBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		BadRequest(c, ErrCodeInvalidRequest, "invalid slug")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	post, err := h.postService.GetPublicBySlug(ctx, slug)
	if err != nil {
		ServiceError(c, err, "failed to load post")
		return
	}

	c.JSON(http.StatusOK, entity.PostDetailResponse{Post: h.makePost(*post)})
}

func (h *HTTPHandler) makePost(post entity.DbPost) entity.DbPost {
	post.Thumbnail = h.publicURL(post.Thumbnail)
	return post
}

func (h *HTTPHandler) makePosts(posts []entity.DbPost) []entity.DbPost {
	out := make([]entity.DbPost, 0, len(posts))
	for _, post := range posts {
		out = append(out, h.makePost(post))
	}
	return out
}
