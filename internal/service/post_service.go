package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nirdeshona/internal/entity"
	"nirdeshona/internal/model"

	"gorm.io/gorm"
)

// PostService 负责文章的增删改查，所有写操作都先经过权限矩阵。
type PostService struct {
	repo  model.Repository
	perms *PermissionService
}

// NewPostService 创建文章服务实例
func NewPostService(repo model.Repository, perms *PermissionService) *PostService {
	return &PostService{repo: repo, perms: perms}
}

// Caller 是一次请求中已认证的调用者身份。
type Caller struct {
	UserID uint
	Role   string
}

// Create 创建文章。发布状态额外要求 can_publish；作者角色在创建时快照。
func (s *PostService) Create(ctx context.Context, caller Caller, req entity.PostCreateRequest) (*entity.DbPost, error) {
	perm, err := s.perms.Get(ctx, caller.Role)
	if err != nil {
		return nil, err
	}
	if !perm.CanCreate {
		return nil, fmt.Errorf("%w: role %q may not create posts", ErrForbidden, caller.Role)
	}

	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrValidation)
	}

	status, err := normalizeStatus(req.Status)
	if err != nil {
		return nil, err
	}
	if status == entity.PostStatusPublished && !perm.CanPublish {
		return nil, fmt.Errorf("%w: role %q may not publish posts", ErrForbidden, caller.Role)
	}

	post := &entity.DbPost{
		Title:      title,
		Content:    content,
		AuthorID:   caller.UserID,
		Role:       caller.Role,
		Status:     status,
		Thumbnail:  strings.TrimSpace(req.Thumbnail),
		Tags:       entity.StringArray(req.Tags),
		Categories: entity.UintArray(req.Categories),
		Slug:       slugOrDerive(req.Slug, title),
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update 全量覆盖文章字段。can_edit_any 放行任何文章，
// can_edit_own 仅放行调用者自己的文章；发布转换要求 can_publish。
func (s *PostService) Update(ctx context.Context, caller Caller, id uint, req entity.PostUpdateRequest) (*entity.DbPost, error) {
	perm, err := s.perms.Get(ctx, caller.Role)
	if err != nil {
		return nil, err
	}

	post, err := s.repo.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", ErrNotFound, id)
		}
		return nil, err
	}

	if !CanEditPost(perm, post.AuthorID, caller.UserID) {
		return nil, fmt.Errorf("%w: role %q may not edit post %d", ErrForbidden, caller.Role, id)
	}

	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrValidation)
	}

	status, err := normalizeStatus(req.Status)
	if err != nil {
		return nil, err
	}
	if status == entity.PostStatusPublished && post.Status != entity.PostStatusPublished && !perm.CanPublish {
		return nil, fmt.Errorf("%w: role %q may not publish posts", ErrForbidden, caller.Role)
	}

	updates := map[string]interface{}{
		"title":      title,
		"content":    content,
		"status":     status,
		"thumbnail":  strings.TrimSpace(req.Thumbnail),
		"tags":       entity.StringArray(req.Tags),
		"categories": entity.UintArray(req.Categories),
		"slug":       slugOrDerive(req.Slug, title),
	}
	if err := s.repo.UpdatePost(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", ErrNotFound, id)
		}
		return nil, err
	}
	return s.repo.GetPost(ctx, id)
}

// Delete 删除文章，要求 can_delete。
func (s *PostService) Delete(ctx context.Context, caller Caller, id uint) error {
	perm, err := s.perms.Get(ctx, caller.Role)
	if err != nil {
		return err
	}
	if !perm.CanDelete {
		return fmt.Errorf("%w: role %q may not delete posts", ErrForbidden, caller.Role)
	}

	if err := s.repo.DeletePost(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: post %d", ErrNotFound, id)
		}
		return err
	}
	return nil
}

// List returns posts for authenticated callers, newest first.
func (s *PostService) List(ctx context.Context, params *entity.PostQuery) ([]entity.DbPost, *entity.Meta, error) {
	return s.repo.ListPosts(ctx, params)
}

// PublicList returns published posts only, for the unauthenticated blog.
func (s *PostService) PublicList(ctx context.Context, params *entity.PostQuery) ([]entity.DbPost, *entity.Meta, error) {
	if params == nil {
		params = &entity.PostQuery{}
	}
	params.Status = entity.PostStatusPublished
	return s.repo.ListPosts(ctx, params)
}

// GetPublicBySlug loads one published post by slug.
func (s *PostService) GetPublicBySlug(ctx context.Context, slug string) (*entity.DbPost, error) {
	post, err := s.repo.GetPostBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %q", ErrNotFound, slug)
		}
		return nil, err
	}
	if post.Status != entity.PostStatusPublished {
		return nil, fmt.Errorf("%w: post %q", ErrNotFound, slug)
	}
	return post, nil
}

func normalizeStatus(status string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "", entity.PostStatusDraft:
		return entity.PostStatusDraft, nil
	case entity.PostStatusPublished:
		return entity.PostStatusPublished, nil
	default:
		return "", fmt.Errorf("%w: unknown post status %q", ErrValidation, status)
	}
}

// slugOrDerive 在未提供 slug 时从标题派生：小写、空白压缩为连字符。
func slugOrDerive(slug, title string) string {
	trimmed := strings.TrimSpace(slug)
	if trimmed != "" {
		return trimmed
	}
	return strings.Join(strings.Fields(strings.ToLower(title)), "-")
}
