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

// CategoryService 管理分类树。分类通过可空的 parent_id 自引用成树，
// 写入时必须保持无环；删除不级联，路径展示在祖先缺失时优雅降级。
type CategoryService struct {
	repo  model.Repository
	perms *PermissionService
}

// NewCategoryService 创建分类服务实例
func NewCategoryService(repo model.Repository, perms *PermissionService) *CategoryService {
	return &CategoryService{repo: repo, perms: perms}
}

// Create adds a category node. The caller's role needs can_create_category.
func (s *CategoryService) Create(ctx context.Context, callerRole, name string, parentID *uint) (*entity.DbCategory, error) {
	perm, err := s.perms.Get(ctx, callerRole)
	if err != nil {
		return nil, err
	}
	if !perm.CanCreateCategory {
		return nil, fmt.Errorf("%w: role %q may not create categories", ErrForbidden, callerRole)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}

	if parentID != nil {
		if _, err := s.repo.GetCategory(ctx, *parentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: parent category %d", ErrNotFound, *parentID)
			}
			return nil, err
		}
	}

	category := &entity.DbCategory{Name: name, ParentID: parentID}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update renames a category and/or moves it under a new parent. Moving is
// rejected with ErrCycle when the target parent chain contains the node
// itself; nothing is mutated in that case.
func (s *CategoryService) Update(ctx context.Context, callerRole string, id uint, name string, parentID *uint) (*entity.DbCategory, error) {
	perm, err := s.perms.Get(ctx, callerRole)
	if err != nil {
		return nil, err
	}
	if !perm.CanEditCategory {
		return nil, fmt.Errorf("%w: role %q may not edit categories", ErrForbidden, callerRole)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}

	if _, err := s.repo.GetCategory(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %d", ErrNotFound, id)
		}
		return nil, err
	}

	if parentID != nil {
		if *parentID == id {
			return nil, fmt.Errorf("%w: category %d cannot be its own parent", ErrCycle, id)
		}
		categories, err := s.repo.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		index := buildCategoryIndex(categories)
		if _, ok := index[*parentID]; !ok {
			return nil, fmt.Errorf("%w: parent category %d", ErrNotFound, *parentID)
		}
		if chainContains(index, *parentID, id) {
			return nil, fmt.Errorf("%w: category %d is an ancestor target of itself", ErrCycle, id)
		}
	}

	updates := map[string]interface{}{
		"name":      name,
		"parent_id": parentID,
	}
	if err := s.repo.UpdateCategory(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %d", ErrNotFound, id)
		}
		return nil, err
	}
	return s.repo.GetCategory(ctx, id)
}

// Delete removes a category node. Children keep their dangling parent_id and
// posts keep the stale reference; path rendering degrades instead of failing.
func (s *CategoryService) Delete(ctx context.Context, callerRole string, id uint) error {
	perm, err := s.perms.Get(ctx, callerRole)
	if err != nil {
		return err
	}
	if !perm.CanDeleteCategory {
		return fmt.Errorf("%w: role %q may not delete categories", ErrForbidden, callerRole)
	}

	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: category %d", ErrNotFound, id)
		}
		return err
	}
	return nil
}

// List returns all categories with their resolved paths.
func (s *CategoryService) List(ctx context.Context) ([]entity.CategoryItem, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	index := buildCategoryIndex(categories)
	items := make([]entity.CategoryItem, 0, len(categories))
	for i := range categories {
		cat := categories[i]
		items = append(items, entity.CategoryItem{
			ID:        cat.ID,
			Name:      cat.Name,
			ParentID:  cat.ParentID,
			Path:      pathOf(index, cat.ID),
			CreatedAt: cat.CreatedAt,
		})
	}
	return items, nil
}

// PathOf returns the slash-joined ancestor path of one category.
func (s *CategoryService) PathOf(ctx context.Context, id uint) (string, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return "", err
	}
	index := buildCategoryIndex(categories)
	if _, ok := index[id]; !ok {
		return "", fmt.Errorf("%w: category %d", ErrNotFound, id)
	}
	return pathOf(index, id), nil
}

func buildCategoryIndex(categories []entity.DbCategory) map[uint]entity.DbCategory {
	index := make(map[uint]entity.DbCategory, len(categories))
	for _, cat := range categories {
		index[cat.ID] = cat
	}
	return index
}

// pathOf 从节点向根回溯拼接路径。祖先被删除时提前停止，返回从最深可解析
// 祖先开始的部分路径；visited 集合保证即使父链被破坏成环也能终止。
func pathOf(index map[uint]entity.DbCategory, id uint) string {
	var segments []string
	visited := make(map[uint]bool)

	current, ok := index[id]
	for ok {
		if visited[current.ID] {
			break
		}
		visited[current.ID] = true
		segments = append(segments, current.Name)
		if current.ParentID == nil {
			break
		}
		current, ok = index[*current.ParentID]
	}

	// 自底向上收集，反转为根到叶
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return strings.Join(segments, "/")
}

// chainContains 沿 parent 链从 start 向根走，判断 target 是否出现。
// 同样带 visited 保护，遇到缺失祖先即视为链终止。
func chainContains(index map[uint]entity.DbCategory, start, target uint) bool {
	visited := make(map[uint]bool)
	current, ok := index[start]
	for ok {
		if current.ID == target {
			return true
		}
		if visited[current.ID] {
			return false
		}
		visited[current.ID] = true
		if current.ParentID == nil {
			return false
		}
		current, ok = index[*current.ParentID]
	}
	return false
}
