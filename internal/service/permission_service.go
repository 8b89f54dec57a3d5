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

// PermissionService 是权限矩阵：角色名到能力开关的映射。
// 缺省拒绝——没有权限行的角色等同于一行全 false，绝不返回 nil。
type PermissionService struct {
	repo model.Repository
}

// NewPermissionService 创建权限服务实例
func NewPermissionService(repo model.Repository) *PermissionService {
	return &PermissionService{repo: repo}
}

// Get returns the permission row for a role, or a synthetic all-false row
// when the role is unregistered or has no row stored.
func (s *PermissionService) Get(ctx context.Context, role string) (*entity.DbPermission, error) {
	name := strings.ToLower(strings.TrimSpace(role))
	denied := &entity.DbPermission{Role: name}
	if name == "" {
		return denied, nil
	}

	// 角色名来自调用方，必须先对照注册表验证，未注册的角色一律全否
	if _, err := s.repo.GetRoleByName(ctx, name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return denied, nil
		}
		return nil, err
	}

	perm, err := s.repo.GetPermission(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return denied, nil
		}
		return nil, err
	}
	return perm, nil
}

// List returns all stored permission rows ordered by role name.
func (s *PermissionService) List(ctx context.Context) ([]entity.DbPermission, error) {
	return s.repo.ListPermissions(ctx)
}

// Upsert saves permission rows. Each row is an independent statement keyed by
// role name and fully overwrites the stored row; a failed row does not roll
// back its siblings.
func (s *PermissionService) Upsert(ctx context.Context, rows []entity.DbPermission) error {
	if len(rows) == 0 {
		return fmt.Errorf("%w: no permissions provided", ErrValidation)
	}

	var firstErr error
	for i := range rows {
		row := rows[i]
		row.Role = strings.ToLower(strings.TrimSpace(row.Role))
		if row.Role == "" {
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: permission row without role", ErrValidation)
			}
			continue
		}
		if err := s.repo.UpsertPermission(ctx, &row); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// CanEditPost 实现编辑权限契约：can_edit_any 无条件放行，
// can_edit_own 仅当调用者是原作者时放行。
func CanEditPost(perm *entity.DbPermission, authorID, callerID uint) bool {
	if perm == nil {
		return false
	}
	if perm.CanEditAny {
		return true
	}
	return perm.CanEditOwn && authorID == callerID
}
