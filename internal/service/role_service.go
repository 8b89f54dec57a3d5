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

// RoleService 维护角色注册表。admin 角色是封闭集合中受保护的一员，
// 其余角色可以由管理员动态增删。
type RoleService struct {
	repo model.Repository
}

// NewRoleService 创建角色服务实例
func NewRoleService(repo model.Repository) *RoleService {
	return &RoleService{repo: repo}
}

// Create registers a new role. The name "admin" is reserved.
func (s *RoleService) Create(ctx context.Context, name, label string) (*entity.DbRole, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	label = strings.TrimSpace(label)
	if name == "" || label == "" {
		return nil, fmt.Errorf("%w: name and label are required", ErrValidation)
	}
	if name == entity.RoleAdmin {
		return nil, fmt.Errorf("%w: role name %q is reserved", ErrValidation, entity.RoleAdmin)
	}

	if _, err := s.repo.GetRoleByName(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: role %q", ErrConflict, name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role := &entity.DbRole{Name: name, Label: label}
	if err := s.repo.CreateRole(ctx, role); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: role %q", ErrConflict, name)
		}
		return nil, err
	}
	return role, nil
}

// List returns all roles ordered by creation id.
func (s *RoleService) List(ctx context.Context) ([]entity.DbRole, error) {
	return s.repo.ListRoles(ctx)
}

// Delete removes a role. The admin role can never be deleted. Users still
// holding the role keep a dangling role name and fall back to default-deny.
func (s *RoleService) Delete(ctx context.Context, id uint, name string) error {
	if strings.ToLower(strings.TrimSpace(name)) == entity.RoleAdmin {
		return fmt.Errorf("%w: the %s role cannot be deleted", ErrForbidden, entity.RoleAdmin)
	}
	if err := s.repo.DeleteRole(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: role %d", ErrNotFound, id)
		}
		return err
	}
	return nil
}
