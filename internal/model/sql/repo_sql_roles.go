package sql

import (
	"context"
	"fmt"
	"strings"

	"nirdeshona/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateRole inserts a new role.
func (r *GormRepository) CreateRole(ctx context.Context, role *entity.DbRole) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if role == nil {
		return fmt.Errorf("role is nil")
	}
	return r.db.WithContext(ctx).Create(role).Error
}

// GetRoleByName loads a role by its unique name.
func (r *GormRepository) GetRoleByName(ctx context.Context, name string) (*entity.DbRole, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("role name is empty")
	}

	var role entity.DbRole
	if err := r.db.WithContext(ctx).Where("name = ?", trimmed).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// ListRoles returns all roles ordered by creation id.
func (r *GormRepository) ListRoles(ctx context.Context) ([]entity.DbRole, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var roles []entity.DbRole
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// DeleteRole removes a role and its permission row.
func (r *GormRepository) DeleteRole(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid role id")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role entity.DbRole
		if err := tx.First(&role, id).Error; err != nil {
			return err
		}
		if err := tx.Where("role = ?", role.Name).Delete(&entity.DbPermission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.DbRole{}, id).Error
	})
}

// GetPermission loads the permission row for a role.
func (r *GormRepository) GetPermission(ctx context.Context, role string) (*entity.DbPermission, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(role)
	if trimmed == "" {
		return nil, fmt.Errorf("role name is empty")
	}

	var perm entity.DbPermission
	if err := r.db.WithContext(ctx).Where("role = ?", trimmed).First(&perm).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

// ListPermissions returns all permission rows ordered by role name.
func (r *GormRepository) ListPermissions(ctx context.Context) ([]entity.DbPermission, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var perms []entity.DbPermission
	if err := r.db.WithContext(ctx).Order("role ASC").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

// UpsertPermission inserts or fully overwrites the permission row keyed by role.
func (r *GormRepository) UpsertPermission(ctx context.Context, perm *entity.DbPermission) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if perm == nil {
		return fmt.Errorf("permission is nil")
	}
	if strings.TrimSpace(perm.Role) == "" {
		return fmt.Errorf("permission role is empty")
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "role"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"can_create", "can_edit_own", "can_edit_any", "can_delete", "can_publish",
			"can_create_category", "can_edit_category", "can_delete_category", "updated_at",
		}),
	}).Create(perm).Error
}
