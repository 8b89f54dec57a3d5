package model

import (
	"context"
	"errors"
	"strings"

	"nirdeshona/internal/auth"
	"nirdeshona/internal/config"
	"nirdeshona/internal/entity"

	"gorm.io/gorm"
)

var defaultRoleSeeds = []entity.DbRole{
	{Name: entity.RoleAdmin, Label: "Administrator"},
	{Name: entity.RoleModerator, Label: "Moderator"},
	{Name: entity.RoleTeacher, Label: "Teacher"},
	{Name: entity.RoleStudent, Label: "Student"},
	{Name: entity.RoleSubscriber, Label: "Subscriber"},
}

// SeedDefaults ensures the built-in roles, the admin permission row and an
// optional bootstrap admin account exist in the database.
func SeedDefaults(ctx context.Context, repo Repository, cfg config.Config) error {
	if repo == nil {
		return nil
	}

	for _, seed := range defaultRoleSeeds {
		_, err := repo.GetRoleByName(ctx, seed.Name)
		switch {
		case err == nil:
			continue
		case errors.Is(err, gorm.ErrRecordNotFound):
			role := seed
			if err := repo.CreateRole(ctx, &role); err != nil {
				return err
			}
		default:
			return err
		}
	}

	// admin 角色获得全量权限；其余角色缺省即全否（缺行等同全 false）
	adminPerm, err := repo.GetPermission(ctx, entity.RoleAdmin)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if adminPerm == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		perm := entity.DbPermission{
			Role:              entity.RoleAdmin,
			CanCreate:         true,
			CanEditOwn:        true,
			CanEditAny:        true,
			CanDelete:         true,
			CanPublish:        true,
			CanCreateCategory: true,
			CanEditCategory:   true,
			CanDeleteCategory: true,
		}
		if err := repo.UpsertPermission(ctx, &perm); err != nil {
			return err
		}
	}

	return seedBootstrapAdmin(ctx, repo, cfg)
}

func seedBootstrapAdmin(ctx context.Context, repo Repository, cfg config.Config) error {
	email := strings.ToLower(strings.TrimSpace(cfg.BootstrapAdminEmail))
	password := strings.TrimSpace(cfg.BootstrapAdminPassword)
	if email == "" || password == "" {
		return nil
	}

	count, err := repo.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user := &entity.DbUser{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  "Administrator",
		Role:         entity.RoleAdmin,
		IsActive:     true,
	}
	return repo.CreateUser(ctx, user)
}
