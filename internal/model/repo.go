package model

import (
	"context"
	"time"

	"nirdeshona/internal/entity"
)

// Repository 定义数据库操作接口
type Repository interface {
	// 用户管理
	CreateUser(ctx context.Context, user *entity.DbUser) error
	UpdateUser(ctx context.Context, id uint, updates map[string]interface{}) error
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)
	ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error)
	DeleteUser(ctx context.Context, id uint) error
	CountUsers(ctx context.Context) (int64, error)

	// 角色与权限
	CreateRole(ctx context.Context, role *entity.DbRole) error
	GetRoleByName(ctx context.Context, name string) (*entity.DbRole, error)
	ListRoles(ctx context.Context) ([]entity.DbRole, error)
	DeleteRole(ctx context.Context, id uint) error
	GetPermission(ctx context.Context, role string) (*entity.DbPermission, error)
	ListPermissions(ctx context.Context) ([]entity.DbPermission, error)
	UpsertPermission(ctx context.Context, perm *entity.DbPermission) error

	// 分类
	CreateCategory(ctx context.Context, category *entity.DbCategory) error
	GetCategory(ctx context.Context, id uint) (*entity.DbCategory, error)
	UpdateCategory(ctx context.Context, id uint, updates map[string]interface{}) error
	DeleteCategory(ctx context.Context, id uint) error
	ListCategories(ctx context.Context) ([]entity.DbCategory, error)

	// 文章
	CreatePost(ctx context.Context, post *entity.DbPost) error
	GetPost(ctx context.Context, id uint) (*entity.DbPost, error)
	GetPostBySlug(ctx context.Context, slug string) (*entity.DbPost, error)
	UpdatePost(ctx context.Context, id uint, updates map[string]interface{}) error
	DeletePost(ctx context.Context, id uint) error
	ListPosts(ctx context.Context, params *entity.PostQuery) ([]entity.DbPost, *entity.Meta, error)

	// 密码重置验证码
	GetOtpChallenge(ctx context.Context, email string) (*entity.DbOtpChallenge, error)
	UpsertOtpChallenge(ctx context.Context, challenge *entity.DbOtpChallenge) error
	DeleteOtpChallenge(ctx context.Context, email string) error
	DeleteExpiredOtpChallenges(ctx context.Context, now time.Time) error
}
