package entity

import "time"

// DbRole 表示一个命名角色。admin 角色由系统播种并受保护。
type DbRole struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `gorm:"column:name;type:varchar(50);uniqueIndex;not null" json:"name"`
	Label     string    `gorm:"column:label;type:varchar(100);not null" json:"label"`
}

// TableName 指定表名。
func (DbRole) TableName() string {
	return "roles"
}

// DbPermission holds the capability flags for one role. A role without a row
// is treated as all-false.
type DbPermission struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	UpdatedAt time.Time `json:"-"`

	Role              string `gorm:"column:role;type:varchar(50);uniqueIndex;not null" json:"role"`
	CanCreate         bool   `gorm:"column:can_create;not null;default:false" json:"can_create"`
	CanEditOwn        bool   `gorm:"column:can_edit_own;not null;default:false" json:"can_edit_own"`
	CanEditAny        bool   `gorm:"column:can_edit_any;not null;default:false" json:"can_edit_any"`
	CanDelete         bool   `gorm:"column:can_delete;not null;default:false" json:"can_delete"`
	CanPublish        bool   `gorm:"column:can_publish;not null;default:false" json:"can_publish"`
	CanCreateCategory bool   `gorm:"column:can_create_category;not null;default:false" json:"can_create_category"`
	CanEditCategory   bool   `gorm:"column:can_edit_category;not null;default:false" json:"can_edit_category"`
	CanDeleteCategory bool   `gorm:"column:can_delete_category;not null;default:false" json:"can_delete_category"`
}

// TableName 指定表名。
func (DbPermission) TableName() string {
	return "post_permissions"
}

type RoleCreateRequest struct {
	Name  string `json:"name" binding:"required"`
	Label string `json:"label" binding:"required"`
}

type RoleListResponse struct {
	Roles []DbRole `json:"roles"`
}

// PermissionUpsertRequest 批量保存权限矩阵，每行按角色整体覆盖。
type PermissionUpsertRequest struct {
	Permissions []DbPermission `json:"permissions" binding:"required"`
}

type PermissionListResponse struct {
	Permissions []DbPermission `json:"permissions"`
}
