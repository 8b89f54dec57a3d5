package entity

import "time"

// DbCategory 表示分类树中的一个节点。ParentID 为空表示根节点。
// 删除节点不会级联，子节点的 ParentID 会悬空。
type DbCategory struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `gorm:"column:name;type:varchar(100);not null" json:"name"`
	ParentID  *uint     `gorm:"column:parent_id;index" json:"parent_id"`
}

// TableName 指定表名。
func (DbCategory) TableName() string {
	return "categories"
}

type CategoryCreateRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

type CategoryUpdateRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

// CategoryItem 是返回给客户端的分类，附带完整祖先路径。
type CategoryItem struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	ParentID  *uint     `json:"parent_id"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

type CategoryListResponse struct {
	Categories []CategoryItem `json:"categories"`
}

type CategoryDetailResponse struct {
	Category CategoryItem `json:"category"`
}
