package entity

import "time"

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// DbPost 表示一篇博客文章。Role 是作者创建时角色的快照。
type DbPost struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title      string      `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Content    string      `gorm:"column:content;type:text;not null" json:"content"`
	AuthorID   uint        `gorm:"column:author_id;index;not null" json:"author_id"`
	Role       string      `gorm:"column:role;type:varchar(50);not null" json:"role"`
	Status     string      `gorm:"column:status;type:varchar(20);index;not null;default:draft" json:"status"`
	Thumbnail  string      `gorm:"column:thumbnail;type:varchar(512)" json:"thumbnail"`
	Tags       StringArray `gorm:"column:tags;type:text" json:"tags"`
	Categories UintArray   `gorm:"column:categories;type:text" json:"categories"`
	Slug       string      `gorm:"column:slug;type:varchar(255);index;not null" json:"slug"`
}

// TableName 指定表名。
func (DbPost) TableName() string {
	return "posts"
}

type PostCreateRequest struct {
	Title      string   `json:"title" binding:"required"`
	Content    string   `json:"content" binding:"required"`
	Status     string   `json:"status"`
	Thumbnail  string   `json:"thumbnail"`
	Tags       []string `json:"tags"`
	Categories []uint   `json:"categories"`
	Slug       string   `json:"slug"`
}

// PostUpdateRequest 全量覆盖文章字段（与创建相同的字段集合）。
type PostUpdateRequest struct {
	Title      string   `json:"title" binding:"required"`
	Content    string   `json:"content" binding:"required"`
	Status     string   `json:"status"`
	Thumbnail  string   `json:"thumbnail"`
	Tags       []string `json:"tags"`
	Categories []uint   `json:"categories"`
	Slug       string   `json:"slug"`
}

type PostQuery struct {
	BaseParams
	Status   string `json:"status" form:"status" query:"status"`
	AuthorID uint   `json:"-" form:"-" query:"-"`
}

type PostListResponse struct {
	Posts []DbPost `json:"posts"`
	Meta  *Meta    `json:"meta"`
}

type PostDetailResponse struct {
	Post DbPost `json:"post"`
}
