package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"nirdeshona/internal/entity"

	"gorm.io/gorm"
)

// fakeRepo 是 model.Repository 的内存实现，供服务层测试使用。
type fakeRepo struct {
	users      map[uint]entity.DbUser
	roles      map[uint]entity.DbRole
	perms      map[string]entity.DbPermission
	categories map[uint]entity.DbCategory
	posts      map[uint]entity.DbPost
	otps       map[string]entity.DbOtpChallenge
	nextID     uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:      make(map[uint]entity.DbUser),
		roles:      make(map[uint]entity.DbRole),
		perms:      make(map[string]entity.DbPermission),
		categories: make(map[uint]entity.DbCategory),
		posts:      make(map[uint]entity.DbPost),
		otps:       make(map[string]entity.DbOtpChallenge),
	}
}

func (f *fakeRepo) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeRepo) addRole(name, label string) entity.DbRole {
	role := entity.DbRole{ID: f.id(), Name: name, Label: label}
	f.roles[role.ID] = role
	return role
}

func (f *fakeRepo) addUser(email, role string) entity.DbUser {
	user := entity.DbUser{ID: f.id(), Email: email, Role: role, IsActive: true}
	f.users[user.ID] = user
	return user
}

func (f *fakeRepo) addCategory(name string, parentID *uint) entity.DbCategory {
	cat := entity.DbCategory{ID: f.id(), Name: name, ParentID: parentID}
	f.categories[cat.ID] = cat
	return cat
}

// --- users ---

func (f *fakeRepo) CreateUser(_ context.Context, user *entity.DbUser) error {
	user.ID = f.id()
	f.users[user.ID] = *user
	return nil
}

func (f *fakeRepo) UpdateUser(_ context.Context, id uint, updates map[string]interface{}) error {
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["password_hash"]; ok {
		user.PasswordHash = v.(string)
	}
	if v, ok := updates["role"]; ok {
		user.Role = v.(string)
	}
	if v, ok := updates["display_name"]; ok {
		user.DisplayName = v.(string)
	}
	if v, ok := updates["avatar_url"]; ok {
		user.AvatarURL = v.(string)
	}
	f.users[id] = user
	return nil
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (*entity.DbUser, error) {
	for _, user := range f.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetUserByID(_ context.Context, id uint) (*entity.DbUser, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	u := user
	return &u, nil
}

func (f *fakeRepo) ListUsers(_ context.Context, _ *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error) {
	users := make([]entity.DbUser, 0, len(f.users))
	for _, user := range f.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, &entity.Meta{Total: int64(len(users)), Page: 1, PageSize: 20}, nil
}

func (f *fakeRepo) DeleteUser(_ context.Context, id uint) error {
	if _, ok := f.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeRepo) CountUsers(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

// --- roles and permissions ---

func (f *fakeRepo) CreateRole(_ context.Context, role *entity.DbRole) error {
	for _, existing := range f.roles {
		if existing.Name == role.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	role.ID = f.id()
	f.roles[role.ID] = *role
	return nil
}

func (f *fakeRepo) GetRoleByName(_ context.Context, name string) (*entity.DbRole, error) {
	for _, role := range f.roles {
		if role.Name == name {
			r := role
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) ListRoles(_ context.Context) ([]entity.DbRole, error) {
	roles := make([]entity.DbRole, 0, len(f.roles))
	for _, role := range f.roles {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	return roles, nil
}

func (f *fakeRepo) DeleteRole(_ context.Context, id uint) error {
	role, ok := f.roles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.perms, role.Name)
	delete(f.roles, id)
	return nil
}

func (f *fakeRepo) GetPermission(_ context.Context, role string) (*entity.DbPermission, error) {
	perm, ok := f.perms[role]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p := perm
	return &p, nil
}

func (f *fakeRepo) ListPermissions(_ context.Context) ([]entity.DbPermission, error) {
	perms := make([]entity.DbPermission, 0, len(f.perms))
	for _, perm := range f.perms {
		perms = append(perms, perm)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i].Role < perms[j].Role })
	return perms, nil
}

func (f *fakeRepo) UpsertPermission(_ context.Context, perm *entity.DbPermission) error {
	f.perms[perm.Role] = *perm
	return nil
}

// --- categories ---

func (f *fakeRepo) CreateCategory(_ context.Context, category *entity.DbCategory) error {
	category.ID = f.id()
	f.categories[category.ID] = *category
	return nil
}

func (f *fakeRepo) GetCategory(_ context.Context, id uint) (*entity.DbCategory, error) {
	cat, ok := f.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := cat
	return &c, nil
}

func (f *fakeRepo) UpdateCategory(_ context.Context, id uint, updates map[string]interface{}) error {
	cat, ok := f.categories[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["name"]; ok {
		cat.Name = v.(string)
	}
	if v, ok := updates["parent_id"]; ok {
		if v == nil {
			cat.ParentID = nil
		} else {
			cat.ParentID = v.(*uint)
		}
	}
	f.categories[id] = cat
	return nil
}

func (f *fakeRepo) DeleteCategory(_ context.Context, id uint) error {
	if _, ok := f.categories[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeRepo) ListCategories(_ context.Context) ([]entity.DbCategory, error) {
	categories := make([]entity.DbCategory, 0, len(f.categories))
	for _, cat := range f.categories {
		categories = append(categories, cat)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

// --- posts ---

func (f *fakeRepo) CreatePost(_ context.Context, post *entity.DbPost) error {
	post.ID = f.id()
	post.CreatedAt = time.Now()
	f.posts[post.ID] = *post
	return nil
}

func (f *fakeRepo) GetPost(_ context.Context, id uint) (*entity.DbPost, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p := post
	return &p, nil
}

func (f *fakeRepo) GetPostBySlug(_ context.Context, slug string) (*entity.DbPost, error) {
	var found *entity.DbPost
	for _, post := range f.posts {
		if post.Slug == slug {
			p := post
			if found == nil || p.ID > found.ID {
				found = &p
			}
		}
	}
	if found == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return found, nil
}

func (f *fakeRepo) UpdatePost(_ context.Context, id uint, updates map[string]interface{}) error {
	post, ok := f.posts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["title"]; ok {
		post.Title = v.(string)
	}
	if v, ok := updates["content"]; ok {
		post.Content = v.(string)
	}
	if v, ok := updates["status"]; ok {
		post.Status = v.(string)
	}
	if v, ok := updates["thumbnail"]; ok {
		post.Thumbnail = v.(string)
	}
	if v, ok := updates["tags"]; ok {
		post.Tags = v.(entity.StringArray)
	}
	if v, ok := updates["categories"]; ok {
		post.Categories = v.(entity.UintArray)
	}
	if v, ok := updates["slug"]; ok {
		post.Slug = v.(string)
	}
	f.posts[id] = post
	return nil
}

func (f *fakeRepo) DeletePost(_ context.Context, id uint) error {
	if _, ok := f.posts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakeRepo) ListPosts(_ context.Context, params *entity.PostQuery) ([]entity.DbPost, *entity.Meta, error) {
	posts := make([]entity.DbPost, 0, len(f.posts))
	for _, post := range f.posts {
		if params != nil && params.Status != "" && post.Status != params.Status {
			continue
		}
		if params != nil && params.AuthorID != 0 && post.AuthorID != params.AuthorID {
			continue
		}
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID > posts[j].ID })
	return posts, &entity.Meta{Total: int64(len(posts)), Page: 1, PageSize: 20}, nil
}

// --- otp challenges ---

func (f *fakeRepo) GetOtpChallenge(_ context.Context, email string) (*entity.DbOtpChallenge, error) {
	challenge, ok := f.otps[strings.ToLower(email)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := challenge
	return &c, nil
}

func (f *fakeRepo) UpsertOtpChallenge(_ context.Context, challenge *entity.DbOtpChallenge) error {
	f.otps[strings.ToLower(challenge.Email)] = *challenge
	return nil
}

func (f *fakeRepo) DeleteOtpChallenge(_ context.Context, email string) error {
	delete(f.otps, strings.ToLower(email))
	return nil
}

func (f *fakeRepo) DeleteExpiredOtpChallenges(_ context.Context, now time.Time) error {
	for email, challenge := range f.otps {
		if challenge.ExpiresAt.Before(now) {
			delete(f.otps, email)
		}
	}
	return nil
}
