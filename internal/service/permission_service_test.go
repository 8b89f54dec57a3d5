package service

import (
	"context"
	"errors"
	"testing"

	"nirdeshona/internal/entity"
)

func TestPermissionGetDefaultDeny(t *testing.T) {
	repo := newFakeRepo()
	repo.addRole("student", "Student")
	svc := NewPermissionService(repo)

	// 已注册但没有权限行的角色
	perm, err := svc.Get(context.Background(), "student")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if perm == nil {
		t.Fatal("Get must never return nil")
	}
	if perm.CanCreate || perm.CanEditOwn || perm.CanEditAny || perm.CanDelete || perm.CanPublish ||
		perm.CanCreateCategory || perm.CanEditCategory || perm.CanDeleteCategory {
		t.Fatalf("role without a stored row must be all-false, got %+v", perm)
	}
}

func TestPermissionGetUnregisteredRole(t *testing.T) {
	repo := newFakeRepo()
	repo.perms["ghost"] = entity.DbPermission{Role: "ghost", CanCreate: true, CanDelete: true}
	svc := NewPermissionService(repo)

	// 权限行存在但角色未注册，同样全否
	perm, err := svc.Get(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if perm.CanCreate || perm.CanDelete {
		t.Fatalf("unregistered role must be all-false, got %+v", perm)
	}
}

func TestPermissionGetStoredRow(t *testing.T) {
	repo := newFakeRepo()
	repo.addRole("teacher", "Teacher")
	repo.perms["teacher"] = entity.DbPermission{Role: "teacher", CanCreate: true, CanEditOwn: true}
	svc := NewPermissionService(repo)

	perm, err := svc.Get(context.Background(), " Teacher ")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !perm.CanCreate || !perm.CanEditOwn || perm.CanEditAny {
		t.Fatalf("unexpected flags: %+v", perm)
	}
}

func TestPermissionUpsertOverwritesRow(t *testing.T) {
	repo := newFakeRepo()
	repo.addRole("teacher", "Teacher")
	repo.perms["teacher"] = entity.DbPermission{Role: "teacher", CanCreate: true, CanPublish: true}
	svc := NewPermissionService(repo)

	err := svc.Upsert(context.Background(), []entity.DbPermission{
		{Role: "teacher", CanEditOwn: true},
	})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	stored := repo.perms["teacher"]
	if stored.CanCreate || stored.CanPublish {
		t.Fatalf("upsert must fully overwrite the row, got %+v", stored)
	}
	if !stored.CanEditOwn {
		t.Fatalf("new flag missing after upsert: %+v", stored)
	}
}

func TestPermissionUpsertEmpty(t *testing.T) {
	repo := newFakeRepo()
	svc := NewPermissionService(repo)

	if err := svc.Upsert(context.Background(), nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCanEditPost(t *testing.T) {
	tests := []struct {
		name     string
		perm     *entity.DbPermission
		authorID uint
		callerID uint
		want     bool
	}{
		{"nil permission", nil, 1, 1, false},
		{"edit any over foreign post", &entity.DbPermission{CanEditAny: true}, 1, 2, true},
		{"edit own over own post", &entity.DbPermission{CanEditOwn: true}, 3, 3, true},
		{"edit own over foreign post", &entity.DbPermission{CanEditOwn: true}, 1, 2, false},
		{"no edit flags", &entity.DbPermission{CanCreate: true}, 3, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanEditPost(tt.perm, tt.authorID, tt.callerID); got != tt.want {
				t.Fatalf("CanEditPost = %v, want %v", got, tt.want)
			}
		})
	}
}
