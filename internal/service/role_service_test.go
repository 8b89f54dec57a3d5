package service

import (
	"context"
	"errors"
	"testing"

	"nirdeshona/internal/entity"
)

func TestRoleCreateAndList(t *testing.T) {
	repo := newFakeRepo()
	repo.addRole("admin", "Administrator")
	svc := NewRoleService(repo)

	role, err := svc.Create(context.Background(), "  Editor ", "Content Editor")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if role.Name != "editor" {
		t.Fatalf("expected lowercased name editor, got %q", role.Name)
	}

	roles, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(roles) != 2 {
		t.Fatalf("expected 2 roles, got %d", len(roles))
	}
}

func TestRoleCreateRejectsReservedAdmin(t *testing.T) {
	repo := newFakeRepo()
	repo.addRole("admin", "Administrator")
	svc := NewRoleService(repo)

	if _, err := svc.Create(context.Background(), "Admin", "Shadow Admin"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for reserved name, got %v", err)
	}
}

func TestRoleCreateRejectsDuplicate(t *testing.T) {
	repo := newFakeRepo()
	repo.addRole("editor", "Editor")
	svc := NewRoleService(repo)

	if _, err := svc.Create(context.Background(), "editor", "Editor Again"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate name, got %v", err)
	}
}

func TestRoleDeleteProtectsAdmin(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addRole("admin", "Administrator")
	svc := NewRoleService(repo)

	if err := svc.Delete(context.Background(), admin.ID, admin.Name); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for admin, got %v", err)
	}
	if _, err := repo.GetRoleByName(context.Background(), "admin"); err != nil {
		t.Fatalf("admin role must survive delete attempts: %v", err)
	}
}

func TestRoleDeleteRemovesPermissionRow(t *testing.T) {
	repo := newFakeRepo()
	role := repo.addRole("editor", "Editor")
	repo.perms["editor"] = entity.DbPermission{Role: "editor", CanCreate: true}
	svc := NewRoleService(repo)

	if err := svc.Delete(context.Background(), role.ID, role.Name); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok := repo.perms["editor"]; ok {
		t.Fatal("permission row should be removed with the role")
	}
}

func TestRoleDeleteMissing(t *testing.T) {
	repo := newFakeRepo()
	svc := NewRoleService(repo)

	if err := svc.Delete(context.Background(), 42, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
