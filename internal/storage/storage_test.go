package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildObjectKey(t *testing.T) {
	key := buildObjectKey(PutOptions{Kind: "Thumbnails!", Ext: ".PNG"})
	if !strings.HasPrefix(key, "thumbnails/") {
		t.Fatalf("expected sanitized kind prefix, got %q", key)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Fatalf("expected normalized extension, got %q", key)
	}

	key = buildObjectKey(PutOptions{})
	if !strings.HasPrefix(key, "misc/") || !strings.HasSuffix(key, ".bin") {
		t.Fatalf("expected misc/... .bin fallback, got %q", key)
	}
}

func TestJoinPrefix(t *testing.T) {
	tests := []struct {
		prefix string
		key    string
		want   string
	}{
		{"", "a/b.png", "a/b.png"},
		{"/uploads/", "a/b.png", "uploads/a/b.png"},
		{"uploads", "/a/b.png", "uploads/a/b.png"},
	}
	for _, tt := range tests {
		if got := joinPrefix(tt.prefix, tt.key); got != tt.want {
			t.Errorf("joinPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
		}
	}
}

func TestLocalStorePut(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("NewLocalStore returned error: %v", err)
	}

	key, err := store.Put(context.Background(), []byte("payload"), PutOptions{Kind: KindAvatar, Ext: "jpg"})
	if err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	if err != nil {
		t.Fatalf("stored file not readable: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("unexpected file contents: %q", data)
	}

	if _, err := store.Put(context.Background(), nil, PutOptions{Kind: KindAvatar}); err == nil {
		t.Fatal("expected error for empty payload")
	}
}
