package storage

import (
	"context"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"nirdeshona/internal/config"
)

const (
	// TypeLocal 表示本地文件系统存储。
	TypeLocal = "local"
	// TypeS3 表示 Amazon S3 或兼容的存储后端。
	TypeS3 = "s3"
	// TypeOSS 表示阿里云 OSS 存储。
	TypeOSS = "oss"
	// TypeCOS 表示腾讯云 COS 存储。
	TypeCOS = "cos"
	// TypeR2 表示 Cloudflare R2 存储。
	TypeR2 = "r2"
)

// 上传文件的分类目录。
const (
	KindThumbnail = "thumbnails"
	KindAvatar    = "avatars"
)

// PutOptions 控制上传对象的落盘位置。Kind 是顶层目录（缩略图、头像），
// Ext 提示文件扩展名（不含前导点），为空时按 bin 处理。
type PutOptions struct {
	Kind string
	Ext  string
}

// Store 持久化二进制数据并返回对象键（本地存储时为相对路径）。
type Store interface {
	Put(ctx context.Context, data []byte, opts PutOptions) (string, error)
}

// LocalBaseDirProvider 由本地驱动实现，暴露可直接通过 HTTP 提供服务的目录。
type LocalBaseDirProvider interface {
	LocalBaseDir() string
}

// NewStore 根据配置实例化存储后端。
func NewStore(cfg config.Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.StorageType)) {
	case "", TypeLocal:
		return NewLocalStore(cfg.StorageLocalDir)
	case TypeS3:
		return NewS3Store(cfg)
	case TypeOSS:
		return NewOSSStore(cfg)
	case TypeCOS:
		return NewCOSStore(cfg)
	case TypeR2:
		return NewR2Store(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}

func sanitizeSegment(value string) string {
	value = strings.TrimSpace(value)
	builder := strings.Builder{}
	builder.Grow(len(value))
	for i := 0; i < len(value); i++ {
		ch := value[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
			builder.WriteByte(ch)
		case ch >= 'A' && ch <= 'Z':
			builder.WriteByte(ch + 32)
		case ch == '-', ch == '_':
			builder.WriteByte(ch)
		}
	}
	return builder.String()
}

func normalizeExt(ext string) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if trimmed == "" {
		return "bin"
	}
	if sanitized := sanitizeSegment(trimmed); sanitized != "" {
		return sanitized
	}
	return "bin"
}

// buildObjectKey 生成 kind/yyyy/mm/dd/<nanots>.<ext> 形式的对象键。
func buildObjectKey(opts PutOptions) string {
	now := time.Now().UTC()
	kind := sanitizeSegment(opts.Kind)
	if kind == "" {
		kind = "misc"
	}
	datedir := fmt.Sprintf("%04d/%02d/%02d", now.Year(), now.Month(), now.Day())
	filename := fmt.Sprintf("%d.%s", now.UnixNano(), normalizeExt(opts.Ext))
	return path.Join(kind, datedir, filename)
}

func detectContentType(ext string) string {
	typeName := mime.TypeByExtension("." + normalizeExt(ext))
	if typeName == "" {
		return "application/octet-stream"
	}
	return typeName
}

func joinPrefix(prefix, key string) string {
	clean := trimPrefix(prefix)
	if clean == "" {
		return strings.TrimLeft(key, "/")
	}
	return path.Join(clean, strings.TrimLeft(key, "/"))
}

func trimPrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}
