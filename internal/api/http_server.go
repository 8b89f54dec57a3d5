package api

import (
	"fmt"
	"strings"
	"time"

	"nirdeshona/internal/auth"
	"nirdeshona/internal/config"
	"nirdeshona/internal/model"
	"nirdeshona/internal/service"
	"nirdeshona/internal/storage"
)

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg               config.Config
	repo              model.Repository
	store             storage.Store
	storagePublicBase string
	authManager       *auth.Manager

	// 服务层
	roleService       *service.RoleService
	permissionService *service.PermissionService
	categoryService   *service.CategoryService
	postService       *service.PostService
	otpService        *service.OtpService
}

// NewHTTPHandler 创建 HTTP 处理器实例
func NewHTTPHandler(cfg config.Config, repo model.Repository, store storage.Store, mailer service.Mailer) (*HTTPHandler, error) {
	expiry := time.Duration(cfg.JWTExpirationMinutes) * time.Minute
	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, expiry)
	if err != nil {
		return nil, err
	}

	permissionSvc := service.NewPermissionService(repo)

	return &HTTPHandler{
		cfg:               cfg,
		repo:              repo,
		store:             store,
		storagePublicBase: normalisePublicBase(cfg.StoragePublicBaseURL),
		authManager:       authManager,
		roleService:       service.NewRoleService(repo),
		permissionService: permissionSvc,
		categoryService:   service.NewCategoryService(repo, permissionSvc),
		postService:       service.NewPostService(repo, permissionSvc),
		otpService:        service.NewOtpService(repo, mailer),
	}, nil
}

// normalisePublicBase 规范化公共 URL 基础路径
func normalisePublicBase(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = "/files"
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return strings.TrimRight(trimmed, "/")
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}

func (h *HTTPHandler) publicURL(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	return fmt.Sprintf("%s/%s", h.storagePublicBase, strings.TrimLeft(trimmed, "/"))
}
