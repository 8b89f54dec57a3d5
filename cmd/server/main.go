package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"nirdeshona/internal/api"
	"nirdeshona/internal/config"
	"nirdeshona/internal/mailer"
	"nirdeshona/internal/model"
	"nirdeshona/internal/service"
	"nirdeshona/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// 初始化配置
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("Failed to parse config")
		return
	}

	// 初始化logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise repository")
		return
	}

	if err := model.SeedDefaults(context.Background(), repo, cfg); err != nil {
		logrus.WithError(err).Warn("failed to seed default roles")
	}

	store, err := storage.NewStore(cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise storage")
		return
	}

	var otpMailer service.Mailer
	if smtpMailer, err := mailer.NewSMTPMailer(cfg); err == nil {
		otpMailer = smtpMailer
	} else {
		logrus.WithError(err).Warn("falling back to log mailer")
		otpMailer = mailer.LogMailer{}
	}

	httpHandler, err := api.NewHTTPHandler(cfg, repo, store, otpMailer)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise http handler")
		return
	}

	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// 添加中间件
	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", httpHandler.Register)
	authGroup.POST("/login", httpHandler.Login)
	authGroup.POST("/send-otp", httpHandler.SendOtp)
	authGroup.POST("/verify-otp", httpHandler.VerifyOtp)
	authGroup.GET("/me", httpHandler.AuthMiddleware(), httpHandler.Me)

	// 公开只读接口
	apiGroup.GET("/posts/public", httpHandler.PublicListPosts)
	apiGroup.GET("/posts/public/:slug", httpHandler.PublicGetPostBySlug)
	apiGroup.GET("/categories", httpHandler.ListCategories)

	protected := apiGroup.Group("")
	protected.Use(httpHandler.AuthMiddleware())
	protected.GET("/posts", httpHandler.ListPosts)
	protected.POST("/posts", httpHandler.CreatePost)
	protected.GET("/posts/:id", httpHandler.GetPost)
	protected.PUT("/posts/:id", httpHandler.UpdatePost)
	protected.DELETE("/posts/:id", httpHandler.DeletePost)
	protected.POST("/categories", httpHandler.CreateCategory)
	protected.PUT("/categories/:id", httpHandler.UpdateCategory)
	protected.DELETE("/categories/:id", httpHandler.DeleteCategory)
	protected.GET("/roles", httpHandler.ListRoles)
	protected.GET("/permissions", httpHandler.ListPermissions)
	protected.GET("/permissions/:role", httpHandler.GetRolePermission)
	protected.POST("/uploads", httpHandler.UploadFile)

	admin := protected.Group("")
	admin.Use(httpHandler.RequireAdmin())
	admin.POST("/roles", httpHandler.CreateRole)
	admin.DELETE("/roles/:id", httpHandler.DeleteRole)
	admin.POST("/permissions", httpHandler.UpsertPermissions)
	admin.GET("/users", httpHandler.ListUsers)
	admin.PATCH("/users/:id/role", httpHandler.UpdateUserRole)
	admin.DELETE("/users/:id", httpHandler.DeleteUser)

	if localProvider, ok := store.(storage.LocalBaseDirProvider); ok {
		publicPrefix := strings.TrimSpace(cfg.StoragePublicBaseURL)
		if publicPrefix == "" {
			publicPrefix = "/files"
		}
		if !strings.HasPrefix(publicPrefix, "http://") && !strings.HasPrefix(publicPrefix, "https://") {
			if !strings.HasPrefix(publicPrefix, "/") {
				publicPrefix = "/" + publicPrefix
			}
			r.Static(publicPrefix, localProvider.LocalBaseDir())
		}
	}

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	logger.WithField("host", serverHost).Info("服务器启动")
	// 创建HTTP服务器
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  300 * time.Second,
	}
	err = httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Error("服务器启动失败")
	}
}

// CORSMiddleware CORS跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggingMiddleware 日志记录中间件
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		// 处理请求
		c.Next()
		// 记录请求结束
		duration := time.Since(start)
		logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  duration.String(),
			"size":      c.Writer.Size(),
			"client_ip": c.ClientIP(),
		}).Info("http_request")
	}
}
