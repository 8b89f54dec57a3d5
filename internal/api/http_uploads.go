package api

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"nirdeshona/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 上传大小上限 5MB
const maxUploadBytes = 5 << 20

// UploadFile 接收 multipart 上传并写入存储后端，
// 返回对象键和可直接引用的公共 URL。kind 取 thumbnail 或 avatar。
func (h *HTTPHandler) UploadFile(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "missing file field")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		ErrorResponse(c, http.StatusRequestEntityTooLarge, ErrCodeUploadTooLarge, "file exceeds upload limit")
		return
	}

	kind := storage.KindThumbnail
	if strings.EqualFold(strings.TrimSpace(c.PostForm("kind")), "avatar") {
		kind = storage.KindAvatar
	}

	file, err := fileHeader.Open()
	if err != nil {
		logrus.WithError(err).Error("failed to open uploaded file")
		InternalError(c, "failed to read upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		logrus.WithError(err).Error("failed to read uploaded file")
		InternalError(c, "failed to read upload")
		return
	}
	if len(data) > maxUploadBytes {
		ErrorResponse(c, http.StatusRequestEntityTooLarge, ErrCodeUploadTooLarge, "file exceeds upload limit")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	key, err := h.store.Put(ctx, data, storage.PutOptions{
		Kind: kind,
		Ext:  strings.TrimPrefix(filepath.Ext(fileHeader.Filename), "."),
	})
	if err != nil {
		logrus.WithError(err).Error("failed to store upload")
		InternalError(c, "failed to store upload")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"key": key,
		"url": h.publicURL(key),
	})
}
