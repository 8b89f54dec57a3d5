package api

import (
	"context"
	"net/http"
	"time"

	"nirdeshona/internal/entity"

	"github.com/gin-gonic/gin"
)

// otp 请求涉及发信，超时给得比普通接口宽一些
const otpRequestTimeout = 15 * time.Second

// SendOtp 为指定邮箱签发密码重置验证码。
func (h *HTTPHandler) SendOtp(c *gin.Context) {
	var req entity.OtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), otpRequestTimeout)
	defer cancel()

	resp, err := h.otpService.Request(ctx, req.Email, req.Resend)
	if err != nil {
		ServiceError(c, err, "failed to send otp")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// VerifyOtp 校验验证码并重置密码。
func (h *HTTPHandler) VerifyOtp(c *gin.Context) {
	var req entity.OtpVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.otpService.Verify(ctx, req.Email, req.Otp, req.NewPassword); err != nil {
		ServiceError(c, err, "failed to verify otp")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "password has been reset"})
}
