package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"nirdeshona/internal/auth"
	"nirdeshona/internal/entity"
	"nirdeshona/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// OtpTTL 是验证码的有效期。
const OtpTTL = 10 * time.Minute

// Mailer 发送验证码邮件。投递失败会让整次请求失败。
type Mailer interface {
	SendOtp(to, code string, ttl time.Duration) error
}

// OtpService 实现基于一次性验证码的密码找回。
// 每个邮箱至多一条有效挑战，状态机：无挑战 → 已签发 → （验证成功 | 过期）。
type OtpService struct {
	repo   model.Repository
	mailer Mailer
	now    func() time.Time
}

// NewOtpService 创建验证码服务实例
func NewOtpService(repo model.Repository, mailer Mailer) *OtpService {
	return &OtpService{
		repo:   repo,
		mailer: mailer,
		now:    time.Now,
	}
}

// Request issues a reset code for the account behind email. With resend set
// to false, a still-valid existing code short-circuits to "already sent" so
// repeated form submits do not spam the inbox.
func (s *OtpService) Request(ctx context.Context, email string, resend bool) (*entity.OtpRequestResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}

	if _, err := s.repo.GetUserByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no account for %s", ErrNotFound, email)
		}
		return nil, err
	}

	now := s.now()

	// 懒清理：每次新请求顺带删除所有已过期的挑战
	if err := s.repo.DeleteExpiredOtpChallenges(ctx, now); err != nil {
		logrus.WithError(err).Warn("failed to sweep expired otp challenges")
	}

	existing, err := s.repo.GetOtpChallenge(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil && existing.ExpiresAt.After(now) && !resend {
		return &entity.OtpRequestResponse{
			Success:     true,
			AlreadySent: true,
			Message:     "We already sent you an OTP. Check your email, or click resend.",
		}, nil
	}

	code, err := generateOtpCode()
	if err != nil {
		return nil, err
	}

	challenge := &entity.DbOtpChallenge{
		Email:     email,
		Otp:       code,
		ExpiresAt: now.Add(OtpTTL),
	}
	if err := s.repo.UpsertOtpChallenge(ctx, challenge); err != nil {
		return nil, err
	}

	// 先持久化后投递；投递失败时保留已写入的验证码并让本次请求整体失败
	if err := s.mailer.SendOtp(email, code, OtpTTL); err != nil {
		return nil, fmt.Errorf("send otp mail: %w", err)
	}

	return &entity.OtpRequestResponse{Success: true}, nil
}

// Verify checks the submitted code and, on success, resets the account
// password and consumes the challenge. A consumed code cannot be replayed.
func (s *OtpService) Verify(ctx context.Context, email, code, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	code = strings.TrimSpace(code)
	if email == "" || code == "" || strings.TrimSpace(newPassword) == "" {
		return fmt.Errorf("%w: email, otp and new password are required", ErrValidation)
	}

	challenge, err := s.repo.GetOtpChallenge(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: no challenge for %s", ErrInvalidOtp, email)
		}
		return err
	}

	if challenge.Otp != code {
		return fmt.Errorf("%w: code mismatch", ErrInvalidOtp)
	}
	if s.now().After(challenge.ExpiresAt) {
		return fmt.Errorf("%w: challenge for %s", ErrExpiredOtp, email)
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: no account for %s", ErrNotFound, email)
		}
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.repo.UpdateUser(ctx, user.ID, map[string]interface{}{"password_hash": hash}); err != nil {
		return err
	}

	// 单次使用：验证成功后立即删除挑战，重放同一验证码将失败
	if err := s.repo.DeleteOtpChallenge(ctx, email); err != nil {
		logrus.WithError(err).WithField("email", email).Warn("failed to delete consumed otp challenge")
	}
	return nil
}

// generateOtpCode 生成 [100000, 999999] 内均匀分布的 6 位验证码。
func generateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
