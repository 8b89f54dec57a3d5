package sql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nirdeshona/internal/entity"

	"gorm.io/gorm/clause"
)

// GetOtpChallenge loads the live challenge for an email, if any.
func (r *GormRepository) GetOtpChallenge(ctx context.Context, email string) (*entity.DbOtpChallenge, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return nil, fmt.Errorf("email is empty")
	}

	var challenge entity.DbOtpChallenge
	if err := r.db.WithContext(ctx).Where("email = ?", trimmed).First(&challenge).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

// UpsertOtpChallenge inserts or replaces the challenge keyed by email.
func (r *GormRepository) UpsertOtpChallenge(ctx context.Context, challenge *entity.DbOtpChallenge) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if challenge == nil {
		return fmt.Errorf("challenge is nil")
	}
	if strings.TrimSpace(challenge.Email) == "" {
		return fmt.Errorf("challenge email is empty")
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"otp", "expires_at"}),
	}).Create(challenge).Error
}

// DeleteOtpChallenge removes the challenge for an email.
func (r *GormRepository) DeleteOtpChallenge(ctx context.Context, email string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return fmt.Errorf("email is empty")
	}
	return r.db.WithContext(ctx).Where("email = ?", trimmed).Delete(&entity.DbOtpChallenge{}).Error
}

// DeleteExpiredOtpChallenges sweeps all challenges past their expiry.
func (r *GormRepository) DeleteExpiredOtpChallenges(ctx context.Context, now time.Time) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	return r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&entity.DbOtpChallenge{}).Error
}
