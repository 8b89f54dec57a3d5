package entity

import "time"

// DbOtpChallenge 是一次密码重置挑战。每个邮箱至多存在一条记录，
// 新请求通过 upsert 覆盖旧验证码。
type DbOtpChallenge struct {
	Email     string    `gorm:"column:email;type:varchar(255);primaryKey" json:"email"`
	Otp       string    `gorm:"column:otp;type:varchar(6);not null" json:"-"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null" json:"expires_at"`
}

// TableName 指定表名。
func (DbOtpChallenge) TableName() string {
	return "otp_challenges"
}

type OtpRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Resend bool   `json:"resend"`
}

type OtpVerifyRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Otp         string `json:"otp" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// OtpRequestResponse 的 AlreadySent 表示已有未过期验证码且本次未重新生成。
type OtpRequestResponse struct {
	Success     bool   `json:"success"`
	AlreadySent bool   `json:"otp_already_sent"`
	Message     string `json:"message,omitempty"`
}
