package mailer

import (
	"fmt"
	"time"

	"nirdeshona/internal/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// SMTPMailer 通过 SMTP 发送验证码邮件，实现 service.Mailer。
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer 根据配置创建邮件发送器。SMTP_HOST 未配置时返回错误，
// 调用方应改用 NewLogMailer。
func NewSMTPMailer(cfg config.Config) (*SMTPMailer, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("smtp host is not configured")
	}
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   from,
	}, nil
}

// SendOtp 发送密码重置验证码。
func (m *SMTPMailer) SendOtp(to, code string, ttl time.Duration) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your password reset code")
	msg.SetBody("text/html", otpBody(code, ttl))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func otpBody(code string, ttl time.Duration) string {
	minutes := int(ttl.Minutes())
	return fmt.Sprintf(`<div style="font-family:sans-serif;max-width:480px;margin:0 auto">
  <h2>Password reset</h2>
  <p>Use this code to reset your password:</p>
  <p style="font-size:28px;font-weight:bold;letter-spacing:6px">%s</p>
  <p>The code expires in %d minutes. If you did not request a reset, ignore this email.</p>
</div>`, code, minutes)
}

// LogMailer 在未配置 SMTP 的开发环境中把验证码写入日志。
type LogMailer struct{}

// SendOtp 仅记录日志，不做实际投递。
func (LogMailer) SendOtp(to, code string, ttl time.Duration) error {
	logrus.WithFields(logrus.Fields{
		"to":  to,
		"otp": code,
		"ttl": ttl.String(),
	}).Warn("smtp is not configured, logging otp instead of mailing it")
	return nil
}
