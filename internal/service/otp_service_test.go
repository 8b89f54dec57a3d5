package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"nirdeshona/internal/auth"
)

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) SendOtp(to, code string, _ time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, code)
	return nil
}

func otpFixture(t *testing.T) (*fakeRepo, *fakeMailer, *OtpService) {
	t.Helper()
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	svc := NewOtpService(repo, mailer)
	return repo, mailer, svc
}

func TestOtpRequestUnknownEmail(t *testing.T) {
	_, _, svc := otpFixture(t)

	if _, err := svc.Request(context.Background(), "ghost@example.com", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOtpRequestIssuesSixDigitCode(t *testing.T) {
	repo, mailer, svc := otpFixture(t)
	repo.addUser("student@example.com", "student")

	resp, err := svc.Request(context.Background(), " Student@Example.com ", false)
	if err != nil {
		t.Fatalf("Request returned error: %v", err)
	}
	if !resp.Success || resp.AlreadySent {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(mailer.sent) != 1 || len(mailer.sent[0]) != 6 {
		t.Fatalf("expected one 6-digit code to be mailed, got %v", mailer.sent)
	}

	challenge, err := repo.GetOtpChallenge(context.Background(), "student@example.com")
	if err != nil {
		t.Fatalf("challenge not stored: %v", err)
	}
	if challenge.Otp != mailer.sent[0] {
		t.Fatalf("stored code %q differs from mailed code %q", challenge.Otp, mailer.sent[0])
	}
	if ttl := time.Until(challenge.ExpiresAt); ttl <= 9*time.Minute || ttl > OtpTTL {
		t.Fatalf("unexpected expiry window: %v", ttl)
	}
}

func TestOtpRequestAlreadySent(t *testing.T) {
	repo, mailer, svc := otpFixture(t)
	repo.addUser("student@example.com", "student")

	if _, err := svc.Request(context.Background(), "student@example.com", false); err != nil {
		t.Fatalf("first request returned error: %v", err)
	}

	resp, err := svc.Request(context.Background(), "student@example.com", false)
	if err != nil {
		t.Fatalf("second request returned error: %v", err)
	}
	if !resp.AlreadySent {
		t.Fatal("expected already-sent short-circuit")
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("short-circuit must not send mail, got %d sends", len(mailer.sent))
	}
}

func TestOtpRequestResendReplacesCode(t *testing.T) {
	repo, mailer, svc := otpFixture(t)
	repo.addUser("student@example.com", "student")

	if _, err := svc.Request(context.Background(), "student@example.com", false); err != nil {
		t.Fatalf("first request returned error: %v", err)
	}
	first, _ := repo.GetOtpChallenge(context.Background(), "student@example.com")

	resp, err := svc.Request(context.Background(), "student@example.com", true)
	if err != nil {
		t.Fatalf("resend returned error: %v", err)
	}
	if resp.AlreadySent {
		t.Fatal("resend must bypass the already-sent short-circuit")
	}
	if len(mailer.sent) != 2 {
		t.Fatalf("expected two mails, got %d", len(mailer.sent))
	}

	second, _ := repo.GetOtpChallenge(context.Background(), "student@example.com")
	if first.Otp == second.Otp && mailer.sent[0] == mailer.sent[1] {
		// 6 位随机码碰撞概率极低，两者同时相同基本说明没有重新生成
		t.Fatal("resend should issue a fresh code")
	}
}

func TestOtpRequestMailFailureKeepsChallenge(t *testing.T) {
	repo, mailer, svc := otpFixture(t)
	repo.addUser("student@example.com", "student")
	mailer.err = errors.New("smtp down")

	if _, err := svc.Request(context.Background(), "student@example.com", false); err == nil {
		t.Fatal("expected error when mail delivery fails")
	}
	if _, err := repo.GetOtpChallenge(context.Background(), "student@example.com"); err != nil {
		t.Fatalf("challenge should persist after mail failure: %v", err)
	}
}

func TestOtpVerifyResetsPasswordAndConsumesCode(t *testing.T) {
	repo, mailer, svc := otpFixture(t)
	user := repo.addUser("student@example.com", "student")

	if _, err := svc.Request(context.Background(), "student@example.com", false); err != nil {
		t.Fatalf("Request returned error: %v", err)
	}
	code := mailer.sent[0]

	if err := svc.Verify(context.Background(), "student@example.com", code, "fresh-password"); err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}

	updated, _ := repo.GetUserByID(context.Background(), user.ID)
	if err := auth.VerifyPassword(updated.PasswordHash, "fresh-password"); err != nil {
		t.Fatalf("new password does not verify: %v", err)
	}

	// 单次使用：重放同一验证码必须失败
	if err := svc.Verify(context.Background(), "student@example.com", code, "another-pass"); !errors.Is(err, ErrInvalidOtp) {
		t.Fatalf("expected ErrInvalidOtp on replay, got %v", err)
	}
}

func TestOtpVerifyWrongCode(t *testing.T) {
	repo, mailer, svc := otpFixture(t)
	repo.addUser("student@example.com", "student")

	if _, err := svc.Request(context.Background(), "student@example.com", false); err != nil {
		t.Fatalf("Request returned error: %v", err)
	}

	wrong := "000000"
	if wrong == mailer.sent[0] {
		wrong = "000001"
	}
	if err := svc.Verify(context.Background(), "student@example.com", wrong, "fresh-password"); !errors.Is(err, ErrInvalidOtp) {
		t.Fatalf("expected ErrInvalidOtp, got %v", err)
	}
}

func TestOtpVerifyExpiredCode(t *testing.T) {
	repo, mailer, svc := otpFixture(t)
	repo.addUser("student@example.com", "student")

	if _, err := svc.Request(context.Background(), "student@example.com", false); err != nil {
		t.Fatalf("Request returned error: %v", err)
	}

	// 把时钟拨到有效期之后
	svc.now = func() time.Time { return time.Now().Add(OtpTTL + time.Minute) }

	if err := svc.Verify(context.Background(), "student@example.com", mailer.sent[0], "fresh-password"); !errors.Is(err, ErrExpiredOtp) {
		t.Fatalf("expected ErrExpiredOtp, got %v", err)
	}
}

func TestOtpExpiredChallengeSweptOnNextRequest(t *testing.T) {
	repo, mailer, svc := otpFixture(t)
	repo.addUser("student@example.com", "student")

	if _, err := svc.Request(context.Background(), "student@example.com", false); err != nil {
		t.Fatalf("Request returned error: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(OtpTTL + time.Minute) }

	// 过期后的新请求应清扫旧记录并签发新码，而不是 already-sent
	resp, err := svc.Request(context.Background(), "student@example.com", false)
	if err != nil {
		t.Fatalf("Request after expiry returned error: %v", err)
	}
	if resp.AlreadySent {
		t.Fatal("expired challenge must not trigger already-sent")
	}
	if len(mailer.sent) != 2 {
		t.Fatalf("expected a fresh code to be mailed, got %d sends", len(mailer.sent))
	}
}
