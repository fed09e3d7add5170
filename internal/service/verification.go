package service

import (
	"context"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/job-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/otp"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/utils"
)

const verifyEmailPurpose = "verify_email"

// VerificationService 负责邮箱验证码的发放和确认，验证状态目前不影响任何其它操作
type VerificationService struct {
	users   UserRepository
	otps    OTPStore
	mail    MailPublisher
	ttl     time.Duration
	newCode func() string
}

func NewVerificationService(users UserRepository, otps OTPStore, mail MailPublisher, ttl time.Duration) *VerificationService {
	return &VerificationService{
		users:   users,
		otps:    otps,
		mail:    mail,
		ttl:     ttl,
		newCode: utils.GenerateRandomOTP,
	}
}

func (s *VerificationService) RequestVerification(ctx context.Context, userID string) error {
	user, err := getUser(ctx, s.users, userID)
	if err != nil {
		return err
	}
	if user.IsEmailVerified {
		return domain.ErrEmailAlreadyVerified
	}

	code := s.newCode()
	if err := s.otps.Set(ctx, otp.Key(user.ID, verifyEmailPurpose), code, s.ttl); err != nil {
		return err
	}

	return s.mail.Publish(ctx, &domain.MailMessage{
		Type: domain.MailTypeVerifyEmail,
		To:   user.Email,
		Data: domain.VerifyEmailMailData{
			Email:      user.Email,
			OTP:        code,
			Expiration: int(s.ttl.Minutes()),
		},
	})
}

func (s *VerificationService) ConfirmVerification(ctx context.Context, userID, code string) (*domain.User, error) {
	user, err := getUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}
	if user.IsEmailVerified {
		return nil, domain.ErrEmailAlreadyVerified
	}

	key := otp.Key(user.ID, verifyEmailPurpose)
	stored, err := s.otps.Get(ctx, key)
	if err != nil {
		if errors.Is(err, otp.ErrNotFound) {
			return nil, domain.ErrInvalidOTP
		}
		return nil, err
	}
	if stored != code {
		return nil, domain.ErrInvalidOTP
	}

	user.IsEmailVerified = true
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	// 验证码只能使用一次
	if err := s.otps.Del(ctx, key); err != nil {
		return nil, err
	}

	return user, nil
}
