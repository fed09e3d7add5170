package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/metrics"
)

type AuthResult struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

type AuthService struct {
	users  UserRepository
	hasher Hasher
	tokens TokenIssuer
	mail   MailPublisher
	logger zerolog.Logger

	// 邮箱不存在时也做一次哈希比较，让两种失败的耗时一致
	dummyHash string
}

func NewAuthService(users UserRepository, hasher Hasher, tokens TokenIssuer, mail MailPublisher, logger zerolog.Logger) (*AuthService, error) {
	dummyHash, err := hasher.Hash("job-board-dummy-password")
	if err != nil {
		return nil, err
	}

	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		mail:      mail,
		logger:    logger,
		dummyHash: dummyHash,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, email, password string, role domain.Role) (*AuthResult, error) {
	exists, err := s.users.CheckEmailIfExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
		return nil, domain.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	// 并发注册同一邮箱时，唯一约束会在这里被转换成 ErrEmailTaken
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
		}
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	// 欢迎邮件发送失败不影响注册结果
	if err := s.mail.Publish(ctx, &domain.MailMessage{
		Type: domain.MailTypeWelcome,
		To:   user.Email,
		Data: domain.WelcomeMailData{Email: user.Email, Role: user.Role},
	}); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("欢迎邮件投递失败")
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	return &AuthResult{User: user, AccessToken: token}, nil
}

// Login 对“邮箱不存在”和“密码错误”返回完全相同的错误
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		_, _ = s.hasher.Verify(s.dummyHash, password)
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return &AuthResult{User: user, AccessToken: token}, nil
}

// ValidateUser 在用户不存在时返回 (nil, nil)，由调用者决定如何处理
func (s *AuthService) ValidateUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
