package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/security"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	store  *memStore
	mail   *fakeMail
	tokens *security.TokenIssuer
	auth   *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	f := &authFixture{
		store:  newMemStore(),
		mail:   &fakeMail{},
		tokens: security.NewTokenIssuer("service-test-secret", time.Hour),
	}

	auth, err := NewAuthService(f.store, security.NewPasswordHasher(bcrypt.MinCost), f.tokens, f.mail, zerolog.Nop())
	require.NoError(t, err)
	f.auth = auth

	return f
}

func TestRegisterThenLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	reg, err := f.auth.Register(ctx, "alice@example.com", "secret1", domain.RoleCandidate)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", reg.User.Email)
	assert.Equal(t, domain.RoleCandidate, reg.User.Role)
	assert.NotEqual(t, "secret1", reg.User.PasswordHash)
	assert.NotEmpty(t, reg.AccessToken)

	login, err := f.auth.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	claims, err := f.tokens.Verify(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "CANDIDATE", claims.Role)
}

func TestRegisterPublishesWelcomeMail(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.auth.Register(context.Background(), "bob@example.com", "secret1", domain.RoleCompany)
	require.NoError(t, err)

	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, domain.MailTypeWelcome, f.mail.sent[0].Type)
	assert.Equal(t, "bob@example.com", f.mail.sent[0].To)
}

func TestRegisterSucceedsWhenMailQueueIsDown(t *testing.T) {
	f := newAuthFixture(t)
	f.mail.err = errors.New("channel closed")

	res, err := f.auth.Register(context.Background(), "bob@example.com", "secret1", domain.RoleCompany)
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, "alice@example.com", "secret1", domain.RoleCandidate)
	require.NoError(t, err)

	_, err = f.auth.Register(ctx, "alice@example.com", "other-password", domain.RoleCompany)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Len(t, f.store.users, 1)
}

// racingStore 模拟两个请求同时通过邮箱检查的情况
type racingStore struct {
	*memStore
}

func (racingStore) CheckEmailIfExists(context.Context, string) (bool, error) {
	return false, nil
}

func TestRegisterRaceIsReportedAsConflict(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	auth, err := NewAuthService(racingStore{f.store}, security.NewPasswordHasher(bcrypt.MinCost), f.tokens, f.mail, zerolog.Nop())
	require.NoError(t, err)

	_, err = auth.Register(ctx, "alice@example.com", "secret1", domain.RoleCandidate)
	require.NoError(t, err)

	_, err = auth.Register(ctx, "alice@example.com", "secret1", domain.RoleCandidate)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.Len(t, f.store.users, 1)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, "alice@example.com", "secret1", domain.RoleCandidate)
	require.NoError(t, err)

	_, wrongPassword := f.auth.Login(ctx, "alice@example.com", "wrong")
	_, unknownEmail := f.auth.Login(ctx, "nobody@example.com", "secret1")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword, unknownEmail)
	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(wrongPassword))
}

func TestValidateUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	reg, err := f.auth.Register(ctx, "alice@example.com", "secret1", domain.RoleCandidate)
	require.NoError(t, err)

	user, err := f.auth.ValidateUser(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, user.ID)

	user, err = f.auth.ValidateUser(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestDeletedIdentityLosesAccess(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	reg, err := f.auth.Register(ctx, "alice@example.com", "secret1", domain.RoleCandidate)
	require.NoError(t, err)

	guard := security.NewGuard(f.tokens, f.auth)
	claims, err := guard.Verify(reg.AccessToken)
	require.NoError(t, err)

	_, err = guard.Resolve(ctx, claims)
	require.NoError(t, err)

	users := NewUserService(f.store, f.store, security.NewPasswordHasher(bcrypt.MinCost))
	require.NoError(t, users.Delete(ctx, reg.User.ID))

	// 令牌本身仍然有效，但对应的用户已经不存在
	claims, err = guard.Verify(reg.AccessToken)
	require.NoError(t, err)
	_, err = guard.Resolve(ctx, claims)
	assert.ErrorIs(t, err, domain.ErrIdentityGone)
	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
}
