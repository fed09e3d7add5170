package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/otp"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/security"
	"golang.org/x/crypto/bcrypt"
)

func newUserFixture(t *testing.T) (*memStore, *UserService, *domain.User) {
	t.Helper()

	store := newMemStore()
	hasher := security.NewPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)

	u := &domain.User{Email: "alice@example.com", PasswordHash: hash, Role: domain.RoleCandidate}
	require.NoError(t, store.CreateUser(context.Background(), u))

	return store, NewUserService(store, store, hasher), u
}

func TestFindByIDMissing(t *testing.T) {
	_, users, _ := newUserFixture(t)

	_, err := users.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestUpdateEmail(t *testing.T) {
	store, users, u := newUserFixture(t)
	ctx := context.Background()

	other := &domain.User{Email: "taken@example.com", Role: domain.RoleCompany}
	require.NoError(t, store.CreateUser(ctx, other))

	taken := "taken@example.com"
	_, err := users.Update(ctx, u.ID, UserPatch{Email: &taken})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	store.users[u.ID].IsEmailVerified = true
	fresh := "alice2@example.com"
	updated, err := users.Update(ctx, u.ID, UserPatch{Email: &fresh})
	require.NoError(t, err)
	assert.Equal(t, "alice2@example.com", updated.Email)
	assert.False(t, updated.IsEmailVerified)
	assert.Equal(t, domain.RoleCandidate, updated.Role)
}

func TestUpdateVanishedUser(t *testing.T) {
	_, users, _ := newUserFixture(t)

	email := "x@example.com"
	_, err := users.Update(context.Background(), "missing", UserPatch{Email: &email})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	store, users, u := newUserFixture(t)
	ctx := context.Background()

	err := users.ChangePassword(ctx, u.ID, "wrong", "newsecret")
	assert.ErrorIs(t, err, domain.ErrWrongPassword)

	require.NoError(t, users.ChangePassword(ctx, u.ID, "secret1", "newsecret"))

	ok, err := security.NewPasswordHasher(bcrypt.MinCost).Verify(store.users[u.ID].PasswordHash, "newsecret")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeleteUser(t *testing.T) {
	_, users, u := newUserFixture(t)
	ctx := context.Background()

	require.NoError(t, users.Delete(ctx, u.ID))
	assert.ErrorIs(t, users.Delete(ctx, u.ID), domain.ErrUserNotFound)
}

func TestFindAllUsersHidesHashes(t *testing.T) {
	_, users, _ := newUserFixture(t)

	all, err := users.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotEmpty(t, all[0].PasswordHash)

	b, err := json.Marshal(all)
	require.NoError(t, err)
	assert.NotContains(t, string(b), all[0].PasswordHash)
	assert.NotContains(t, string(b), "password")
}

func TestProfiles(t *testing.T) {
	_, users, u := newUserFixture(t)
	ctx := context.Background()

	_, err := users.UpdateCandidateProfile(ctx, u.ID, CandidateProfilePatch{})
	assert.ErrorIs(t, err, domain.ErrCandidateProfileNotFound)

	p, err := users.CreateCandidateProfile(ctx, u.ID, CandidateProfileInput{FirstName: "Alice", LastName: "Liddell"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.UserID)

	_, err = users.CreateCandidateProfile(ctx, u.ID, CandidateProfileInput{FirstName: "Again"})
	assert.ErrorIs(t, err, domain.ErrCandidateProfileExists)

	bio := "Gopher"
	p, err = users.UpdateCandidateProfile(ctx, u.ID, CandidateProfilePatch{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Gopher", p.Bio)
	assert.Equal(t, "Alice", p.FirstName)

	me, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, me.CandidateProfile)
	assert.Nil(t, me.CompanyProfile)

	_, err = users.UpdateCompanyProfile(ctx, u.ID, CompanyProfilePatch{})
	assert.ErrorIs(t, err, domain.ErrCompanyProfileNotFound)

	c, err := users.CreateCompanyProfile(ctx, u.ID, CompanyProfileInput{CompanyName: "Acme"})
	require.NoError(t, err)
	_, err = users.CreateCompanyProfile(ctx, u.ID, CompanyProfileInput{CompanyName: "Acme"})
	assert.ErrorIs(t, err, domain.ErrCompanyProfileExists)

	loc := "Paris"
	c, err = users.UpdateCompanyProfile(ctx, u.ID, CompanyProfilePatch{Location: &loc})
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.CompanyName)
	assert.Equal(t, "Paris", c.Location)
}

func TestEmailVerification(t *testing.T) {
	store, _, u := newUserFixture(t)
	ctx := context.Background()
	otps := newFakeOTP()
	mail := &fakeMail{}

	v := NewVerificationService(store, otps, mail, 15*time.Minute)
	v.newCode = func() string { return "424242" }

	require.NoError(t, v.RequestVerification(ctx, u.ID))
	require.Len(t, mail.sent, 1)
	assert.Equal(t, domain.MailTypeVerifyEmail, mail.sent[0].Type)
	assert.Equal(t, domain.VerifyEmailMailData{Email: u.Email, OTP: "424242", Expiration: 15}, mail.sent[0].Data)
	assert.Equal(t, "424242", otps.codes[otp.Key(u.ID, "verify_email")])

	_, err := v.ConfirmVerification(ctx, u.ID, "000000")
	assert.ErrorIs(t, err, domain.ErrInvalidOTP)

	user, err := v.ConfirmVerification(ctx, u.ID, "424242")
	require.NoError(t, err)
	assert.True(t, user.IsEmailVerified)
	assert.True(t, store.users[u.ID].IsEmailVerified)
	assert.Empty(t, otps.codes)

	assert.ErrorIs(t, v.RequestVerification(ctx, u.ID), domain.ErrEmailAlreadyVerified)
}

func TestEmailVerificationWithoutCode(t *testing.T) {
	store, _, u := newUserFixture(t)

	v := NewVerificationService(store, newFakeOTP(), &fakeMail{}, time.Minute)
	_, err := v.ConfirmVerification(context.Background(), u.ID, "123456")
	assert.ErrorIs(t, err, domain.ErrInvalidOTP)
}
