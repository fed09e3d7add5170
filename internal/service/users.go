package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sysu-ecnc-dev/job-board/backend/internal/domain"
)

type UserPatch struct {
	Email *string
}

type CompanyProfileInput struct {
	CompanyName string
	Description string
	Website     string
	LogoURL     string
	Location    string
}

type CompanyProfilePatch struct {
	CompanyName *string
	Description *string
	Website     *string
	LogoURL     *string
	Location    *string
}

type CandidateProfileInput struct {
	FirstName string
	LastName  string
	Phone     string
	Bio       string
	ResumeURL string
}

type CandidateProfilePatch struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Bio       *string
	ResumeURL *string
}

// UserService 的所有方法都只接受从令牌中解析出的用户 ID，从不使用请求参数中的 ID
type UserService struct {
	users    UserRepository
	profiles ProfileRepository
	hasher   Hasher
}

func NewUserService(users UserRepository, profiles ProfileRepository, hasher Hasher) *UserService {
	return &UserService{
		users:    users,
		profiles: profiles,
		hasher:   hasher,
	}
}

func (s *UserService) FindAll(ctx context.Context) ([]*domain.User, error) {
	return s.users.GetAllUsers(ctx)
}

func (s *UserService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return getUser(ctx, s.users, id)
}

func getUser(ctx context.Context, users UserRepository, id string) (*domain.User, error) {
	user, err := users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Update 修改邮箱后需要重新验证
func (s *UserService) Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil && *patch.Email != user.Email {
		exists, err := s.users.CheckEmailIfExists(ctx, *patch.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrEmailTaken
		}
		user.Email = *patch.Email
		user.IsEmailVerified = false
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(user.PasswordHash, oldPassword)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrWrongPassword
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	if err := s.users.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return err
	}

	return nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *UserService) CreateCompanyProfile(ctx context.Context, userID string, in CompanyProfileInput) (*domain.CompanyProfile, error) {
	if _, err := s.profiles.GetCompanyProfileByUserID(ctx, userID); err == nil {
		return nil, domain.ErrCompanyProfileExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	p := &domain.CompanyProfile{
		UserID:      userID,
		CompanyName: in.CompanyName,
		Description: in.Description,
		Website:     in.Website,
		LogoURL:     in.LogoURL,
		Location:    in.Location,
	}
	if err := s.profiles.CreateCompanyProfile(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *UserService) UpdateCompanyProfile(ctx context.Context, userID string, patch CompanyProfilePatch) (*domain.CompanyProfile, error) {
	p, err := s.profiles.GetCompanyProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCompanyProfileNotFound
		}
		return nil, err
	}

	applyString(&p.CompanyName, patch.CompanyName)
	applyString(&p.Description, patch.Description)
	applyString(&p.Website, patch.Website)
	applyString(&p.LogoURL, patch.LogoURL)
	applyString(&p.Location, patch.Location)

	if err := s.profiles.UpdateCompanyProfile(ctx, p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCompanyProfileNotFound
		}
		return nil, err
	}

	return p, nil
}

func (s *UserService) CreateCandidateProfile(ctx context.Context, userID string, in CandidateProfileInput) (*domain.CandidateProfile, error) {
	if _, err := s.profiles.GetCandidateProfileByUserID(ctx, userID); err == nil {
		return nil, domain.ErrCandidateProfileExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	p := &domain.CandidateProfile{
		UserID:    userID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Bio:       in.Bio,
		ResumeURL: in.ResumeURL,
	}
	if err := s.profiles.CreateCandidateProfile(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *UserService) UpdateCandidateProfile(ctx context.Context, userID string, patch CandidateProfilePatch) (*domain.CandidateProfile, error) {
	p, err := s.profiles.GetCandidateProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCandidateProfileNotFound
		}
		return nil, err
	}

	applyString(&p.FirstName, patch.FirstName)
	applyString(&p.LastName, patch.LastName)
	applyString(&p.Phone, patch.Phone)
	applyString(&p.Bio, patch.Bio)
	applyString(&p.ResumeURL, patch.ResumeURL)

	if err := s.profiles.UpdateCandidateProfile(ctx, p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCandidateProfileNotFound
		}
		return nil, err
	}

	return p, nil
}

func applyString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
