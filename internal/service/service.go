package service

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/job-board/backend/internal/domain"
)

// 以下接口由 repository.Repository 实现，服务层只依赖自己用到的方法

type UserRepository interface {
	CheckEmailIfExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetAllUsers(ctx context.Context) ([]*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error
}

type ProfileRepository interface {
	GetCompanyProfileByUserID(ctx context.Context, userID string) (*domain.CompanyProfile, error)
	CreateCompanyProfile(ctx context.Context, p *domain.CompanyProfile) error
	UpdateCompanyProfile(ctx context.Context, p *domain.CompanyProfile) error
	GetCandidateProfileByUserID(ctx context.Context, userID string) (*domain.CandidateProfile, error)
	CreateCandidateProfile(ctx context.Context, p *domain.CandidateProfile) error
	UpdateCandidateProfile(ctx context.Context, p *domain.CandidateProfile) error
}

type JobRepository interface {
	GetJobByID(ctx context.Context, id string) (*domain.Job, error)
	ListJobs(ctx context.Context, f domain.JobFilter) ([]*domain.Job, int, error)
	ListJobsByCompanyUser(ctx context.Context, userID string) ([]*domain.Job, error)
	CreateJob(ctx context.Context, job *domain.Job) error
	UpdateJob(ctx context.Context, job *domain.Job) error
	DeleteJob(ctx context.Context, id string) error
}

type ApplicationRepository interface {
	CreateApplication(ctx context.Context, a *domain.Application) error
	ListApplicationsByJob(ctx context.Context, jobID string) ([]*domain.Application, error)
	ListApplicationsByCandidate(ctx context.Context, candidateID string) ([]*domain.Application, error)
}

type Hasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) (bool, error)
}

type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

type MailPublisher interface {
	Publish(ctx context.Context, msg *domain.MailMessage) error
}

type OTPStore interface {
	Set(ctx context.Context, key, code string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
}
