package service

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/sysu-ecnc-dev/job-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/utils"
)

type JobInput struct {
	Title       string
	Description string
	Location    string
	SalaryMin   *int
	SalaryMax   *int
	Experience  string
	Type        domain.JobType
}

// JobPatch 中为 nil 的字段保持不变，ClearSalaryMin/ClearSalaryMax 为 true 时把对应薪资置空
type JobPatch struct {
	Title          *string
	Description    *string
	Location       *string
	SalaryMin      *int
	SalaryMax      *int
	ClearSalaryMin bool
	ClearSalaryMax bool
	Experience     *string
	Type           *domain.JobType
}

type JobService struct {
	jobs         JobRepository
	profiles     ProfileRepository
	applications ApplicationRepository
}

func NewJobService(jobs JobRepository, profiles ProfileRepository, applications ApplicationRepository) *JobService {
	return &JobService{
		jobs:         jobs,
		profiles:     profiles,
		applications: applications,
	}
}

// Create 要求操作者已经创建了公司资料，职位归属于公司资料而不是用户
func (s *JobService) Create(ctx context.Context, in JobInput, actingUserID string) (*domain.Job, error) {
	if err := utils.ValidateSalaryRange(in.SalaryMin, in.SalaryMax); err != nil {
		return nil, err
	}

	company, err := s.profiles.GetCompanyProfileByUserID(ctx, actingUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCompanyProfileRequired
		}
		return nil, err
	}

	if in.Type == "" {
		in.Type = domain.JobTypeFullTime
	}

	job := &domain.Job{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		SalaryMin:   in.SalaryMin,
		SalaryMax:   in.SalaryMax,
		Experience:  in.Experience,
		Type:        in.Type,
		CompanyID:   company.ID,
	}
	if err := s.jobs.CreateJob(ctx, job); err != nil {
		return nil, err
	}

	job.Company = &domain.CompanySummary{
		ID:          company.ID,
		CompanyName: company.CompanyName,
		LogoURL:     company.LogoURL,
		UserID:      company.UserID,
	}

	metrics.JobsCreatedTotal.WithLabelValues(string(job.Type)).Inc()
	return job, nil
}

// FindAll 中 Page 和 Limit 为 0 表示使用默认值，小于 0 视为非法输入
func (s *JobService) FindAll(ctx context.Context, f domain.JobFilter) (*domain.JobPage, error) {
	if f.Page == 0 {
		f.Page = domain.DefaultPage
	}
	if f.Limit == 0 {
		f.Limit = domain.DefaultPageSize
	}
	if f.Page < 1 || f.Limit < 1 {
		return nil, domain.ErrInvalidPagination
	}
	f.Limit = min(f.Limit, domain.MaxPageSize)
	// 偏移量 (Page-1)*Limit 不能溢出
	if f.Page > math.MaxInt/f.Limit {
		return nil, domain.ErrInvalidPagination
	}

	jobs, total, err := s.jobs.ListJobs(ctx, f)
	if err != nil {
		return nil, err
	}

	return &domain.JobPage{
		Data: jobs,
		Meta: domain.NewPageMeta(total, f.Page, f.Limit),
	}, nil
}

func (s *JobService) FindByCompany(ctx context.Context, actingUserID string) ([]*domain.Job, error) {
	return s.jobs.ListJobsByCompanyUser(ctx, actingUserID)
}

func (s *JobService) FindOne(ctx context.Context, id string) (*domain.Job, error) {
	job, err := s.jobs.GetJobByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

// findOwned 先查询职位再检查归属，职位不存在时优先返回 NotFound
func (s *JobService) findOwned(ctx context.Context, id, actingUserID string) (*domain.Job, error) {
	job, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Company == nil || job.Company.UserID != actingUserID {
		return nil, domain.ErrNotJobOwner
	}
	return job, nil
}

func (s *JobService) Update(ctx context.Context, id, actingUserID string, patch JobPatch) (*domain.Job, error) {
	job, err := s.findOwned(ctx, id, actingUserID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		job.Title = *patch.Title
	}
	if patch.Description != nil {
		job.Description = *patch.Description
	}
	if patch.Location != nil {
		job.Location = *patch.Location
	}
	switch {
	case patch.ClearSalaryMin:
		job.SalaryMin = nil
	case patch.SalaryMin != nil:
		job.SalaryMin = patch.SalaryMin
	}
	switch {
	case patch.ClearSalaryMax:
		job.SalaryMax = nil
	case patch.SalaryMax != nil:
		job.SalaryMax = patch.SalaryMax
	}
	if patch.Experience != nil {
		job.Experience = *patch.Experience
	}
	if patch.Type != nil {
		job.Type = *patch.Type
	}

	// 合并之后再校验，避免只修改一端时破坏薪资区间
	if err := utils.ValidateSalaryRange(job.SalaryMin, job.SalaryMax); err != nil {
		return nil, err
	}

	if err := s.jobs.UpdateJob(ctx, job); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, err
	}

	return job, nil
}

func (s *JobService) Remove(ctx context.Context, id, actingUserID string) error {
	if _, err := s.findOwned(ctx, id, actingUserID); err != nil {
		return err
	}

	if err := s.jobs.DeleteJob(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrJobNotFound
		}
		return err
	}

	return nil
}

// Apply 以操作者的求职者资料投递职位，同一职位只能投递一次
func (s *JobService) Apply(ctx context.Context, jobID, actingUserID, coverLetter string) (*domain.Application, error) {
	candidate, err := s.profiles.GetCandidateProfileByUserID(ctx, actingUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCandidateProfileMissing
		}
		return nil, err
	}

	job, err := s.FindOne(ctx, jobID)
	if err != nil {
		return nil, err
	}

	application := &domain.Application{
		JobID:       job.ID,
		CandidateID: candidate.ID,
		CoverLetter: coverLetter,
		Status:      domain.ApplicationStatusPending,
	}
	if err := s.applications.CreateApplication(ctx, application); err != nil {
		return nil, err
	}

	return application, nil
}

// ListApplications 只允许职位所属的公司查看
func (s *JobService) ListApplications(ctx context.Context, jobID, actingUserID string) ([]*domain.Application, error) {
	if _, err := s.findOwned(ctx, jobID, actingUserID); err != nil {
		return nil, err
	}
	return s.applications.ListApplicationsByJob(ctx, jobID)
}

func (s *JobService) MyApplications(ctx context.Context, actingUserID string) ([]*domain.Application, error) {
	candidate, err := s.profiles.GetCandidateProfileByUserID(ctx, actingUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCandidateProfileMissing
		}
		return nil, err
	}
	return s.applications.ListApplicationsByCandidate(ctx, candidate.ID)
}
