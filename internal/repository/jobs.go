package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/domain"
)

const (
	jobColumns = `
		j.id, j.title, j.description, j.location, j.salary_min, j.salary_max, j.experience, j.type,
		j.company_id, j.created_at, j.updated_at, c.id, c.company_name, c.logo_url`

	// 职位详情和公司自己的职位列表需要所属用户和申请数
	jobOwnerColumns = jobColumns + `,
		c.user_id, (SELECT COUNT(*) FROM applications a WHERE a.job_id = j.id)`

	jobFrom = `FROM jobs j JOIN company_profiles c ON c.id = j.company_id`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner, withOwner bool) (*domain.Job, error) {
	var (
		job                  = &domain.Job{Company: &domain.CompanySummary{}}
		salaryMin, salaryMax sql.NullInt64
		count                int
	)

	dst := []any{
		&job.ID,
		&job.Title,
		&job.Description,
		&job.Location,
		&salaryMin,
		&salaryMax,
		&job.Experience,
		&job.Type,
		&job.CompanyID,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.Company.ID,
		&job.Company.CompanyName,
		&job.Company.LogoURL,
	}
	if withOwner {
		dst = append(dst, &job.Company.UserID, &count)
	}

	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	job.SalaryMin = intPtr(salaryMin)
	job.SalaryMax = intPtr(salaryMax)
	if withOwner {
		job.ApplicationCount = &count
	}

	return job, nil
}

func (r *Repository) GetJobByID(ctx context.Context, id string) (*domain.Job, error) {
	query := `SELECT ` + jobOwnerColumns + ` ` + jobFrom + ` WHERE j.id = $1`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return scanJob(r.dbpool.QueryRowContext(ctx, query, id), true)
}

// ListJobs 返回当前页的职位以及满足过滤条件的职位总数，结果按创建时间倒序
func (r *Repository) ListJobs(ctx context.Context, f domain.JobFilter) ([]*domain.Job, int, error) {
	q := buildListJobsQuery(f)

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	total := 0
	if err := r.dbpool.QueryRowContext(ctx, q.count, q.countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	jobs, err := r.queryJobs(ctx, q.page, false, q.pageArgs...)
	if err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

// ListJobsByCompanyUser 返回某个公司用户发布的所有职位
func (r *Repository) ListJobsByCompanyUser(ctx context.Context, userID string) ([]*domain.Job, error) {
	query := `SELECT ` + jobOwnerColumns + ` ` + jobFrom + ` WHERE c.user_id = $1 ORDER BY j.created_at DESC, j.id`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.queryJobs(ctx, query, true, userID)
}

func (r *Repository) queryJobs(ctx context.Context, query string, withOwner bool, args ...any) ([]*domain.Job, error) {
	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]*domain.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows, withOwner)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}

func (r *Repository) CreateJob(ctx context.Context, job *domain.Job) error {
	query := `
		INSERT INTO jobs (id, title, description, location, salary_min, salary_max, experience, type, company_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	job.ID = uuid.NewString()
	args := []any{job.ID, job.Title, job.Description, job.Location, job.SalaryMin, job.SalaryMax, job.Experience, job.Type, job.CompanyID}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&job.CreatedAt, &job.UpdatedAt)
}

func (r *Repository) UpdateJob(ctx context.Context, job *domain.Job) error {
	query := `
		UPDATE jobs
		SET
			title = $1,
			description = $2,
			location = $3,
			salary_min = $4,
			salary_max = $5,
			experience = $6,
			type = $7,
			updated_at = now()
		WHERE id = $8
		RETURNING updated_at
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	args := []any{job.Title, job.Description, job.Location, job.SalaryMin, job.SalaryMax, job.Experience, job.Type, job.ID}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&job.UpdatedAt)
}

func (r *Repository) DeleteJob(ctx context.Context, id string) error {
	query := `
		DELETE FROM jobs WHERE id = $1
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}
