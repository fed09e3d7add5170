package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/domain"
)

func (r *Repository) CreateApplication(ctx context.Context, a *domain.Application) error {
	query := `
		INSERT INTO applications (id, job_id, candidate_id, cover_letter, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	a.ID = uuid.NewString()
	if a.Status == "" {
		a.Status = domain.ApplicationStatusPending
	}
	args := []any{a.ID, a.JobID, a.CandidateID, a.CoverLetter, a.Status}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		return translate(err)
	}

	return nil
}

// ListApplicationsByJob 返回某个职位收到的申请，附带求职者资料
func (r *Repository) ListApplicationsByJob(ctx context.Context, jobID string) ([]*domain.Application, error) {
	query := `
		SELECT
			a.id, a.job_id, a.candidate_id, a.cover_letter, a.status, a.created_at, a.updated_at,
			p.id, p.user_id, p.first_name, p.last_name, p.phone, p.bio, p.resume_url, p.created_at, p.updated_at
		FROM applications a
		JOIN candidate_profiles p ON p.id = a.candidate_id
		WHERE a.job_id = $1
		ORDER BY a.created_at DESC
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applications := make([]*domain.Application, 0)
	for rows.Next() {
		a := &domain.Application{Candidate: &domain.CandidateProfile{}}
		p := a.Candidate
		dst := []any{
			&a.ID, &a.JobID, &a.CandidateID, &a.CoverLetter, &a.Status, &a.CreatedAt, &a.UpdatedAt,
			&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Phone, &p.Bio, &p.ResumeURL, &p.CreatedAt, &p.UpdatedAt,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		applications = append(applications, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return applications, nil
}

// ListApplicationsByCandidate 返回某个求职者提交过的申请，附带职位和公司信息
func (r *Repository) ListApplicationsByCandidate(ctx context.Context, candidateID string) ([]*domain.Application, error) {
	query := `
		SELECT a.id, a.job_id, a.candidate_id, a.cover_letter, a.status, a.created_at, a.updated_at, ` + jobColumns + `
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		JOIN company_profiles c ON c.id = j.company_id
		WHERE a.candidate_id = $1
		ORDER BY a.created_at DESC
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applications := make([]*domain.Application, 0)
	for rows.Next() {
		a := &domain.Application{}
		job, err := scanJob(applicationRow{rows: rows, a: a}, false)
		if err != nil {
			return nil, err
		}
		a.Job = job
		applications = append(applications, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return applications, nil
}

// applicationRow 把申请本身的列放在职位列之前一起扫描
type applicationRow struct {
	rows rowScanner
	a    *domain.Application
}

func (r applicationRow) Scan(dest ...any) error {
	a := r.a
	head := []any{&a.ID, &a.JobID, &a.CandidateID, &a.CoverLetter, &a.Status, &a.CreatedAt, &a.UpdatedAt}
	return r.rows.Scan(append(head, dest...)...)
}
