package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/domain"
)

func (r *Repository) GetCompanyProfileByUserID(ctx context.Context, userID string) (*domain.CompanyProfile, error) {
	query := `
		SELECT id, user_id, company_name, description, website, logo_url, location, created_at, updated_at
		FROM company_profiles WHERE user_id = $1
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	p := &domain.CompanyProfile{}
	dst := []any{&p.ID, &p.UserID, &p.CompanyName, &p.Description, &p.Website, &p.LogoURL, &p.Location, &p.CreatedAt, &p.UpdatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, userID).Scan(dst...); err != nil {
		return nil, err
	}

	return p, nil
}

func (r *Repository) CreateCompanyProfile(ctx context.Context, p *domain.CompanyProfile) error {
	query := `
		INSERT INTO company_profiles (id, user_id, company_name, description, website, logo_url, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	p.ID = uuid.NewString()
	args := []any{p.ID, p.UserID, p.CompanyName, p.Description, p.Website, p.LogoURL, p.Location}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return translate(err)
	}

	return nil
}

func (r *Repository) UpdateCompanyProfile(ctx context.Context, p *domain.CompanyProfile) error {
	query := `
		UPDATE company_profiles
		SET
			company_name = $1,
			description = $2,
			website = $3,
			logo_url = $4,
			location = $5,
			updated_at = now()
		WHERE id = $6
		RETURNING updated_at
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	args := []any{p.CompanyName, p.Description, p.Website, p.LogoURL, p.Location, p.ID}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&p.UpdatedAt)
}

func (r *Repository) GetCandidateProfileByUserID(ctx context.Context, userID string) (*domain.CandidateProfile, error) {
	query := `
		SELECT id, user_id, first_name, last_name, phone, bio, resume_url, created_at, updated_at
		FROM candidate_profiles WHERE user_id = $1
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	p := &domain.CandidateProfile{}
	dst := []any{&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Phone, &p.Bio, &p.ResumeURL, &p.CreatedAt, &p.UpdatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, userID).Scan(dst...); err != nil {
		return nil, err
	}

	return p, nil
}

func (r *Repository) CreateCandidateProfile(ctx context.Context, p *domain.CandidateProfile) error {
	query := `
		INSERT INTO candidate_profiles (id, user_id, first_name, last_name, phone, bio, resume_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	p.ID = uuid.NewString()
	args := []any{p.ID, p.UserID, p.FirstName, p.LastName, p.Phone, p.Bio, p.ResumeURL}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return translate(err)
	}

	return nil
}

func (r *Repository) UpdateCandidateProfile(ctx context.Context, p *domain.CandidateProfile) error {
	query := `
		UPDATE candidate_profiles
		SET
			first_name = $1,
			last_name = $2,
			phone = $3,
			bio = $4,
			resume_url = $5,
			updated_at = now()
		WHERE id = $6
		RETURNING updated_at
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	args := []any{p.FirstName, p.LastName, p.Phone, p.Bio, p.ResumeURL, p.ID}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&p.UpdatedAt)
}

func (r *Repository) GetAllCompanyProfiles(ctx context.Context) ([]*domain.CompanyProfile, error) {
	query := `
		SELECT id, user_id, company_name, description, website, logo_url, location, created_at, updated_at
		FROM company_profiles
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]*domain.CompanyProfile, 0)
	for rows.Next() {
		p := &domain.CompanyProfile{}
		dst := []any{&p.ID, &p.UserID, &p.CompanyName, &p.Description, &p.Website, &p.LogoURL, &p.Location, &p.CreatedAt, &p.UpdatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}
