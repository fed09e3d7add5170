package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/domain"
)

const userColumns = `u.id, u.email, u.password_hash, u.role, u.is_email_verified, u.created_at, u.updated_at`

func userDst(user *domain.User) []any {
	return []any{&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.IsEmailVerified, &user.CreatedAt, &user.UpdatedAt}
}

// GetUserByID 同时加载求职者资料和公司资料（如果有的话）
func (r *Repository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `,
			cp.id, cp.first_name, cp.last_name, cp.phone, cp.bio, cp.resume_url, cp.created_at, cp.updated_at,
			co.id, co.company_name, co.description, co.website, co.logo_url, co.location, co.created_at, co.updated_at
		FROM users u
		LEFT JOIN candidate_profiles cp ON cp.user_id = u.id
		LEFT JOIN company_profiles co ON co.user_id = u.id
		WHERE u.id = $1
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var (
		user = &domain.User{}

		cpID, cpFirstName, cpLastName, cpPhone, cpBio, cpResume sql.NullString
		cpCreatedAt, cpUpdatedAt                                 sql.NullTime

		coID, coName, coDescription, coWebsite, coLogo, coLocation sql.NullString
		coCreatedAt, coUpdatedAt                                   sql.NullTime
	)

	dst := append(userDst(user),
		&cpID, &cpFirstName, &cpLastName, &cpPhone, &cpBio, &cpResume, &cpCreatedAt, &cpUpdatedAt,
		&coID, &coName, &coDescription, &coWebsite, &coLogo, &coLocation, &coCreatedAt, &coUpdatedAt,
	)
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if cpID.Valid {
		user.CandidateProfile = &domain.CandidateProfile{
			ID:        cpID.String,
			UserID:    user.ID,
			FirstName: nullString(cpFirstName),
			LastName:  nullString(cpLastName),
			Phone:     nullString(cpPhone),
			Bio:       nullString(cpBio),
			ResumeURL: nullString(cpResume),
			CreatedAt: cpCreatedAt.Time,
			UpdatedAt: cpUpdatedAt.Time,
		}
	}
	if coID.Valid {
		user.CompanyProfile = &domain.CompanyProfile{
			ID:          coID.String,
			UserID:      user.ID,
			CompanyName: nullString(coName),
			Description: nullString(coDescription),
			Website:     nullString(coWebsite),
			LogoURL:     nullString(coLogo),
			Location:    nullString(coLocation),
			CreatedAt:   coCreatedAt.Time,
			UpdatedAt:   coUpdatedAt.Time,
		}
	}

	return user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.email = $1`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	user := &domain.User{}
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(userDst(user)...); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Repository) GetAllUsers(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u ORDER BY u.created_at DESC`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user := &domain.User{}
		if err := rows.Scan(userDst(user)...); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *Repository) CheckEmailIfExists(ctx context.Context, email string) (bool, error) {
	isExists := false

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}

func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO users (id, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING is_email_verified, created_at, updated_at
	`

	user.ID = uuid.NewString()
	args := []any{user.ID, user.Email, user.PasswordHash, user.Role}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&user.IsEmailVerified, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return translate(err)
	}

	return nil
}

func (r *Repository) UpdateUser(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET
			email = $1,
			password_hash = $2,
			is_email_verified = $3,
			updated_at = now()
		WHERE id = $4
		RETURNING role, created_at, updated_at
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	args := []any{user.Email, user.PasswordHash, user.IsEmailVerified, user.ID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&user.Role, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return translate(err)
	}

	return nil
}

// DeleteUser 会级联删除该用户的资料、职位和申请
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	query := `
		DELETE FROM users WHERE id = $1
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
