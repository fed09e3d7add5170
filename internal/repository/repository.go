package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/config"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/domain"
)

const uniqueViolation = "23505"

// 唯一约束名到业务错误的映射，检查与插入之间的竞争最终由这些约束兜底
var uniqueConstraintErrors = map[string]error{
	"users_email_key":                      domain.ErrEmailTaken,
	"company_profiles_user_id_key":         domain.ErrCompanyProfileExists,
	"candidate_profiles_user_id_key":       domain.ErrCandidateProfileExists,
	"applications_job_id_candidate_id_key": domain.ErrAlreadyApplied,
}

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

func (r *Repository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
}

// Ping 用于就绪检查
func (r *Repository) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.dbpool.PingContext(ctx)
}

func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if derr, ok := uniqueConstraintErrors[pgErr.ConstraintName]; ok {
			return derr
		}
	}
	return err
}

func nullString(s sql.NullString) string {
	if s.Valid {
		return s.String
	}
	return ""
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
