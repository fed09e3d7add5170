package main

import (
	"context"
	"database/sql"
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/config"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/logger"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/repository"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/security"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type seeder struct {
	cfg          *config.Config
	repo         *repository.Repository
	log          zerolog.Logger
	passwordHash string
}

// newUser 插入一个随机用户，邮箱由中文名的拼音生成
func (s *seeder) newUser(ctx context.Context, role domain.Role) (*domain.User, string, string, error) {
	surname, givenName := utils.GenerateRandomChineseName()
	user := &domain.User{
		Email:        utils.GenerateEmailLocalPart(surname+givenName) + "@" + s.cfg.Seed.EmailDomain,
		PasswordHash: s.passwordHash,
		Role:         role,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, "", "", err
	}
	return user, surname, givenName, nil
}

func (s *seeder) seedCandidates(ctx context.Context, n int) int {
	cnt := 0
	for i := 0; i < n; i++ {
		user, surname, givenName, err := s.newUser(ctx, domain.RoleCandidate)
		if err != nil {
			s.log.Error().Err(err).Msg("无法插入求职者")
			continue
		}
		if err := s.repo.CreateCandidateProfile(ctx, utils.GenerateRandomCandidateProfile(user.ID, surname, givenName)); err != nil {
			s.log.Error().Err(err).Str("user_id", user.ID).Msg("无法插入求职者资料")
			continue
		}
		cnt++
	}
	return cnt
}

func (s *seeder) seedCompanies(ctx context.Context, n int) int {
	cnt := 0
	for i := 0; i < n; i++ {
		user, _, _, err := s.newUser(ctx, domain.RoleCompany)
		if err != nil {
			s.log.Error().Err(err).Msg("无法插入公司用户")
			continue
		}
		if err := s.repo.CreateCompanyProfile(ctx, utils.GenerateRandomCompanyProfile(user.ID)); err != nil {
			s.log.Error().Err(err).Str("user_id", user.ID).Msg("无法插入公司资料")
			continue
		}
		cnt++
	}
	return cnt
}

func (s *seeder) seedJobs(ctx context.Context, n int) int {
	companies, err := s.repo.GetAllCompanyProfiles(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("无法获取公司资料")
		return 0
	}
	if len(companies) == 0 {
		s.log.Error().Msg("数据库中没有公司，请先执行 -op 2")
		return 0
	}

	cnt := 0
	for i := 0; i < n; i++ {
		company := companies[rand.Intn(len(companies))]
		if err := s.repo.CreateJob(ctx, utils.GenerateRandomJob(company.ID)); err != nil {
			s.log.Error().Err(err).Msg("无法插入职位")
			continue
		}
		cnt++
	}
	return cnt
}

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机求职者, 2: 插入随机公司, 3: 为已有公司插入随机职位)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		l := logger.New(logger.Options{})
		l.Error().Err(err).Msg("无法读取配置文件")
		os.Exit(1)
	}
	l := logger.New(logger.Options{Level: cfg.Log.Level, Pretty: true}).
		With().Str("service", "seed").Logger()

	if n <= 0 {
		l.Error().Int("n", n).Msg("请输入合法的记录数量")
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		l.Error().Err(err).Msg("无法创建数据库连接池")
		os.Exit(1)
	}
	defer dbpool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		l.Error().Err(err).Msg("无法连接到数据库")
		return
	}

	// 所有种子用户共用一个密码，只需要计算一次哈希
	passwordHash, err := security.NewPasswordHasher(cfg.Bcrypt.Cost).Hash(cfg.Seed.User.Password)
	if err != nil {
		l.Error().Err(err).Msg("无法生成密码哈希")
		return
	}

	s := &seeder{
		cfg:          cfg,
		repo:         repository.NewRepository(cfg, dbpool),
		log:          l,
		passwordHash: passwordHash,
	}

	// 连接超时只用于 ping，插入数据使用不带超时的上下文，每条语句由 repository 自己限时
	runCtx := context.Background()

	switch op {
	case 1:
		l.Info().Int("count", s.seedCandidates(runCtx, n)).Msg("插入求职者成功")
	case 2:
		l.Info().Int("count", s.seedCompanies(runCtx, n)).Msg("插入公司成功")
	case 3:
		l.Info().Int("count", s.seedJobs(runCtx, n)).Msg("插入职位成功")
	case 0:
		l.Error().Msg("未指定操作")
	default:
		l.Error().Int("op", op).Msg("指定的操作非法")
	}
}
