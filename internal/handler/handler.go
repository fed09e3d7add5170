package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/service"
)

type Guard interface {
	Authenticate(r *http.Request) (*domain.Principal, error)
	Authorize(p *domain.Principal, roles ...domain.Role) error
}

type AuthService interface {
	Register(ctx context.Context, email, password string, role domain.Role) (*service.AuthResult, error)
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
}

type JobService interface {
	Create(ctx context.Context, in service.JobInput, actingUserID string) (*domain.Job, error)
	FindAll(ctx context.Context, f domain.JobFilter) (*domain.JobPage, error)
	FindByCompany(ctx context.Context, actingUserID string) ([]*domain.Job, error)
	FindOne(ctx context.Context, id string) (*domain.Job, error)
	Update(ctx context.Context, id, actingUserID string, patch service.JobPatch) (*domain.Job, error)
	Remove(ctx context.Context, id, actingUserID string) error
	Apply(ctx context.Context, jobID, actingUserID, coverLetter string) (*domain.Application, error)
	ListApplications(ctx context.Context, jobID, actingUserID string) ([]*domain.Application, error)
	MyApplications(ctx context.Context, actingUserID string) ([]*domain.Application, error)
}

type UserService interface {
	FindAll(ctx context.Context) ([]*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, patch service.UserPatch) (*domain.User, error)
	ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error
	Delete(ctx context.Context, id string) error
	CreateCompanyProfile(ctx context.Context, userID string, in service.CompanyProfileInput) (*domain.CompanyProfile, error)
	UpdateCompanyProfile(ctx context.Context, userID string, patch service.CompanyProfilePatch) (*domain.CompanyProfile, error)
	CreateCandidateProfile(ctx context.Context, userID string, in service.CandidateProfileInput) (*domain.CandidateProfile, error)
	UpdateCandidateProfile(ctx context.Context, userID string, patch service.CandidateProfilePatch) (*domain.CandidateProfile, error)
}

type VerificationService interface {
	RequestVerification(ctx context.Context, userID string) error
	ConfirmVerification(ctx context.Context, userID, code string) (*domain.User, error)
}

// ReadinessCheck 在依赖不可用时返回错误
type ReadinessCheck func(ctx context.Context) error

type Dependencies struct {
	Guard        Guard
	Auth         AuthService
	Jobs         JobService
	Users        UserService
	Verification VerificationService
	Readiness    map[string]ReadinessCheck
}

type Handler struct {
	validate   *validator.Validate
	translator ut.Translator
	log        zerolog.Logger

	guard        Guard
	auth         AuthService
	jobs         JobService
	users        UserService
	verification VerificationService
	readiness    map[string]ReadinessCheck

	Mux *chi.Mux
}

func NewHandler(logger zerolog.Logger, deps Dependencies) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		translator: trans,
		log:        logger,

		guard:        deps.Guard,
		auth:         deps.Auth,
		jobs:         deps.Jobs,
		users:        deps.Users,
		verification: deps.Verification,
		readiness:    deps.Readiness,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(middleware.RequestID)
	h.Mux.Use(middleware.RealIP)
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	h.Mux.Use(h.metrics)

	companyOnly := h.RequiredRole([]domain.Role{domain.RoleCompany})
	candidateOnly := h.RequiredRole([]domain.Role{domain.RoleCandidate})

	// 健康检查与监控
	h.Mux.Get("/health", h.Liveness)
	h.Mux.Get("/health/ready", h.Readiness)
	h.Mux.Handle("/metrics", promhttp.Handler())

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	h.Mux.Route("/jobs", func(r chi.Router) {
		// 职位搜索和详情不需要登录
		r.Get("/", h.ListJobs)

		r.Group(func(r chi.Router) {
			r.Use(h.authenticate)
			r.Use(companyOnly)
			r.Get("/my-jobs", h.GetMyJobs)
			r.Post("/", h.CreateJob)
		})

		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.uuidParam("id"))
			r.Get("/", h.GetJob)

			r.Group(func(r chi.Router) {
				r.Use(h.authenticate)
				r.With(companyOnly).Patch("/", h.UpdateJob)
				r.With(companyOnly).Delete("/", h.DeleteJob)
				r.With(candidateOnly).Post("/applications", h.ApplyJob)
				r.With(companyOnly).Get("/applications", h.GetJobApplications)
			})
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Route("/users", func(r chi.Router) {
		r.Use(h.authenticate)
		r.Get("/", h.GetAllUsers)

		r.Route("/me", func(r chi.Router) {
			r.Get("/", h.GetMe)
			r.Patch("/", h.UpdateMe)
			r.Delete("/", h.DeleteMe)
			r.Patch("/password", h.UpdateMyPassword)
			r.With(candidateOnly).Get("/applications", h.GetMyApplications)

			r.Route("/company-profile", func(r chi.Router) {
				r.Use(companyOnly)
				r.Post("/", h.CreateCompanyProfile)
				r.Patch("/", h.UpdateCompanyProfile)
			})
			r.Route("/candidate-profile", func(r chi.Router) {
				r.Use(candidateOnly)
				r.Post("/", h.CreateCandidateProfile)
				r.Patch("/", h.UpdateCandidateProfile)
			})
			r.Route("/email-verification", func(r chi.Router) {
				r.Post("/require", h.RequireEmailVerification)
				r.Post("/confirm", h.ConfirmEmailVerification)
			})
		})
	})
}
