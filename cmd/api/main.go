package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/config"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/handler"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/logger"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/mailqueue"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/otp"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/repository"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/security"
	"github.com/sysu-ecnc-dev/job-board/backend/internal/service"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * 加载配置
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		// 配置加载失败时还没有日志级别，使用默认设置输出
		l := logger.New(logger.Options{})
		l.Error().Err(err).Msg("无法加载配置文件")
		os.Exit(1)
	}

	/**********************************************
	 * 创建 logger
	 **********************************************/
	l := logger.New(logger.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty}).
		With().Str("service", "api").Logger()

	tokenTTL, err := security.ParseTTL(cfg.JWT.ExpiresIn)
	if err != nil {
		l.Error().Err(err).Str("value", cfg.JWT.ExpiresIn).Msg("令牌有效期配置错误")
		os.Exit(1)
	}

	/**********************************************
	 * 连接数据库
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		l.Error().Err(err).Msg("无法创建数据库连接池")
		os.Exit(1)
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		l.Error().Err(err).Msg("无法连接到数据库")
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * 连接 rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		l.Error().Err(err).Msg("无法连接到 rabbitmq")
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		l.Error().Err(err).Msg("无法建立通道")
		return
	}
	defer ch.Close()

	if _, err := mailqueue.DeclareQueue(ch, cfg.RabbitMQ.Queue); err != nil {
		l.Error().Err(err).Msg("无法声明队列")
		return
	}
	publisher := mailqueue.NewPublisher(ch, cfg.RabbitMQ.Queue, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)

	/**********************************************
	 * 连接 redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password:    cfg.Redis.Password,
		DB:          0,
		DialTimeout: time.Duration(cfg.Redis.ConnectTimeout) * time.Second,
	})
	defer rdb.Close()

	otpStore := otp.NewStore(rdb, time.Duration(cfg.Redis.OperationTimeout)*time.Second)
	if err := otpStore.Ping(ctx); err != nil {
		// 只影响邮箱验证，就绪检查会反映出来
		l.Warn().Err(err).Msg("无法连接到 redis")
	}

	/**********************************************
	 * 创建 service
	 **********************************************/
	hasher := security.NewPasswordHasher(cfg.Bcrypt.Cost)
	tokens := security.NewTokenIssuer(cfg.JWT.Secret, tokenTTL)

	authService, err := service.NewAuthService(repo, hasher, tokens, publisher, l)
	if err != nil {
		l.Error().Err(err).Msg("无法创建认证服务")
		return
	}
	jobService := service.NewJobService(repo, repo, repo)
	userService := service.NewUserService(repo, repo, hasher)
	verificationService := service.NewVerificationService(repo, otpStore, publisher, time.Duration(cfg.OTP.Expiration)*time.Second)

	/**********************************************
	 * 创建 handler
	 **********************************************/
	h, err := handler.NewHandler(l, handler.Dependencies{
		Guard:        security.NewGuard(tokens, authService),
		Auth:         authService,
		Jobs:         jobService,
		Users:        userService,
		Verification: verificationService,
		Readiness: map[string]handler.ReadinessCheck{
			"postgres": repo.Ping,
			"redis":    otpStore.Ping,
		},
	})
	if err != nil {
		l.Error().Err(err).Msg("无法创建 handler")
		return
	}
	h.RegisterRoutes()

	/**********************************************
	 * 启动 HTTP 服务器
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      h.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     log.New(l.With().Str("source", "http.Server").Logger(), "", 0),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		l.Info().Str("port", cfg.Server.Port).Str("environment", cfg.Environment).Msg("正在启动服务器...")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Error().Err(err).Msg("无法启动服务器")
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	l.Info().Msg("正在关闭服务器...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("关闭服务器失败")
	}
	l.Info().Msg("服务器已成功关闭")
}
