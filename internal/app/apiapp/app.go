package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ivankudzin/goodwill/internal/config"
	"github.com/ivankudzin/goodwill/internal/domain/rules"
	s3infra "github.com/ivankudzin/goodwill/internal/infra/s3"
	pgrepo "github.com/ivankudzin/goodwill/internal/repo/postgres"
	redrepo "github.com/ivankudzin/goodwill/internal/repo/redis"
	antiabusesvc "github.com/ivankudzin/goodwill/internal/services/antiabuse"
	authsvc "github.com/ivankudzin/goodwill/internal/services/auth"
	goodwillsvc "github.com/ivankudzin/goodwill/internal/services/goodwill"
	likessvc "github.com/ivankudzin/goodwill/internal/services/likes"
	mediasvc "github.com/ivankudzin/goodwill/internal/services/media"
	ratesvc "github.com/ivankudzin/goodwill/internal/services/rate"
	userssvc "github.com/ivankudzin/goodwill/internal/services/users"
)

const postgresPingTimeout = 3 * time.Second

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log, cfg.HTTP.RequestTimeout)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN, pgrepo.PoolOptions{
		MaxConns:        cfg.Postgres.MaxConns,
		ConnMaxLifetime: cfg.Postgres.ConnLifetime,
		PingTimeout:     postgresPingTimeout,
	}); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	if pool != nil && cfg.Postgres.MigrateOnStart {
		if err := pgrepo.Migrate(cfg.Postgres.DSN); err != nil {
			pool.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		log.Info("postgres migrations applied")
	}

	txManager := pgrepo.NewTxManager(pool)
	userRepo := pgrepo.NewUserRepo(pool)
	likeRepo := pgrepo.NewLikeRepo(pool)
	historyRepo := pgrepo.NewLikeHistoryRepo(pool)

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	rateLimiter := ratesvc.NewLimiter(
		redrepo.NewRateRepo(redisClient),
		cfg.Remote.Limits.LikeMaxPerMin,
		cfg.Remote.Limits.LikeMax10Sec,
	)

	likeService := likessvc.NewService(likessvc.Dependencies{
		Tx:      txManager,
		Users:   userRepo,
		Likes:   likeRepo,
		History: historyRepo,
	}, likessvc.Config{
		Policy: rules.LikePolicy{
			MonthlyLikes:     cfg.Remote.Limits.MonthlyLikes,
			NewUserLikes:     cfg.Remote.Limits.NewUserLikes,
			NewAccountWindow: cfg.Remote.Limits.NewAccountWindow,
			PeriodDays:       cfg.Remote.Limits.PeriodDays,
		},
	})
	likeService.AttachRateLimiter(rateLimiter)

	farmDetector := antiabusesvc.NewFarmDetector(likeRepo, antiabusesvc.Config{
		BulkLikesThreshold:      cfg.Remote.AntiAbuse.BulkLikesThreshold,
		BulkLikesMinAge:         cfg.Remote.AntiAbuse.BulkLikesMinAge,
		NewUserTargetsThreshold: cfg.Remote.AntiAbuse.NewUserTargetsThreshold,
		NewUserWindow:           cfg.Remote.AntiAbuse.NewUserWindow,
		DisconnectionThreshold:  cfg.Remote.AntiAbuse.DisconnectionThreshold,
	})
	goodwillService := goodwillsvc.NewService(likeRepo, farmDetector, goodwillsvc.Config{
		LookupConcurrency: cfg.Remote.Scoring.LookupConcurrency,
	})

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(cfg.S3); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}
	mediaService := mediasvc.NewService(mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket), cfg.S3.SignedURLTTL)

	userService := userssvc.NewService(userssvc.Dependencies{
		Store:    userRepo,
		Goodwill: goodwillService,
		Likes:    likeService,
	})
	userService.AttachURLSigner(mediaService)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager)

	RegisterRoutes(r, Dependencies{
		AuthService:     authService,
		LikeService:     likeService,
		GoodwillService: goodwillService,
		UserService:     userService,
		MediaService:    mediaService,
		Logger:          log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
