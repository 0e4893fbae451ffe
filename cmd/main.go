package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	grpchealth "google.golang.org/grpc/health"
	"google.golang.org/grpc/reflection"

	grpcrouter "github.com/dtroode/useraccounts-server/internal/api/grpc/router"
	grpcserver "github.com/dtroode/useraccounts-server/internal/api/grpc/server"
	httpcontext "github.com/dtroode/useraccounts-server/internal/api/http/context"
	httprouter "github.com/dtroode/useraccounts-server/internal/api/http/router"
	httpserver "github.com/dtroode/useraccounts-server/internal/api/http/server"
	"github.com/dtroode/useraccounts-server/internal/config"
	"github.com/dtroode/useraccounts-server/internal/hasher"
	"github.com/dtroode/useraccounts-server/internal/health"
	"github.com/dtroode/useraccounts-server/internal/logger"
	"github.com/dtroode/useraccounts-server/internal/mail"
	"github.com/dtroode/useraccounts-server/internal/model"
	"github.com/dtroode/useraccounts-server/internal/repository/postgres"
	"github.com/dtroode/useraccounts-server/internal/repository/redis"
	"github.com/dtroode/useraccounts-server/internal/server"
	"github.com/dtroode/useraccounts-server/internal/service"
	"github.com/dtroode/useraccounts-server/internal/storage/minio"
	"github.com/dtroode/useraccounts-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const (
	shutdownTimeout = 10 * time.Second
	probeTimeout    = 3 * time.Second
	probeObjectKey  = "health/probe"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	checker := health.NewChecker(probeTimeout, logger)
	checker.Add("database", db.Ping)

	userRepo := postgres.NewUserRepository(db)

	var resetStore model.ResetTokenStore
	switch cfg.Reset.Store {
	case config.ResetStoreRedis:
		redisStore, err := redis.NewResetTokenStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("failed to connect to redis", "error", err, "address", cfg.Redis.Addr)
		}
		defer redisStore.Close()
		checker.Add("redis", redisStore.Ping)
		resetStore = redisStore
	default:
		resetStore = postgres.NewResetTokenRepository(db)
	}

	mailer, err := newMailer(ctx, cfg, logger, checker)
	if err != nil {
		logger.Fatal("failed to initialize mailer", "error", err)
	}

	passwordHasher := hasher.NewBcrypt(cfg.Hasher.Cost)
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)

	authService := service.NewAuth(userRepo, passwordHasher, tokenManager, logger)
	userService := service.NewUsers(userRepo, passwordHasher, logger)
	resetService := service.NewReset(userRepo, resetStore, passwordHasher, mailer, logger, cfg.Reset.URL, cfg.Reset.TTL)

	if cfg.Admin.Email != "" {
		admin, err := authService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			logger.Fatal("failed to bootstrap admin account", "error", err)
		}
		logger.Info("admin account ready", "user_id", admin.ID)
	}

	engine := httprouter.New(httprouter.Services{
		Auth:   authService,
		Users:  userService,
		Reset:  resetService,
		Health: checker,
	}, httpcontext.NewManager(), cfg.HTTP.AuthHeader, logger).Register()

	servers := []model.Server{
		httpserver.NewHTTPServer(engine, fmt.Sprintf(":%s", cfg.HTTP.Port)),
	}
	sl := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)

	var wg sync.WaitGroup

	if cfg.Health.Enabled {
		healthServer := grpchealth.NewServer()
		grpcServer := grpcrouter.New(healthServer, logger).Register()
		reflection.Register(grpcServer)
		servers = append(servers, grpcserver.NewGRPCServer(grpcServer, fmt.Sprintf(":%s", cfg.Health.Port)))

		wg.Add(1)
		go func() {
			defer wg.Done()
			checker.Watch(ctx, cfg.Health.Interval, healthServer)
		}()
	}

	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}(s)
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// newMailer sends through SMTP when a host is configured and logs otherwise.
// With object storage enabled, undelivered messages are archived to it.
func newMailer(ctx context.Context, cfg *config.Config, logger *logger.Logger, checker *health.Checker) (model.Mailer, error) {
	var mailer model.Mailer = mail.NewLogMailer(logger)
	if cfg.SMTP.Host != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	} else {
		logger.Warn("SMTP host is not set, reset emails will only be logged")
	}

	if !cfg.Storage.Enabled {
		return mailer, nil
	}

	storage, err := minio.NewClient(ctx, minio.Options{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}
	checker.Add("storage", func(ctx context.Context) error {
		_, err := storage.Exists(ctx, probeObjectKey)
		return err
	})

	return mail.NewArchivingMailer(mailer, storage, logger), nil
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
