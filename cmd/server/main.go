// @title                      Madinti API
// @version                    1.0
// @description                Citizen OTP authentication and staff login for the Madinti platform.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/madinti/madinti-api/internal/api"
	"github.com/madinti/madinti-api/internal/api/handler"
	"github.com/madinti/madinti-api/internal/core/ports"
	"github.com/madinti/madinti-api/internal/core/service"
	"github.com/madinti/madinti-api/internal/infrastructure/config"
	"github.com/madinti/madinti-api/internal/infrastructure/db/memory"
	mongodb "github.com/madinti/madinti-api/internal/infrastructure/db/mongo"
	redisdb "github.com/madinti/madinti-api/internal/infrastructure/db/redis"
	"github.com/madinti/madinti-api/internal/infrastructure/notify"
	"github.com/madinti/madinti-api/internal/infrastructure/otp"
	"github.com/madinti/madinti-api/internal/infrastructure/security"
	"github.com/madinti/madinti-api/internal/infrastructure/seed"
	"github.com/madinti/madinti-api/internal/infrastructure/token"
	"github.com/madinti/madinti-api/pkg/logger"
)

const (
	version         = "1.0.0"
	shutdownTimeout = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "madinti-api: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "madinti-api",
	})
	log.Info().Str("env", cfg.Env).Str("store", cfg.StoreDriver).Msg("starting")

	checks := map[string]handler.Checker{}

	users, closeStore, err := openStore(ctx, cfg, checks, log)
	if err != nil {
		return err
	}
	defer closeStore()

	var limiter ports.RateLimiter
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		checks["redis"] = redisdb.Ping(rdb)
		limiter = redisdb.NewRateLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, rate limiting disabled")
	}

	ids, err := security.NewIdentifierHasher(cfg.Auth.IdentifierHashKey)
	if err != nil {
		return err
	}
	passwords := security.NewPasswordHasher(cfg.Auth.BcryptCost)

	tokens, err := token.NewIssuer(token.Config{
		Secret:     cfg.Auth.JWTSecret,
		Issuer:     cfg.Auth.JWTIssuer,
		AccessTTL:  cfg.Auth.AccessTTL,
		RefreshTTL: cfg.Auth.RefreshTTL,
	})
	if err != nil {
		return err
	}

	sink, closeSink, err := openNotifier(cfg, log)
	if err != nil {
		return err
	}
	defer closeSink()

	if cfg.Seed.Email != "" {
		if _, err := seed.EnsureAdmin(ctx, users, ids, passwords, seed.Admin{
			Email:    cfg.Seed.Email,
			Password: cfg.Seed.Password,
			Phone:    cfg.Seed.Phone,
			FullName: cfg.Seed.FullName,
		}, logger.Component("seed")); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	// The dispatcher outlives the HTTP server so in-flight OTPs are drained.
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	defer stopDispatch()
	dispatcher := notify.NewDispatcher(cfg.Notifier.Workers, cfg.Notifier.Buffer, sink, logger.Component("notify"))
	dispatcher.Start(dispatchCtx)

	auth := service.NewAuthService(service.AuthDeps{
		Users:     users,
		IDs:       ids,
		Passwords: passwords,
		OTPs:      otp.NewGenerator(cfg.Auth.OTPTTL),
		Tokens:    tokens,
		Notifier:  dispatcher,
		Log:       log,
	}, service.AuthSettings{
		MaxOTPAttempts:     cfg.Auth.OTPMaxAttempts,
		RetainPlaintextCIN: cfg.Auth.RetainPlaintextCIN,
	})

	e := api.NewRouter(api.Deps{
		Auth:       auth,
		Users:      service.NewUserService(users, log),
		Tokens:     tokens,
		Limiter:    limiter,
		Checks:     checks,
		Log:        logger.Component("http"),
		CORSOrigin: cfg.CORSOrigin,
		Version:    version,
	})

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := e.Shutdown(shutdownCtx)

		stopDispatch()
		dispatcher.Wait()
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("goodbye")
	return nil
}

// openStore selects the identity store and registers its readiness check.
func openStore(
	ctx context.Context,
	cfg *config.Config,
	checks map[string]handler.Checker,
	log zerolog.Logger,
) (ports.UserRepository, func(), error) {
	if cfg.StoreDriver != config.StoreMongo {
		log.Warn().Msg("using in-memory identity store, data is lost on restart")
		return memory.NewUserRepository(), func() {}, nil
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}

	repo := mongodb.NewUserRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("mongo indexes: %w", err)
	}
	checks["mongodb"] = mongodb.Ping(db)
	return repo, closeFn, nil
}

func openNotifier(cfg *config.Config, log zerolog.Logger) (ports.Notifier, func(), error) {
	if cfg.Notifier.Driver != config.NotifierKafka {
		return notify.NewLogNotifier(logger.Component("sms")), func() {}, nil
	}

	kn, err := notify.NewKafkaNotifier(notify.KafkaConfig{
		Brokers: cfg.Notifier.KafkaBrokers,
		Topic:   cfg.Notifier.KafkaTopic,
	}, logger.Component("sms"))
	if err != nil {
		return nil, nil, err
	}
	return kn, func() {
		if err := kn.Close(); err != nil {
			log.Warn().Err(err).Msg("kafka writer close failed")
		}
	}, nil
}
