package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"walletgate/internal/audit"
	"walletgate/internal/auth/delivery"
	"walletgate/internal/auth/directory"
	"walletgate/internal/auth/otp"
	authservice "walletgate/internal/auth/service"
	"walletgate/internal/auth/store/challenge"
	credservice "walletgate/internal/credential/service"
	credstore "walletgate/internal/credential/store"
	"walletgate/internal/platform/config"
	"walletgate/internal/platform/database"
	"walletgate/internal/platform/httpserver"
	"walletgate/internal/platform/logger"
	"walletgate/internal/platform/metrics"
	"walletgate/internal/platform/redis"
	"walletgate/internal/platform/tracer"
	httptransport "walletgate/internal/transport/http"
	"walletgate/internal/vault"
	"walletgate/internal/wallet"
	"walletgate/pkg/did"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	log.Info("initializing walletgate",
		"version", did.SDKVersion(),
		"addr", cfg.Addr,
		"challenge_ttl", cfg.ChallengeTTL.String(),
		"device_binding", cfg.DeviceBinding,
	)

	mx := metrics.New()

	db, err := database.New(database.Config{
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    database.DefaultConfig().MaxOpenConns,
		MaxIdleConns:    database.DefaultConfig().MaxIdleConns,
		ConnMaxLifetime: database.DefaultConfig().ConnMaxLifetime,
	})
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := redis.New(cfg.RedisAddr)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}

	// Challenge store: redis when configured, memory otherwise.
	var challenges challenge.Store
	if redisClient != nil {
		challenges = challenge.NewRedisStore(redisClient.Client)
		log.Info("using redis challenge store", "addr", cfg.RedisAddr)
	} else {
		challenges = challenge.NewInMemoryStore()
	}

	// Vault and credential stores: postgres when configured, memory otherwise.
	var (
		seedStore vault.Store
		credStore credstore.Store
	)
	if db != nil {
		seedStore = vault.NewPostgres(db.DB())
		credStore = credstore.NewPostgres(db.DB())
		log.Info("using postgres stores")
	} else {
		seedStore = vault.NewInMemoryStore()
		credStore = credstore.NewInMemoryStore()
	}

	// Audit: kafka sink when configured, memory otherwise.
	var auditStore audit.Store
	if cfg.KafkaBrokers != "" {
		kafkaStore, err := audit.NewKafkaStore(audit.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaAuditTopic,
		})
		if err != nil {
			log.Error("kafka audit sink init failed", "error", err)
			os.Exit(1)
		}
		defer kafkaStore.Close()
		auditStore = kafkaStore
		log.Info("using kafka audit sink", "topic", cfg.KafkaAuditTopic)
	} else {
		auditStore = audit.NewInMemoryStore()
	}
	auditPublisher := audit.NewPublisher(auditStore,
		audit.WithAsyncBuffer(256),
		audit.WithPublisherLogger(log),
	)
	defer auditPublisher.Close()

	dir := directory.NewInMemory(cfg.TokenSigningKey, directory.WithTokenTTL(cfg.TokenTTL))
	seeds := vault.NewService(seedStore, vault.WithLogger(log))

	// OTP codes land in the process-local inbox until a real transport is
	// configured. TODO: SMTP transport behind WALLETGATE_SMTP_ADDR.
	inbox := delivery.NewInbox()
	manager := otp.NewManager(challenges, inbox,
		otp.WithLogger(log),
		otp.WithMetrics(mx),
		otp.WithTTL(cfg.ChallengeTTL),
		otp.WithCodeLength(cfg.OTPLength),
	)

	// The facade options hold every enrollment knob once; the authenticator
	// config is derived from them.
	walletOpts := wallet.Options{
		IssueSignUpCredential:   cfg.IssueSignUpCredential,
		SkipBackupEncryptedSeed: cfg.SkipSeedBackup,
		SkipBackupCredentials:   cfg.SkipCredentialBackup,
		SupportedDIDMethods:     cfg.SupportedDIDMethods,
		DeviceBinding:           cfg.DeviceBinding,
	}
	sessions, err := authservice.New(walletOpts.AuthConfig(),
		manager, dir, seeds,
		authservice.WithLogger(log),
		authservice.WithMetrics(mx),
		authservice.WithAudit(auditPublisher),
	)
	if err != nil {
		log.Error("authenticator init failed", "error", err)
		os.Exit(1)
	}

	credentials := credservice.NewService(credStore, dir,
		credservice.WithLogger(log),
		credservice.WithMetrics(mx),
		credservice.WithAudit(auditPublisher),
	)

	var tr tracer.Tracer = tracer.NewNoop()
	if cfg.TracingEnabled {
		tr = tracer.NewOTel()
	}
	w := wallet.New(walletOpts, sessions, credentials,
		wallet.WithLogger(log),
		wallet.WithTracer(tr),
	)

	handler := httptransport.NewHandler(w, log, mx)
	router := httptransport.NewRouter(handler, log)
	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Expired challenges are swept in the background so stale codes do not
	// accumulate in stores without native TTLs.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.ChallengeTTL)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				removed, err := challenges.DeleteExpired(ctx, time.Now())
				if err != nil {
					log.Warn("challenge sweep failed", "error", err)
					continue
				}
				if removed > 0 {
					log.Info("expired challenges swept", "count", removed)
				}
			}
		}
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
