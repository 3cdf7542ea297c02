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

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"civicsync/config"
	"civicsync/metrics"
	"civicsync/middlewares"
	"civicsync/models"
	"civicsync/routes"
	"civicsync/session"
	"civicsync/store"
)

const (
	demoEmail     = "john.doe@example.com"
	sweepInterval = 5 * time.Minute
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}

// run returns instead of exiting so deferred cleanup always happens.
func run() error {
	loadedEnv := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := config.NewLogger(os.Stdout, cfg.LogLevel)
	if !loadedEnv {
		log.Info("No .env file found")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	issues, closeIssues, err := buildIssueSource(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to set up issue store: %w", err)
	}
	defer closeIssues()

	directory := store.NewMemoryIdentityStore(time.Now, store.DemoIdentity(demoEmail))
	placeholder := store.NewPlaceholderIdentitySource(
		cfg.PlaceholderAPIURL,
		store.NewSafeHTTPClient(cfg.PlaceholderAPITimeout),
	)

	var sessionStore session.Store
	var quota middlewares.IssueQuota
	if cfg.RedisAddress != "" {
		rdb, err := config.ConnectRedis(ctx, cfg.RedisAddress, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer closeRedis(rdb, log)
		log.Info("Redis connection established successfully!")

		sessionStore = session.NewRedisStore(rdb, "session")
		quota = middlewares.NewRedisQuota(rdb, cfg.IssueQueuePrefix, cfg.IssueDailyLimit, 24*time.Hour)
	} else {
		memorySessions := session.NewMemoryStore(time.Now)
		localQuota := middlewares.NewLocalQuota(cfg.IssueDailyLimit, 24*time.Hour)
		go sweep(ctx, sweepInterval, memorySessions.Sweep, localQuota.Sweep)

		sessionStore = memorySessions
		quota = localQuota
	}

	var authenticator session.Authenticator = session.MockAuthenticator{Delay: cfg.LoginDelay}
	if cfg.AuthMode == config.AuthModeDirectory {
		authenticator = session.DirectoryAuthenticator{Directory: directory}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := routes.NewRouter(routes.Dependencies{
		Config:     cfg,
		Log:        log,
		Metrics:    metrics.NewCollector(reg),
		Sessions:   session.NewManager(authenticator, sessionStore, cfg.JWTSecret, cfg.SessionTTL),
		Issues:     issues,
		Directory:  directory,
		Identities: store.IdentityChain{directory, placeholder},
		Quota:      quota,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.WithFields(logrus.Fields{"port": cfg.Port, "auth_mode": cfg.AuthMode}).Info("server starting")
	return serve(ctx, srv, log)
}

// serve runs srv until ctx is done or the listener fails, then shuts it down.
func serve(ctx context.Context, srv *http.Server, log *logrus.Logger) error {
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// sweep runs the cleanup functions every interval until ctx is done.
func sweep(ctx context.Context, every time.Duration, fns ...func()) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, fn := range fns {
				fn()
			}
		}
	}
}

// buildIssueSource picks MongoDB when MONGODB_URI is set and the in-memory
// store otherwise.
func buildIssueSource(ctx context.Context, cfg *config.Config, log *logrus.Logger) (store.IssueSource, func(), error) {
	if cfg.MongoURI == "" {
		var seed []models.Issue
		if cfg.SeedFixtures {
			seed = store.FixtureIssues()
		}
		log.WithField("issues", len(seed)).Info("using in-memory issue store")
		return store.NewMemoryIssueStore(time.Now, seed...), func() {}, nil
	}

	client, err := config.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	log.Info("MongoDB connection established successfully!")

	closeFn := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.WithError(err).Error("failed to disconnect MongoDB")
		}
	}

	mongoStore := store.NewMongoIssueStore(client.Database(cfg.MongoDatabase), time.Now)
	if cfg.SeedFixtures {
		if err := mongoStore.Seed(ctx, store.FixtureIssues()); err != nil {
			closeFn()
			return nil, nil, err
		}
	}
	return mongoStore, closeFn, nil
}

func closeRedis(rdb *redis.Client, log *logrus.Logger) {
	if err := rdb.Close(); err != nil {
		log.WithError(err).Error("failed to close Redis client")
	}
}
