package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/financehub/financehub-web/config"
	redisadapter "github.com/financehub/financehub-web/internal/adapters/redis"
	"github.com/financehub/financehub-web/internal/service"
)

const defaultShutdownTimeout = 10 * time.Second

// ServiceContainer holds the services behind the shell.
// Every field is nil when authentication is disabled.
type ServiceContainer struct {
	Auth        *service.AuthService
	CurrentUser *service.CurrentUserService
	Logouts     *service.LogoutDispatcher
}

// ServiceDeps contains dependencies for service construction.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires auth, the current-user lookup and background logout.
func NewServices(deps *ServiceDeps) ServiceContainer {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var users *redisadapter.UserCache
	if deps.RedisClient != nil {
		users = redisadapter.NewUserCache(deps.RedisClient)
	}

	authCfg := AuthConfig{
		Auth:          deps.Config.Auth,
		SessionPrefix: deps.Config.Session.KeyPrefix,
		RedisClient:   deps.RedisClient,
		Logger:        logger,
	}
	if users != nil {
		authCfg.Users = users
	}
	auth := BuildAuthService(authCfg)
	if auth == nil {
		return ServiceContainer{}
	}

	userOpts := service.CurrentUserServiceOptions{
		Sessions: auth,
		TTL:      deps.Config.Session.UserCacheTTL,
		Logger:   logger,
	}
	if users != nil {
		userOpts.Cache = users
	}

	return ServiceContainer{
		Auth:        auth,
		CurrentUser: service.NewCurrentUserService(userOpts),
		Logouts: service.NewLogoutDispatcher(service.LogoutDispatcherOptions{
			Sessions: auth,
			Timeout:  deps.Config.Session.LogoutTimeout,
			Logger:   logger,
		}),
	}
}

// ServiceOrchestrationConfig contains everything needed to run the web shell.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// RunServicesWithShutdown starts the HTTP server and manages its lifecycle.
// This function blocks until a shutdown signal is received or the server fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	errCh := make(chan error, 1)
	server := StartHTTPServer(&HTTPServerConfig{
		Config:      cfg.Config,
		Services:    cfg.Services,
		RedisClient: cfg.RedisClient,
		Logger:      logger,
		ErrCh:       errCh,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return waitForShutdown(shutdownConfig{
		quit:       quit,
		errCh:      errCh,
		httpServer: server,
		logouts:    cfg.Services.Logouts,
		timeout:    cfg.Config.HTTP.Timeouts.Shutdown,
		logger:     logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	quit       <-chan os.Signal
	errCh      <-chan error
	httpServer *http.Server
	logouts    *service.LogoutDispatcher
	timeout    time.Duration
	logger     *slog.Logger
}

// waitForShutdown waits for shutdown signal or server error.
func waitForShutdown(cfg shutdownConfig) error {
	select {
	case <-cfg.quit:
		cfg.logger.Info("shutting down services...")
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop stops accepting requests, then lets in-flight logouts finish.
func gracefulStop(cfg shutdownConfig) error {
	timeout := cfg.timeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if err := ShutdownHTTPServer(ShutdownConfig{
		Context: ctx,
		Server:  cfg.httpServer,
		Logger:  cfg.logger,
	}); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}

	if err := cfg.logouts.Wait(ctx); err != nil {
		cfg.logger.Warn("timeout waiting for logouts to finish", "error", err)
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
