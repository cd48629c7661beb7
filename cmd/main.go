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

	"google.golang.org/grpc/reflection"

	"github.com/dtroode/authgate/internal/api/grpc/health"
	grpcRouter "github.com/dtroode/authgate/internal/api/grpc/router"
	grpcServer "github.com/dtroode/authgate/internal/api/grpc/server"
	httpctx "github.com/dtroode/authgate/internal/api/http/context"
	httpRouter "github.com/dtroode/authgate/internal/api/http/router"
	httpServer "github.com/dtroode/authgate/internal/api/http/server"
	"github.com/dtroode/authgate/internal/config"
	"github.com/dtroode/authgate/internal/logger"
	"github.com/dtroode/authgate/internal/model"
	"github.com/dtroode/authgate/internal/password"
	"github.com/dtroode/authgate/internal/repository/memory"
	"github.com/dtroode/authgate/internal/repository/postgres"
	"github.com/dtroode/authgate/internal/server"
	"github.com/dtroode/authgate/internal/service"
	"github.com/dtroode/authgate/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	signalCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(signalCtx)
	defer cancel()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.NewWithFormat(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	userStore, closeStore := newUserStore(ctx, cfg, logger)
	defer closeStore()

	tokenManager, err := token.NewJWT(cfg.JWT.Secret)
	if err != nil {
		logger.Fatal("failed to initialize token manager", "error", err)
	}
	hasher := password.NewBcrypt(password.DefaultCost)

	authService := service.NewAuth(userStore, hasher, tokenManager, logger)
	tokenService := service.NewTokenService(tokenManager, logger)
	ctxMgr := httpctx.NewManager()

	app := httpRouter.New(authService, tokenService, ctxMgr, logger, httpRouter.Config{
		BodyLimit:   cfg.HTTP.BodyLimit,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	}).Register()
	api := httpServer.NewHTTPServer(app, fmt.Sprintf(":%s", cfg.HTTP.Port))
	apiSecurity := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)

	checker := health.NewChecker(userStore, cfg.Health.Interval, logger)
	probe := registerGRPCServer(checker, logger, fmt.Sprintf(":%s", cfg.GRPC.Port))

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		checker.Run(ctx)
	}()

	startServer(&wg, logger, api, apiSecurity, cancel)
	startServer(&wg, logger, probe, server.NewPlainListener(), cancel)

	logAppVersion()

	<-ctx.Done()
	if signalCtx.Err() != nil {
		logger.Info("received interruption signal, shutting down")
	} else {
		logger.Info("server failed to start, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	for _, s := range []model.Server{api, probe} {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// newUserStore returns the postgres store when a DSN is configured and the
// in-memory store otherwise, along with a function releasing it.
func newUserStore(ctx context.Context, cfg *config.Config, logger *logger.Logger) (model.UserStore, func()) {
	if cfg.Database.DSN == "" {
		logger.Warn("DATABASE_DSN is empty, users are kept in memory")
		return memory.NewUserRepository(), func() {}
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}
	return postgres.NewUserRepository(db, cfg.Database.QueryTimeout), closeDB
}

// startServer runs s in the background. A server that fails to start
// cancels the root context so the rest of the process shuts down with it.
func startServer(wg *sync.WaitGroup, logger *logger.Logger, s model.Server, sl model.SecurityLayer, cancel context.CancelFunc) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err, "address", s.Address())
			cancel()
		}
	}()
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func registerGRPCServer(checker *health.Checker, logger *logger.Logger, addr string) *grpcServer.GRPCServer {
	s := grpcRouter.New(checker.Server(), logger).Register()

	reflection.Register(s)

	return grpcServer.NewGRPCServer(s, addr)
}
