package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/secugard/secugard/internal/apiserver/database"
	"github.com/secugard/secugard/internal/apiserver/handler"
	"github.com/secugard/secugard/internal/auth/acl"
	"github.com/secugard/secugard/internal/auth/jwt"
	"github.com/secugard/secugard/internal/common/config"
	"github.com/secugard/secugard/internal/common/errorx"
	"github.com/secugard/secugard/internal/core/plan"
	"github.com/secugard/secugard/internal/i18n"
	"github.com/secugard/secugard/pkg/logger"
	"github.com/secugard/secugard/pkg/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of apiserver",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("apiserver version %s\n", version.Get())
		},
	}

	rootCmd = &cobra.Command{
		Use:   "apiserver",
		Short: "Guard patrol back-office API server",
		Long:  `apiserver exposes the guard patrol back office: sites, zones, checkpoint tags, weekly plannings and generated patrol logs`,
		Run: func(cmd *cobra.Command, args []string) {
			run()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "conf", "configs/apiserver.yaml", "path to configuration file")
	rootCmd.AddCommand(versionCmd)
}

func run() {
	cfg, cfgPath, err := config.LoadConfig[config.APIServerConfig](configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", cfgPath, err)
	}

	zapLogger, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	zapLogger.Info("starting apiserver",
		zap.String("version", version.Get()),
		zap.String("config", cfgPath))

	if cfg.I18n.Path != "" {
		if err := i18n.InitTranslator(cfg.I18n.Path); err != nil {
			zapLogger.Warn("failed to load translations", zap.Error(err))
		}
	}

	store, err := database.NewDBStore(zapLogger, &cfg.Database)
	if err != nil {
		zapLogger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	if err := database.InitSuperAdmin(ctx, store, &cfg.SuperAdmin, zapLogger); err != nil {
		zapLogger.Fatal("failed to initialize super admin", zap.Error(err))
	}

	jwtService, err := jwt.NewService(cfg.JWT.SecretKey, cfg.JWT.Duration)
	if err != nil {
		zapLogger.Fatal("failed to initialize JWT service", zap.Error(err))
	}

	errs := errorx.NewErrorHandler(zapLogger, i18n.GetTranslator())
	engine := plan.NewEngine(store, zapLogger)
	h := handler.NewHandler(store, zapLogger, jwtService, acl.NewStoreChecker(store), engine, errs)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	h.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		zapLogger.Info("listening", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("forced shutdown", zap.Error(err))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
