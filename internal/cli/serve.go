package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/quiz-session-service/internal/auth"
	"github.com/SAP-F-2025/quiz-session-service/internal/config"
	"github.com/SAP-F-2025/quiz-session-service/internal/handlers"
	"github.com/SAP-F-2025/quiz-session-service/internal/seed"
	"github.com/SAP-F-2025/quiz-session-service/internal/services"
	"github.com/SAP-F-2025/quiz-session-service/internal/utils"
	"github.com/SAP-F-2025/quiz-session-service/internal/validator"
	"github.com/SAP-F-2025/quiz-session-service/pkg"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd builds the CLI subcommand that runs the HTTP API.
func NewServeCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	var (
		port     string
		migrate  bool
		seedFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz session API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			return runServer(cmd.Context(), cfg, migrate, seedFile)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "port to listen on (overrides PORT)")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "run database migrations before serving")
	cmd.Flags().StringVar(&seedFile, "seed", "", "seed the question bank from a YAML file before serving")
	return cmd
}

// checkIdentityConfig refuses to serve production traffic on trusted identity headers.
func checkIdentityConfig(cfg *config.Config) error {
	if cfg.IsProduction() && !cfg.Casdoor.Enabled() {
		return errors.New("casdoor must be configured when ENVIRONMENT=production")
	}
	return nil
}

func runServer(ctx context.Context, cfg *config.Config, migrate bool, seedFile string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := checkIdentityConfig(cfg); err != nil {
		return err
	}
	logger := utils.NewLogger(cfg.Environment)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := openStores(ctx, cfg, logger.Slog())
	if err != nil {
		return err
	}
	defer st.Close()

	if migrate && st.db != nil {
		if err := pkg.AutoMigrate(st.db); err != nil {
			return err
		}
		logger.Info("Database migrations applied")
	}

	v := validator.New()

	if seedFile != "" {
		seeder := seed.NewSeeder(st.repo.Categories(), st.questions, v, logger.Slog())
		if _, err := seeder.SeedFile(ctx, seedFile); err != nil {
			return err
		}
	}

	publisher, err := newPublisher(cfg, logger.Slog())
	if err != nil {
		return err
	}
	defer publisher.Close()

	serviceManager := services.NewServiceManager(services.Dependencies{
		Repo:      st.repo,
		Questions: st.questions,
		Sequences: st.sequences,
		Publisher: publisher,
		Validator: v,
		Logger:    logger.Slog(),
		Debug:     !cfg.IsProduction(),
	})

	var parser auth.TokenParser
	if cfg.Casdoor.Enabled() {
		parser = auth.NewCasdoorParser(cfg.Casdoor)
	} else {
		logger.Warn("Casdoor not configured, trusting identity headers", "header", auth.HeaderUserID)
	}
	authMiddleware := auth.NewMiddleware(parser, st.repo.Users(), logger)

	handlerManager := handlers.NewHandlerManager(serviceManager, authMiddleware, logger)
	router := handlerManager.NewRouter(cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting quiz session service",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"storage", cfg.StorageDriver,
			"sequence_store", cfg.SequenceStore)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		logger.Info("Shutting down server")
	case <-ctx.Done():
		logger.Info("Context canceled, shutting down server")
	case err := <-errCh:
		logger.LogError(err, "Server failed")
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
