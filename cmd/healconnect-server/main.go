package main

import (
	"context"
	crypto_rand "crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/config"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/domain/careresource"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/domain/homework"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/domain/journal"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/domain/prompt"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/domain/reminder"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/domain/treatment"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/domain/user"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/audit"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/auth"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/db"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/middleware"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/policy"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/session"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "healconnect-server",
		Short: "HealConnect client portal API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the portal API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Rollback last migration (not supported)",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("WARNING: migrate down is destructive and not supported by the built-in runner.")
			fmt.Println("Restore from a backup or write a forward migration instead.")
			return nil
		},
	})

	return cmd
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create initial portal accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := user.NewService(user.NewRepoPG(pool))

			seeds := []struct {
				email, name, role, password string
			}{
				{"therapist@example.com", "Demo Therapist", auth.RoleTherapist, "changeme-therapist"},
				{"admin@example.com", "Demo Office Admin", auth.RoleOfficeAdmin, "changeme-admin"},
				{"client@example.com", "Demo Client", auth.RoleClient, "changeme-client"},
			}

			for _, s := range seeds {
				if existing, err := svc.GetByEmail(ctx, s.email); err == nil && existing != nil {
					fmt.Printf("skipping %s: already exists\n", s.email)
					continue
				}
				u := &user.User{Email: s.email, Name: s.name, Role: s.role}
				if err := svc.Create(ctx, u, s.password); err != nil {
					return fmt.Errorf("seed %s: %w", s.email, err)
				}
				fmt.Printf("created %s (%s)\n", s.email, s.role)
			}
			return nil
		},
	}
	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// In standalone mode without a configured key, issue sessions against an
	// ephemeral key. Restarting the server invalidates all tokens.
	signingKey := cfg.JWTSigningKey
	if cfg.ResolvedAuthMode() == "standalone" && signingKey == "" {
		buf := make([]byte, 32)
		if _, err := crypto_rand.Read(buf); err != nil {
			logger.Fatal().Err(err).Msg("failed to generate signing key")
		}
		signingKey = hex.EncodeToString(buf)
		logger.Warn().Msg("JWT_SIGNING_KEY not set; using an ephemeral key, sessions will not survive a restart")
	}

	// Core services shared across handlers
	auditSvc := audit.NewService(audit.NewRepoPG(pool), logger)
	monitor := session.NewMonitor(session.NewStorePG(pool), time.Duration(cfg.SessionTimeoutMinutes)*time.Minute)
	userSvc := user.NewService(user.NewRepoPG(pool))

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware
	jwtCfg := auth.JWTConfig{
		Issuer:   cfg.AuthIssuer,
		Audience: cfg.AuthAudience,
		JWKSURL:  cfg.AuthJWKSURL,
	}
	if cfg.ResolvedAuthMode() == "standalone" {
		jwtCfg = auth.JWTConfig{SigningKey: []byte(signingKey)}
	}
	e.Use(auth.JWTMiddleware(jwtCfg))
	e.Use(auth.ResolveRoleMiddleware(userSvc))
	e.Use(middleware.SessionActivity(monitor, auditSvc))
	e.Use(middleware.AccessLog(logger))

	// API group
	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Identity and sessions
	userHandler := user.NewHandler(userSvc, auditSvc, audit.NewLoginAttemptRepoPG(pool), monitor, signingKey)
	userHandler.RegisterRoutes(apiV1)

	sessionHandler := session.NewHandler(monitor)
	sessionHandler.RegisterRoutes(apiV1)

	// Journals
	journalSvc := journal.NewService(journal.NewRepoPG(pool))
	journalHandler := journal.NewHandler(journalSvc, auditSvc)
	journalHandler.RegisterRoutes(apiV1)

	// Journaling prompts
	promptSvc := prompt.NewService(prompt.NewRepoPG(pool))
	promptHandler := prompt.NewHandler(promptSvc, auditSvc)
	promptHandler.RegisterRoutes(apiV1)

	// Care resources
	resourceSvc := careresource.NewService(careresource.NewRepoPG(pool))
	resourceHandler := careresource.NewHandler(resourceSvc, auditSvc)
	resourceHandler.RegisterRoutes(apiV1)

	// Homework
	homeworkSvc := homework.NewService(homework.NewRepoPG(pool))
	homeworkHandler := homework.NewHandler(homeworkSvc, auditSvc)
	homeworkHandler.RegisterRoutes(apiV1)

	// Reminders
	reminderSvc := reminder.NewService(reminder.NewRepoPG(pool))
	reminderHandler := reminder.NewHandler(reminderSvc, auditSvc)
	reminderHandler.RegisterRoutes(apiV1)

	// Treatment plans
	treatmentSvc := treatment.NewService(
		treatment.NewPlanRepoPG(pool),
		treatment.NewGoalRepoPG(pool),
		treatment.NewObjectiveRepoPG(pool),
		treatment.NewProgressRepoPG(pool),
	)
	chain := policy.NewChainResolver(treatment.NewSourcePG(pool))
	treatmentHandler := treatment.NewHandler(treatmentSvc, chain, auditSvc, logger)
	treatmentHandler.RegisterRoutes(apiV1)

	// Audit trail and disclosures
	auditHandler := audit.NewHandler(auditSvc, audit.NewDisclosureRepoPG(pool))
	auditHandler.RegisterRoutes(apiV1)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("auth_mode", cfg.ResolvedAuthMode()).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
