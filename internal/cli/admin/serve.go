package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lanewise/lanewise/internal/api/handlers"
	"github.com/lanewise/lanewise/internal/config"
	"github.com/lanewise/lanewise/internal/database"
	"github.com/lanewise/lanewise/internal/domain"
	"github.com/lanewise/lanewise/internal/repository"
	"github.com/lanewise/lanewise/internal/search"
	"github.com/lanewise/lanewise/internal/server"
	"github.com/lanewise/lanewise/internal/telemetry"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the lanewise API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.SentryDSN != "" {
		sampleRate := cfg.SampleRate
		if cfg.Environment == "development" {
			sampleRate = 1.0
		}
		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	shipmentRepo := repository.NewShipmentRepository(pool)
	savedCompanyRepo := repository.NewSavedCompanyRepository(pool)

	searchSvc := search.NewService(shipmentRepo, savedCompanyRepo)

	validator := StaticKeyValidator{}
	if cfg.InitAPIKey != "" {
		validator[cfg.InitAPIKey] = "default"
	}

	routerCfg := server.RouterConfig{
		AuthValidator:  validator,
		SearchHandler:  handlers.NewSearchHandler(searchSvc),
		CompanyHandler: handlers.NewCompanyHandler(savedCompanyRepo),
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.NewRouter(routerCfg),
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

// StaticKeyValidator maps API keys to caller identities. The real
// authentication layer lives outside this service; this adapter is the
// boundary used for local and single-tenant deployments.
type StaticKeyValidator map[string]string

func (v StaticKeyValidator) ValidateAPIKey(ctx context.Context, token string) (string, error) {
	if userID, ok := v[token]; ok {
		return userID, nil
	}
	return "", domain.ErrInvalidAPIKey
}

func runMigrations(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	log.Println("migrations applied")
	return nil
}
