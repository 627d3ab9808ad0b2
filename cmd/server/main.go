package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	httpdelivery "github.com/routesafe/backend/internal/delivery/http"
	"github.com/routesafe/backend/internal/repository/postgres"
	"github.com/routesafe/backend/internal/service"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "routesafe",
		Short: "Route hazard analysis - sharp turn and blind spot detection",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := godotenv.Load(); err != nil {
				log.Println("No .env file found, using system environment")
			}
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type Config struct {
	DatabaseURL         string
	BlindSpotServiceURL string
	Port                string
	Env                 string
	AnalysisTimeout     time.Duration
	MaxScanWindows      int
}

func loadConfig() *Config {
	timeout := 30 * time.Second
	if v := os.Getenv("ANALYSIS_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
	}

	maxWindows := 0
	if v := os.Getenv("MAX_SCAN_WINDOWS"); v != "" {
		maxWindows, _ = strconv.Atoi(v)
	}

	return &Config{
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		BlindSpotServiceURL: getEnv("BLINDSPOT_SERVICE_URL", "http://localhost:8090"),
		Port:                getEnv("PORT", "8080"),
		Env:                 getEnv("GO_ENV", "development"),
		AnalysisTimeout:     timeout,
		MaxScanWindows:      maxWindows,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// buildServices wires the repositories and domain services. Without a
// database the in-memory repository backs everything, matching the
// databaseless demo mode.
func buildServices(cfg *Config) (*service.RouteService, *service.AnalysisService, service.HazardRepository, func()) {
	var (
		routeRepo  service.RouteRepository
		hazardRepo service.HazardRepository
		cleanup    = func() {}
	)

	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err == nil {
			repo := postgres.NewRepository(pool)
			routeRepo = repo
			hazardRepo = repo
			cleanup = pool.Close
			log.Println("Connected to PostgreSQL")
		} else {
			log.Printf("Warning: Could not connect to database: %v", err)
		}
	}
	if routeRepo == nil {
		log.Println("Running with in-memory storage only")
		mem := postgres.NewMemoryRepository()
		routeRepo = mem
		hazardRepo = mem
	}

	estimator := service.NewEnvironmentEstimator(service.FixedSampler{})
	blindSvc := service.NewBlindSpotBridge(cfg.BlindSpotServiceURL)

	routeSvc := service.NewRouteService(routeRepo)
	analysisSvc := service.NewAnalysisService(routeRepo, hazardRepo, estimator, blindSvc, service.AnalysisConfig{
		Timeout:        cfg.AnalysisTimeout,
		MaxScanWindows: cfg.MaxScanWindows,
	})

	return routeSvc, analysisSvc, hazardRepo, cleanup
}

// serveCmd starts the HTTP API server
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the route analysis API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			routeSvc, analysisSvc, hazardRepo, cleanup := buildServices(cfg)
			defer cleanup()

			app := fiber.New(fiber.Config{
				AppName:      "RouteSafe API v1.0",
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 60 * time.Second,
				ErrorHandler: customErrorHandler,
			})

			app.Use(recover.New())
			app.Use(logger.New(logger.Config{
				Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
			}))
			app.Use(cors.New(cors.Config{
				AllowOrigins: "*",
				AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
				AllowHeaders: "Origin,Content-Type,Accept,Authorization",
			}))

			httpdelivery.SetupRoutes(app, routeSvc, analysisSvc, hazardRepo)

			go func() {
				log.Printf("Server starting on :%s", cfg.Port)
				if err := app.Listen(":" + cfg.Port); err != nil {
					log.Fatalf("Server error: %v", err)
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			log.Println("Shutting down server...")
			if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
				log.Printf("Server forced to shutdown: %v", err)
			}
			log.Println("Server exited gracefully")
			return nil
		},
	}
}

// analyzeCmd runs a single route analysis and prints the result as JSON
func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <route-id>",
		Short: "Run a full hazard analysis for one route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			_, analysisSvc, _, cleanup := buildServices(cfg)
			defer cleanup()

			result, err := analysisSvc.AnalyzeRoute(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

// migrateCmd manages the database schema
func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is not set")
			}
			if err := postgres.MigrateUp(cfg.DatabaseURL); err != nil {
				return err
			}
			log.Println("Migrations applied")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is not set")
			}
			if err := postgres.MigrateDown(cfg.DatabaseURL); err != nil {
				return err
			}
			log.Println("Rolled back one migration")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is not set")
			}
			version, dirty, err := postgres.MigrateVersion(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			log.Printf("Schema version %d (dirty=%v)", version, dirty)
			return nil
		},
	})

	return cmd
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
