package main

import (
	"fmt"

	"github.com/jonathan/evidence-matcher/internal/cache"
	"github.com/jonathan/evidence-matcher/internal/config"
	"github.com/jonathan/evidence-matcher/internal/db"
	"github.com/jonathan/evidence-matcher/internal/server"
	"github.com/jonathan/evidence-matcher/internal/server/ratelimit"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes evidence matching and saved results.

PostgreSQL (DATABASE_URL) backs the history endpoints and Redis (REDIS_HOST)
backs cached searches. Either may be unavailable; the endpoints that need it
then answer 503. Setting JWT_SECRET requires bearer tokens for history writes.`,
	RunE: runServe,
}

var serveMigrate bool

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply pending database migrations before serving")
	addDatabaseFlag(serveCmd)
	addMatcherFlags(serveCmd)

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	m, err := cfg.NewMatcher()
	if err != nil {
		return fmt.Errorf("failed to create matcher: %w", err)
	}
	deps := server.Deps{Matcher: m, Logger: log}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		if serveMigrate {
			if err := database.Migrate(ctx); err != nil {
				return err
			}
		}
		deps.Store = database
	} else {
		log.Warn("no database configured; history endpoints are disabled")
	}

	c, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.CacheExpiration())
	if err != nil {
		log.Warn("cache unavailable; cached searches are disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	} else {
		defer c.Close() //nolint:errcheck
		deps.Cache = c
	}

	jwtCfg, err := config.JWTFromEnv()
	if err != nil {
		return err
	}
	if jwtCfg != nil {
		deps.Auth = server.NewJWTService(jwtCfg).AsTokenValidator()
	} else {
		log.Warn("JWT_SECRET not set; history endpoints accept anonymous writes")
	}

	deps.RateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	srv, err := server.New(server.Config{
		Port:           cfg.Port,
		AllowedOrigins: cfg.AllowedOrigins,
	}, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
