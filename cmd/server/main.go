package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/painel/internal/auth"
	"github.com/JonMunkholm/painel/internal/config"
	"github.com/JonMunkholm/painel/internal/core"
	"github.com/JonMunkholm/painel/internal/database"
	"github.com/JonMunkholm/painel/internal/logging"
	"github.com/JonMunkholm/painel/internal/mask"
	"github.com/JonMunkholm/painel/internal/web"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_max_conns", cfg.Database.MaxConns,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"redis", cfg.Redis.URL != "",
	)

	if cfg.Database.MigrateOnStart {
		if err := database.Migrate(cfg.Database.URL); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Revocations live in Redis when configured so every replica sees a
	// logout; otherwise they are kept in process.
	var revoked auth.Revocations
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			slog.Error("failed to parse redis URL", "error", err)
			os.Exit(1)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Error("failed to ping redis", "error", err)
			os.Exit(1)
		}
		revoked = auth.NewRedisRevocations(rdb, cfg.Redis.KeyPrefix)
		slog.Info("using redis for token revocation", "addr", opts.Addr)
	} else {
		revoked = auth.NewMemoryRevocations()
	}

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	authSvc := auth.NewService(database.NewUserStore(pool), tokens, revoked)
	service := core.NewService(authSvc, revoked,
		core.WithLoginLimiter(core.NewLoginLimiter(cfg.Rate.MaxConcurrentLogins, cfg.Rate.LoginQueueWait)),
	)

	if cfg.Auth.SeedAdmin() {
		if err := service.SeedAdmin(ctx, cfg.Auth.AdminName, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, cfg.Auth.AdminDocumento); err != nil {
			slog.Error("failed to seed admin account", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("document kinds registered", "kinds", mask.Kinds())

	server := web.NewServer(service, cfg, web.WithPinger("database", pool))

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())

	go service.StartRevocationJanitor(jobCtx, cfg.Janitor.Interval)
	server.StartJanitors(jobCtx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := serve(server, service, sigCh, cancelJobs, cfg.Server.ShutdownTimeout); err != nil {
		slog.Error("server error", "error", err)
	}
}
