package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	_ "github.com/redmonkez12/cvbuilder/docs" // Swagger docs (generated)
	"github.com/redmonkez12/cvbuilder/internal/auth"
	"github.com/redmonkez12/cvbuilder/internal/config"
	"github.com/redmonkez12/cvbuilder/internal/database"
	httpServer "github.com/redmonkez12/cvbuilder/internal/http"
	"github.com/redmonkez12/cvbuilder/internal/logging"
	"github.com/redmonkez12/cvbuilder/internal/ratelimit"
	"github.com/redmonkez12/cvbuilder/internal/render"
	"github.com/redmonkez12/cvbuilder/internal/resume"
	"github.com/redmonkez12/cvbuilder/internal/user"
)

// @title           CV Builder API
// @version         1.0
// @description     Accounts and owner-scoped resume documents with server-rendered previews.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

// stores is the pair of repositories backing one driver
type stores struct {
	users   user.Repository
	resumes resume.Repository
	// cascades is true when deleting a user removes their resumes without help
	cascades bool
	close    func() error
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"store", cfg.Store.Driver,
		"token", cfg.Auth.Strategy,
	)

	ctx := context.Background()

	st, err := initStores(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize %s store: %w", cfg.Store.Driver, err)
	}
	defer st.close()

	// Redis backs rate limiting and token revocation. Without it both are off.
	var (
		rateLimiter auth.RateLimiter
		revoker     auth.TokenRevoker
	)
	if cfg.Redis.Enabled {
		redisClient, err := initRedis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to initialize Redis: %w", err)
		}
		defer redisClient.Close()

		rateLimiter = ratelimit.NewLimiter(redisClient, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
		revoker = auth.NewRedisRevocationStore(redisClient)
	} else {
		logger.Warn("redis disabled, rate limiting and token revocation are off")
	}

	tokens, err := initTokens(cfg.Auth)
	if err != nil {
		return err
	}

	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("failed to parse resume templates: %w", err)
	}

	resumeService := resume.NewService(st.resumes, renderer, logger)

	var cleaner auth.OwnerCleaner
	if !st.cascades {
		cleaner = resumeService
	}
	authService := auth.NewService(st.users, tokens, revoker, cleaner, logger, cfg.Auth.TokenDuration)

	router := httpServer.NewRouter(
		cfg,
		auth.NewHandler(authService, rateLimiter),
		auth.NewMiddleware(authService),
		resume.NewHandler(resumeService, cfg.Server.MaxBodyBytes),
		logger,
	)

	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

func initStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := initDB(cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.CreateSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &stores{
			users:    user.NewBunRepository(db),
			resumes:  resume.NewBunRepository(db),
			cascades: true,
			close:    db.Close,
		}, nil

	case config.DriverMongo:
		client, err := database.NewMongoClient(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.Mongo.Database)
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &stores{
			users:   user.NewMongoRepository(db),
			resumes: resume.NewMongoRepository(db),
			close: func() error {
				return client.Disconnect(context.Background())
			},
		}, nil

	default:
		return &stores{
			users:   user.NewMemoryRepository(),
			resumes: resume.NewMemoryRepository(),
			close:   func() error { return nil },
		}, nil
	}
}

// initDB initializes the database connection and returns a Bun DB instance
func initDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return database.NewBunDB(sqlDB), nil
}

// initRedis initializes the Redis connection and returns a Redis client
func initRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}

func initTokens(cfg config.AuthConfig) (auth.TokenService, error) {
	if cfg.Strategy == config.TokenJWT {
		svc, err := auth.NewJWTService(cfg.JWTSecret)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
		}
		return svc, nil
	}

	svc, err := auth.NewPasetoService(cfg.PasetoKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PASETO service: %w", err)
	}
	return svc, nil
}
