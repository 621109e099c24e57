// @title        Todo API
// @version      1.0
// @description  Per-user todo lists with bearer-token authentication.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/todoapp/todo-api/internal/api"
	"github.com/todoapp/todo-api/internal/core/ports"
	"github.com/todoapp/todo-api/internal/core/service"
	"github.com/todoapp/todo-api/internal/core/validation"
	mongostore "github.com/todoapp/todo-api/internal/infrastructure/db/mongo"
	"github.com/todoapp/todo-api/internal/infrastructure/db/postgres"
	redisstore "github.com/todoapp/todo-api/internal/infrastructure/db/redis"
	"github.com/todoapp/todo-api/internal/infrastructure/http/handlers"
	"github.com/todoapp/todo-api/internal/pkg/config"
	"github.com/todoapp/todo-api/pkg/logger"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "todo-api",
	})
	log.Info().Str("version", buildVersion).Str("commit", buildCommit).Str("store", cfg.StoreDriver).Msg("starting")

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("shutdown complete")
}

// store is the persistence backend chosen at startup.
type store struct {
	users ports.UserRepository
	todos ports.TodoRepository
	ping  handlers.Check
	close func(context.Context) error
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &store{
			users: mongostore.NewUserRepository(db),
			todos: mongostore.NewTodoRepository(db),
			ping:  mongostore.Pinger{Client: client}.Ping,
			close: client.Disconnect,
		}, nil
	default:
		db, err := postgres.Open(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &store{
			users: postgres.NewUserRepository(db),
			todos: postgres.NewTodoRepository(db),
			ping:  db.PingContext,
			close: func(context.Context) error { return db.Close() },
		}, nil
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer func() {
		if err := st.close(context.Background()); err != nil {
			log.Error().Err(err).Msg("store close")
		}
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer rdb.Close()

	validate := validation.New()
	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL,
		redisstore.NewDenylist(rdb), logger.Component(log, "tokens"))
	authService := service.NewAuthService(st.users, tokens, validate, logger.Component(log, "auth"))
	todoService := service.NewTodoService(st.todos, validate, cfg.Pagination.MaxPerPage, logger.Component(log, "todos"))

	e := api.NewRouter(api.Deps{
		Log:         logger.Component(log, "http"),
		AuthService: authService,
		TodoService: todoService,
		Tokens:      tokens,
		HealthChecks: map[string]handlers.Check{
			cfg.StoreDriver: st.ping,
			"redis":         redisstore.Pinger{Client: rdb}.Ping,
		},
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		log.Info().Msg("received interruption signal, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
