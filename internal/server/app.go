// Package server initializes and runs the SafeDrive vault server: it opens
// the database, runs migrations, wires the services, and serves the HTTP API
// until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/safedrive/safedrive/internal/cryptox"
	"github.com/safedrive/safedrive/internal/logging"
	"github.com/safedrive/safedrive/internal/server/config"
	"github.com/safedrive/safedrive/internal/server/httpapi"
	"github.com/safedrive/safedrive/internal/server/repositories/repomanager"
	"github.com/safedrive/safedrive/internal/server/services"
	"github.com/safedrive/safedrive/internal/server/storage"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func newLogger(backend string) logging.Logger {
	if backend == "zerolog" {
		return logging.NewZerologLogger(zerolog.New(os.Stdout).With().Timestamp().Logger())
	}
	return logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := newLogger(cfg.LogBackend)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	manager := repomanager.NewPostgresRepositoryManager()
	if err := manager.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	cipher, err := cryptox.NewCipher(cfg.EncryptionSecret)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("cipher init error: %w", err)
	}

	blobs, err := storage.NewS3Store(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("object storage init error: %w", err)
	}

	userService := services.NewUserService(db, manager, cfg)
	credentialService := services.NewCredentialService(db, manager, cipher)
	noteService := services.NewNoteService(db, manager)
	fileService := services.NewFileService(db, manager, blobs)

	handler := httpapi.NewHandler(userService, credentialService, noteService, fileService, logger)
	router := httpapi.NewRouter(handler, []byte(cfg.SecretKey), logger)
	srv := httpapi.NewServer(cfg.EndpointAddr, router, logger)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

// Run serves until SIGINT/SIGTERM/SIGQUIT or a server error.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sigs
		cancel()
	}()

	app.logger.Info(ctx, "starting app")

	err := app.server.Run(ctx)

	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "error closing db", "error", cerr.Error())
	}

	return err
}
