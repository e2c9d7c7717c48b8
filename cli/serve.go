package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/andrewpaige1/flashgen-api/config"
	"github.com/andrewpaige1/flashgen-api/generator"
	"github.com/andrewpaige1/flashgen-api/handlers"
	"github.com/andrewpaige1/flashgen-api/middleware"
	"github.com/andrewpaige1/flashgen-api/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadDatabaseConfig(flags)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	db, err := config.OpenDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := config.CloseDatabase(db); err != nil {
			log.Printf("serve: failed to close database: %v", err)
		}
	}()
	if err := config.Migrate(db); err != nil {
		return err
	}

	gen, err := newGenerator(ctx, cfg.Generator)
	if err != nil {
		return err
	}

	ensureValidToken, err := middleware.EnsureValidToken(cfg.Auth)
	if err != nil {
		return err
	}

	h := &handlers.Handler{
		Store:     store.NewSetStore(db, cfg.Store.BatchSize),
		Generator: gen,
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(ensureValidToken(h.Routes()))

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           middleware.RequestLogger(corsHandler),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Starting flashgen API on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Println("Server stopped")
	return nil
}

func newGenerator(ctx context.Context, cfg config.GeneratorConfig) (*generator.Generator, error) {
	apiKey, model := cfg.GeminiAPIKey, cfg.GeminiModel
	if cfg.Provider == "openai" {
		apiKey, model = cfg.OpenAIAPIKey, cfg.OpenAIModel
	}
	completer, err := generator.NewCompleter(ctx, cfg.Provider, apiKey, model)
	if err != nil {
		return nil, err
	}
	return generator.New(completer, generator.BreakerConfig{}), nil
}
