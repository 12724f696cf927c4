package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/m2tx/kinchat/internal/config"
	"github.com/m2tx/kinchat/internal/generation"
	"github.com/m2tx/kinchat/internal/log"
	"github.com/m2tx/kinchat/internal/relay"
	"github.com/m2tx/kinchat/internal/repository"
)

func main() {
	if err := run(); err != nil {
		log.Errorw("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := generation.New(ctx, generation.Config{APIKey: cfg.APIKey, Model: cfg.Model})
	if err := client.Err(); err != nil {
		log.Errorf("GEMINI_API_KEY is not set in environment variables: %v", err)
		log.Errorf("Please create a .env.local file and add: GEMINI_API_KEY=your_api_key_here")
	}

	exchanges, closeRepo, err := newExchangeRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	r := relay.New(client,
		relay.WithExchangeRepository(exchanges),
		relay.WithMaxMemory(cfg.MaxUploadMemory),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           relay.NewRouter(r, client, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("server started on http://localhost:%s/ with model %s", cfg.HTTPPort, client.Model())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// newExchangeRepository connects to MongoDB when a URI is configured and
// falls back to an in-memory ring buffer otherwise.
func newExchangeRepository(ctx context.Context, cfg config.Config) (repository.ExchangeRepository, func(), error) {
	if cfg.MongoURI == "" {
		return repository.NewMemoryExchangeRepository(cfg.ExchangeBuffer), func() {}, nil
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warnf("mongodb disconnect: %v", err)
		}
	}

	database := mongoClient.Database(cfg.MongoDB)
	log.Infow("recording exchanges in mongodb", "database", cfg.MongoDB, "collection", cfg.MongoCollection)

	return repository.NewMongoExchangeRepository(database, cfg.MongoCollection), closeFn, nil
}
