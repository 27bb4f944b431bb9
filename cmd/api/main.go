package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hollis-labs/rotation/internal/adapters/rest"
	"github.com/hollis-labs/rotation/internal/adapters/spotify"
	"github.com/hollis-labs/rotation/internal/adapters/sqlite"
	"github.com/hollis-labs/rotation/internal/config"
	"github.com/hollis-labs/rotation/internal/core/ports"
	"github.com/hollis-labs/rotation/internal/core/services"
	"github.com/hollis-labs/rotation/internal/worker"
)

const autoFetchInterval = time.Hour

func main() {
	// 1. Configuration
	// Crash early if required config is missing.
	cfg := config.Load()
	if cfg.SpotifyClientID == "" || cfg.SpotifyClientSecret == "" {
		log.Fatal("FATAL: SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET environment variables are required")
	}

	// 2. Initialize "Driven" Adapters
	// -- Database Adapter
	repo, err := sqlite.NewAdapter(cfg.DBPath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	defer repo.Close()

	// -- Spotify Adapter
	baseURL := cfg.SpotifyBaseURL
	if baseURL == "" {
		baseURL = spotify.DefaultBaseURL
	}
	spotifyClient := spotify.NewClient(http.DefaultClient, baseURL)
	spotifyClient.SetCredentials(cfg.SpotifyClientID, cfg.SpotifyClientSecret)
	spotifyClient.SetRetryPolicy(cfg.SpotifyMaxRetries, cfg.SpotifyRetryBackoff)

	// 3. Initialize Core Logic
	// The same sqlite adapter backs all three repository ports.
	svc := services.NewTracker(spotifyClient, repo, repo, repo)

	// 4. Background analysis fan-out
	pool := worker.NewPool(svc, 100)
	pool.Start(cfg.AnalysisWorkers)
	defer pool.Stop()

	fetchCtx, stopFetch := context.WithCancel(context.Background())
	fetchDone := make(chan struct{})
	if cfg.DisableAutoFetch {
		log.Println("Auto-fetch disabled; listens are only recorded via the API")
		close(fetchDone)
	} else {
		go func() {
			defer close(fetchDone)
			runAutoFetch(fetchCtx, repo, pool)
		}()
	}
	// The fetch loop submits into the pool, so it has to be fully stopped
	// before pool.Stop closes the queue.
	defer func() {
		stopFetch()
		<-fetchDone
	}()

	handler := rest.NewHandler(svc)

	// 5. Start the Server
	log.Printf("Rotation API is running on http://localhost:%s", cfg.Port)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal(err)
		}
	case <-ctx.Done():
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}

// runAutoFetch periodically submits a today-analysis job for every known
// user. Failures are per user and handled by the pool.
func runAutoFetch(ctx context.Context, users ports.UserDirectory, pool *worker.Pool) {
	ticker := time.NewTicker(autoFetchInterval)
	defer ticker.Stop()

	for {
		ids, err := users.ActiveUsers(ctx)
		if err != nil {
			log.Printf("WARN auto-fetch: failed to list users: %v", err)
		} else {
			day := time.Now().UTC()
			for _, id := range ids {
				pool.Submit(worker.Job{UserID: id, Day: day})
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
