package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port: got %q, want %q", cfg.Port, "8080")
	}
	if cfg.DBPath != "rotation.db" {
		t.Errorf("DBPath: got %q, want %q", cfg.DBPath, "rotation.db")
	}
	if cfg.SpotifyMaxRetries != 3 {
		t.Errorf("SpotifyMaxRetries: got %d, want 3", cfg.SpotifyMaxRetries)
	}
	if cfg.SpotifyRetryBackoff != 500*time.Millisecond {
		t.Errorf("SpotifyRetryBackoff: got %v, want 500ms", cfg.SpotifyRetryBackoff)
	}
	if cfg.AnalysisWorkers != 2 {
		t.Errorf("AnalysisWorkers: got %d, want 2", cfg.AnalysisWorkers)
	}
	if cfg.DisableAutoFetch {
		t.Error("DisableAutoFetch: got true, want false")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SPOTIFY_MAX_RETRIES", "5")
	t.Setenv("SPOTIFY_RETRY_BACKOFF_MS", "250")
	t.Setenv("ANALYSIS_WORKERS", "8")
	t.Setenv("DISABLE_AUTO_FETCH", "true")

	cfg := Load()

	if cfg.SpotifyMaxRetries != 5 {
		t.Errorf("SpotifyMaxRetries: got %d, want 5", cfg.SpotifyMaxRetries)
	}
	if cfg.SpotifyRetryBackoff != 250*time.Millisecond {
		t.Errorf("SpotifyRetryBackoff: got %v, want 250ms", cfg.SpotifyRetryBackoff)
	}
	if cfg.AnalysisWorkers != 8 {
		t.Errorf("AnalysisWorkers: got %d, want 8", cfg.AnalysisWorkers)
	}
	if !cfg.DisableAutoFetch {
		t.Error("DisableAutoFetch: got false, want true")
	}
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	t.Setenv("SPOTIFY_MAX_RETRIES", "lots")

	cfg := Load()
	if cfg.SpotifyMaxRetries != 3 {
		t.Errorf("SpotifyMaxRetries: got %d, want default 3", cfg.SpotifyMaxRetries)
	}
}
