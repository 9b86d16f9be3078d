// Command board-proxy serves cached board snapshots over HTTP.
//
// It loads the full board through the orchestrator, caches the marshalled
// snapshot in Redis, and serves it to embedding frontends so that a burst of
// widget mounts does not turn into a burst of upstream API fan-outs.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/featurekit/board-widget/pkg/api"
	"github.com/featurekit/board-widget/pkg/board"
	"github.com/featurekit/board-widget/pkg/cache"
	"github.com/featurekit/board-widget/pkg/logging"
)

type proxyConfig struct {
	token       string
	baseURL     string
	userAgent   string
	statuses    []string
	snapshotTTL time.Duration
}

func main() {
	// Configuration from environment
	token := os.Getenv("BOARD_TOKEN")
	baseURL := getEnv("BOARD_API_URL", api.DefaultBaseURL)
	redisURL := getEnv("REDIS_URL", "localhost:6379")
	port := getEnv("PORT", "8080")
	userAgent := getEnv("USER_AGENT", "board-proxy/0.1.0")
	logLevel := getEnv("LOG_LEVEL", "info")
	statuses := splitStatuses(getEnv("BOARD_STATUSES", ""))
	snapshotTTL, err := time.ParseDuration(getEnv("SNAPSHOT_TTL", "60s"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid SNAPSHOT_TTL: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(logLevel),
		Output: os.Stderr,
	})

	if token == "" {
		logger.Fatal().Msg("BOARD_TOKEN is required")
	}

	// Setup Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Str("redis_url", redisURL).Msg("Failed to connect to Redis")
	}
	logger.Info().Str("redis_url", redisURL).Msg("Connected to Redis")

	apiClient, err := api.New(api.Config{
		BaseURL:   baseURL,
		Token:     token,
		UserAgent: userAgent,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create board API client")
	}

	snapshots := cache.NewManager(redisClient)

	cfg := proxyConfig{
		token:       token,
		baseURL:     baseURL,
		userAgent:   userAgent,
		statuses:    statuses,
		snapshotTTL: snapshotTTL,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/ready", readyHandler(redisClient))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/board", boardHandler(apiClient, snapshots, cfg))

	addr := ":" + port
	logger.Info().
		Str("addr", addr).
		Str("user_agent", userAgent).
		Dur("snapshot_ttl", snapshotTTL).
		Msg("Starting board proxy")

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

func readyHandler(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			http.Error(w, "Redis unavailable", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	}
}

// boardHandler serves the board snapshot, Redis-cached. A cache miss loads
// the board through the orchestrator and stores the marshalled view; cache
// errors degrade to a direct load.
func boardHandler(apiClient *api.Client, snapshots *cache.Manager, cfg proxyConfig) http.HandlerFunc {
	logger := logging.NewLogger("board-proxy")
	key := cache.Key{
		Board:    cache.BoardID(cfg.token),
		Statuses: cfg.statuses,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		entry, err := snapshots.Get(ctx, key)
		if err == nil {
			writeSnapshot(w, entry.Data)
			return
		}
		if err != cache.ErrCacheMiss {
			logger.Warn().Err(err).Msg("Snapshot cache read failed; loading directly")
		}

		o := board.NewOrchestrator(apiClient, board.Config{StatusFilter: cfg.statuses})
		o.Load(ctx)
		view := o.Snapshot()

		if view.Err != "" {
			http.Error(w, view.Err, http.StatusBadGateway)
			return
		}

		data, err := json.Marshal(view)
		if err != nil {
			http.Error(w, "snapshot encoding failed", http.StatusInternalServerError)
			return
		}

		if err := snapshots.Set(ctx, key, cache.NewEntry(data, cfg.snapshotTTL)); err != nil {
			logger.Warn().Err(err).Msg("Snapshot cache write failed")
		} else {
			logger.Info().Int("bytes", len(data)).Msg("Snapshot cached")
		}

		writeSnapshot(w, data)
	}
}

func writeSnapshot(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitStatuses parses a comma-separated status filter.
func splitStatuses(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var statuses []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			statuses = append(statuses, trimmed)
		}
	}
	return statuses
}
