package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/featurekit/board-widget/internal/testutil"
	"github.com/featurekit/board-widget/pkg/api"
	"github.com/featurekit/board-widget/pkg/board"
	"github.com/featurekit/board-widget/pkg/cache"
)

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		redisClient.Close()
		container.Terminate(ctx)
	}

	return redisClient, cleanup
}

func newBoardClient(t *testing.T, mock *testutil.MockBoard) *api.Client {
	t.Helper()

	client, err := api.New(api.Config{
		BaseURL:   mock.URL(),
		Token:     "integration-token",
		UserAgent: "board-integration/1.0",
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return client
}

// TestFullBoardFlow loads a board through the orchestrator, caches the
// snapshot in Redis, and reads it back.
func TestFullBoardFlow(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockBoard()
	defer mock.Close()

	mock.AddStatus("Planned", 1)
	mock.AddStatus("In Progress", 2)
	mock.AddFeature("planned", "Dark mode", "<p>Support a dark theme.</p>")
	mock.AddFeature("in progress", "SSO", "<p>SAML single sign-on.</p>")

	o := board.NewOrchestrator(newBoardClient(t, mock), board.Config{})
	defer o.Close()

	ctx := context.Background()
	o.Load(ctx)

	view := o.Snapshot()
	if view.Err != "" {
		t.Fatalf("Board load failed: %s", view.Err)
	}
	if len(view.Statuses) != 2 {
		t.Fatalf("Got %d statuses, want 2", len(view.Statuses))
	}

	// Cache the snapshot
	data, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("Failed to marshal snapshot: %v", err)
	}

	snapshots := cache.NewManager(redisClient)
	key := cache.Key{Board: cache.BoardID("integration-token")}

	if err := snapshots.Set(ctx, key, cache.NewEntry(data, time.Minute)); err != nil {
		t.Fatalf("Failed to cache snapshot: %v", err)
	}

	// Read it back
	entry, err := snapshots.Get(ctx, key)
	if err != nil {
		t.Fatalf("Failed to read snapshot from cache: %v", err)
	}

	var cached board.View
	if err := json.Unmarshal(entry.Data, &cached); err != nil {
		t.Fatalf("Failed to unmarshal cached snapshot: %v", err)
	}

	if len(cached.Statuses) != len(view.Statuses) {
		t.Errorf("Cached statuses = %d, want %d", len(cached.Statuses), len(view.Statuses))
	}
	if len(cached.FeaturesByStatus["planned"]) != 1 {
		t.Errorf("Cached planned features = %v", cached.FeaturesByStatus["planned"])
	}
	if len(cached.PreviewsByID) != len(view.PreviewsByID) {
		t.Errorf("Cached previews = %d, want %d", len(cached.PreviewsByID), len(view.PreviewsByID))
	}
}

// TestSnapshotCacheExpiration tests that expired snapshots are not served.
func TestSnapshotCacheExpiration(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	snapshots := cache.NewManager(redisClient)
	key := cache.Key{Board: "expiring-board"}
	ctx := context.Background()

	if err := snapshots.Set(ctx, key, cache.NewEntry([]byte(`{}`), time.Second)); err != nil {
		t.Fatalf("Failed to cache snapshot: %v", err)
	}

	if _, err := snapshots.Get(ctx, key); err != nil {
		t.Fatalf("Fresh entry should hit: %v", err)
	}

	time.Sleep(2 * time.Second)

	if _, err := snapshots.Get(ctx, key); err != cache.ErrCacheMiss {
		t.Errorf("Expected cache miss after expiration, got: %v", err)
	}
}

// TestSnapshotKeyedByFilter tests that differently filtered boards do not
// share a cache slot.
func TestSnapshotKeyedByFilter(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	snapshots := cache.NewManager(redisClient)
	ctx := context.Background()

	full := cache.Key{Board: "b1"}
	filtered := cache.Key{Board: "b1", Statuses: []string{"planned"}}

	if err := snapshots.Set(ctx, full, cache.NewEntry([]byte(`{"all":true}`), time.Minute)); err != nil {
		t.Fatalf("Failed to cache full snapshot: %v", err)
	}

	if _, err := snapshots.Get(ctx, filtered); err != cache.ErrCacheMiss {
		t.Errorf("Filtered key must not hit the unfiltered slot, got: %v", err)
	}

	if err := snapshots.Set(ctx, filtered, cache.NewEntry([]byte(`{"all":false}`), time.Minute)); err != nil {
		t.Fatalf("Failed to cache filtered snapshot: %v", err)
	}

	entry, err := snapshots.Get(ctx, full)
	if err != nil {
		t.Fatalf("Unfiltered entry lost: %v", err)
	}
	if string(entry.Data) != `{"all":true}` {
		t.Errorf("Unfiltered entry = %s", entry.Data)
	}
}

// TestReloadAfterUpstreamRecovery tests that a failed column recovers on the
// next full load.
func TestReloadAfterUpstreamRecovery(t *testing.T) {
	mock := testutil.NewMockBoard()
	defer mock.Close()

	mock.AddStatus("Planned", 1)
	mock.AddFeature("planned", "Dark mode", "desc")
	mock.FailFeatures("planned")

	o := board.NewOrchestrator(newBoardClient(t, mock), board.Config{})
	defer o.Close()

	ctx := context.Background()
	o.Load(ctx)

	if got := len(o.Snapshot().FeaturesByStatus["planned"]); got != 0 {
		t.Fatalf("Failed column has %d features, want 0", got)
	}

	// Upstream recovers; a fresh load picks the column back up.
	mock2 := testutil.NewMockBoard()
	defer mock2.Close()
	mock2.AddStatus("Planned", 1)
	mock2.AddFeature("planned", "Dark mode", "desc")

	o2 := board.NewOrchestrator(newBoardClient(t, mock2), board.Config{})
	defer o2.Close()
	o2.Load(ctx)

	if got := len(o2.Snapshot().FeaturesByStatus["planned"]); got != 1 {
		t.Errorf("Recovered column has %d features, want 1", got)
	}
}
