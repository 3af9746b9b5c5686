// Package integration exercises the full search/paginate/export flow against
// a containerized Redis session store and a mock upstream.
package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/placeseek/places-export/internal/testutil"
	"github.com/placeseek/places-export/pkg/places"
	"github.com/placeseek/places-export/pkg/session"
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

func TestFullPaginationFlow_RedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping container-based integration test in short mode")
	}

	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockPlaces()
	defer mock.Close()
	mock.SetPage("", testutil.NewResultPage("t2", "Cool Air HVAC", "Comfort Pros"))
	mock.SetPage("t2", testutil.NewResultPage("t3", "Chill Masters"))
	mock.SetPage("t3", testutil.NewResultPage("", "Last Resort Heating"))

	cfg := places.DefaultConfig("integration-test-key")
	cfg.BaseURL = mock.URL()
	client, err := places.New(cfg)
	if err != nil {
		t.Fatalf("places.New() failed: %v", err)
	}

	store := session.NewRedisStore(redisClient, time.Minute)
	manager := session.NewManager(client, store)
	manager.SetClock(time.Now, func(time.Duration) {})

	ctx := context.Background()

	s, err := manager.Start(ctx, "HVAC contractor in Fuquay-Varina, North Carolina")
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if len(s.Records) != 2 || s.PageCount != 1 {
		t.Fatalf("First page = %d records, page count %d", len(s.Records), s.PageCount)
	}

	// The session must be readable through a second manager sharing the
	// same Redis, as two serving instances would.
	secondManager := session.NewManager(client, session.NewRedisStore(redisClient, time.Minute))
	secondManager.SetClock(time.Now, func(time.Duration) {})

	added, s2, err := secondManager.FetchNext(ctx, s.ID)
	if err != nil {
		t.Fatalf("FetchNext() via second instance failed: %v", err)
	}
	if len(added) != 1 || s2.PageCount != 2 {
		t.Fatalf("Second page = %d records, page count %d", len(added), s2.PageCount)
	}

	_, s3, err := manager.FetchNext(ctx, s.ID)
	if err != nil {
		t.Fatalf("FetchNext() page 3 failed: %v", err)
	}
	if s3.PageCount != 3 || len(s3.Records) != 4 {
		t.Fatalf("Third page: page count %d, total %d", s3.PageCount, len(s3.Records))
	}
	if s3.HasMore() {
		t.Error("Session should be exhausted after its final page")
	}

	_, _, err = manager.FetchNext(ctx, s.ID)
	if !errors.Is(err, session.ErrNoMoreResults) {
		t.Errorf("FetchNext() after exhaustion = %v, want ErrNoMoreResults", err)
	}

	if mock.GetRequestCount() != 3 {
		t.Errorf("Upstream received %d requests, want 3", mock.GetRequestCount())
	}
}
