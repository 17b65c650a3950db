package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eq-test-api/internal/dto"
)

func TestResultBroadcasterDeliversToLocalSubscribers(t *testing.T) {
	broadcaster := NewResultBroadcaster(nil, "", nil, zerolog.Nop())

	ch, cleanup := broadcaster.Subscribe()
	defer cleanup()

	require.NoError(t, broadcaster.Publish(context.Background(), dto.TestResultResponse{ID: 7, Level: "良好"}))

	select {
	case got := <-ch:
		require.Equal(t, uint(7), got.ID)
	case <-time.After(time.Second):
		t.Fatal("expected result on subscriber channel")
	}

	cleanup()
	_, open := <-ch
	require.False(t, open)
}

func TestResultBroadcasterDoesNotBlockOnSlowSubscribers(t *testing.T) {
	broadcaster := NewResultBroadcaster(nil, "", nil, zerolog.Nop())
	_, cleanup := broadcaster.Subscribe()
	defer cleanup()

	for i := 0; i < resultBufferSize*3; i++ {
		require.NoError(t, broadcaster.Publish(context.Background(), dto.TestResultResponse{ID: uint(i)}))
	}
}

func TestResultBroadcasterRelaysRemoteRedisEvents(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	broadcaster := NewResultBroadcaster(redisClient, "eqtest", nil, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	broadcaster.Start(ctx)

	ch, cleanup := broadcaster.Subscribe()
	defer cleanup()

	payload, err := json.Marshal(resultEvent{
		Type:   ResultCompletedEvent,
		Source: "another-node",
		Result: dto.TestResultResponse{ID: 42, Level: "卓越"},
		SentAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return redisClient.Publish(ctx, "eqtest:results", payload).Val() > 0
	}, 2*time.Second, 20*time.Millisecond)

	select {
	case got := <-ch:
		require.Equal(t, uint(42), got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("expected relayed result")
	}
}

func TestResultBroadcasterIgnoresOwnAndForeignEvents(t *testing.T) {
	broadcaster := NewResultBroadcaster(nil, "", nil, zerolog.Nop()).(*resultBroadcaster)
	ch, cleanup := broadcaster.Subscribe()
	defer cleanup()

	own, err := json.Marshal(resultEvent{Type: ResultCompletedEvent, Source: broadcaster.nodeID, Result: dto.TestResultResponse{ID: 1}})
	require.NoError(t, err)
	broadcaster.handleEvent(own)

	other, err := json.Marshal(resultEvent{Type: "something.else", Source: "x", Result: dto.TestResultResponse{ID: 2}})
	require.NoError(t, err)
	broadcaster.handleEvent(other)
	broadcaster.handleEvent([]byte("garbage"))

	select {
	case got := <-ch:
		t.Fatalf("unexpected delivery %v", got.ID)
	default:
	}
}
