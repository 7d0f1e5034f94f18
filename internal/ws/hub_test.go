package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := NewHub(nil)
	go h.Run(ctx)
	return h, cancel
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	h, _ := startHub(t)

	c := &Client{hub: h, send: make(chan []byte, 4)}
	h.Register(c)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	h.Broadcast("leaderboard_updated", nil)

	select {
	case msg := <-c.send:
		var ev Event
		require.NoError(t, json.Unmarshal(msg, &ev))
		assert.Equal(t, "leaderboard_updated", ev.Type)
		assert.Nil(t, ev.Data)
		_, err := time.Parse(time.RFC3339, ev.Timestamp)
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
}

func TestHub_DropsSlowConsumer(t *testing.T) {
	h, _ := startHub(t)

	c := &Client{hub: h, send: make(chan []byte)}
	h.Register(c)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	h.Broadcast("leaderboard_updated", nil)
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-c.send
	assert.False(t, open)
}

func TestHub_StopClosesClients(t *testing.T) {
	h, cancel := startHub(t)

	c := &Client{hub: h, send: make(chan []byte, 1)}
	h.Register(c)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_AfterStopNeverBlocks(t *testing.T) {
	h, cancel := startHub(t)

	c := &Client{hub: h, send: make(chan []byte, 1)}
	h.Register(c)
	cancel()
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 200 {
			h.Unregister(c)
		}
		late := &Client{hub: h, send: make(chan []byte, 1)}
		h.Register(late)
		_, open := <-late.send
		assert.False(t, open)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("register/unregister blocked after stop")
	}
	assert.Equal(t, 0, h.ClientCount())
}

func TestHub_NilIsInert(t *testing.T) {
	var h *Hub
	h.Broadcast("x", nil)
	h.Register(nil)
	h.Unregister(nil)
	assert.Equal(t, 0, h.ClientCount())
}
