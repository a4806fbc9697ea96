package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zap.NewNop())
	hub.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func receive(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case raw := <-c.Send:
		var env Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		return env
	case <-time.After(time.Second):
		t.Fatal("сообщение не пришло")
		return Envelope{}
	}
}

func TestHub_BroadcastReachesEveryClient(t *testing.T) {
	hub := startHub(t)
	a := NewClient(hub, nil, 1)
	b := NewClient(hub, nil, 2)
	hub.Register <- a
	hub.Register <- b

	require.NoError(t, hub.Broadcast("repair.created", RepairPayload{RepairID: 7, Plate: "XYZ789"}))

	for _, c := range []*Client{a, b} {
		env := receive(t, c)
		assert.Equal(t, "repair.created", env.Type)
		payload, ok := env.Payload.(map[string]interface{})
		require.True(t, ok)
		assert.EqualValues(t, 7, payload["repair_id"])
	}
}

func TestHub_SendMessageToUserOnlyTargetsThatUser(t *testing.T) {
	hub := startHub(t)
	a := NewClient(hub, nil, 1)
	b := NewClient(hub, nil, 2)
	hub.Register <- a
	hub.Register <- b
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.SendMessageToUser(2, "hi", "ping"))

	assert.Equal(t, "ping", receive(t, b).Type)
	assert.Empty(t, a.Send)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t)
	a := NewClient(hub, nil, 1)
	hub.Register <- a
	hub.unregister <- a

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
	_, open := <-a.Send
	assert.False(t, open)
}
