package mail

import (
	"context"
	"encoding/json"
	"testing"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisOutbox_Send(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	outbox := NewRedisOutbox(client, "")

	msg := Message{Subject: "hi", Body: "there", From: "a@example.com", To: []string{"b@example.com"}}
	require.NoError(t, outbox.Send(context.Background(), msg))

	items, err := m.List(DefaultOutboxKey)
	require.NoError(t, err)
	require.Len(t, items, 1)

	var got Message
	require.NoError(t, json.Unmarshal([]byte(items[0]), &got))
	require.Equal(t, msg, got)
}

func TestRedisOutbox_RejectsNoRecipients(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	outbox := NewRedisOutbox(redis.NewClient(&redis.Options{Addr: m.Addr()}), "custom")
	require.Error(t, outbox.Send(context.Background(), Message{Subject: "x"}))
	require.False(t, m.Exists("custom"))
}

func TestLogSender(t *testing.T) {
	require.NoError(t, LogSender{}.Send(context.Background(), Message{To: []string{"x@example.com"}}))
	require.Error(t, LogSender{}.Send(context.Background(), Message{}))
}
