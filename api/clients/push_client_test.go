package clients

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/ruteri/push-notification-server/api"
	"github.com/ruteri/push-notification-server/httpserver"
	"github.com/ruteri/push-notification-server/interfaces"
	"github.com/ruteri/push-notification-server/notifications"
	"github.com/ruteri/push-notification-server/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type acceptingGateway struct {
	delivered chan string
}

func (g *acceptingGateway) Deliver(ctx context.Context, sub interfaces.Subscription) error {
	g.delivered <- sub.Endpoint
	return nil
}

func TestPushClient(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := storage.NewMemoryStore()
	gw := &acceptingGateway{delivered: make(chan string, 10)}
	notifier := notifications.NewNotifier(store, gw, nil, logger)
	handler := httpserver.NewHandler(interfaces.VAPIDKeys{PublicKey: "test-public-key", PrivateKey: "x"}, store, notifier, nil, logger)

	srv, err := httpserver.New(&api.HTTPServerConfig{Log: logger}, handler)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := NewPushClient(ts.URL + "/")

	key, err := client.VAPIDPublicKey()
	require.NoError(t, err)
	assert.Equal(t, "test-public-key", key)

	result, err := client.TriggerNotification()
	require.NoError(t, err)
	assert.Equal(t, api.ResultNoSubscriptions, result)

	sub := json.RawMessage(`{"endpoint":"https://push.example/A","keys":{"p256dh":"BNc","auth":"tBH"}}`)
	require.NoError(t, client.Register(sub))
	require.NoError(t, client.Register(sub))

	n, err := client.NumSubscriptions()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	result, err = client.TriggerNotification()
	require.NoError(t, err)
	assert.Equal(t, api.ResultNotificationSent, result)
	assert.Equal(t, "https://push.example/A", <-gw.delivered)

	require.NoError(t, client.Unregister(sub))
	n, err = client.NumSubscriptions()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	err = client.Register(json.RawMessage(`{"keys":{}}`))
	assert.ErrorContains(t, err, "code 400")

	require.NoError(t, notifier.Shutdown(context.Background()))
}
