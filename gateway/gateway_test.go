package gateway

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/ruteri/push-notification-server/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// browserSubscription builds a subscription document with real client keys,
// as a browser would hand it to the application server.
func browserSubscription(t *testing.T, endpoint string) interfaces.Subscription {
	t.Helper()

	clientKey, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)

	auth := make([]byte, 16)
	_, err = rand.Read(auth)
	require.NoError(t, err)

	raw := fmt.Sprintf(`{"endpoint":%q,"expirationTime":null,"keys":{"p256dh":%q,"auth":%q}}`,
		endpoint,
		base64.RawURLEncoding.EncodeToString(clientKey.PublicKey().Bytes()),
		base64.RawURLEncoding.EncodeToString(auth))

	sub, err := interfaces.NewSubscription(json.RawMessage(raw))
	require.NoError(t, err)
	return sub
}

func testGateway(t *testing.T) *WebPushGateway {
	t.Helper()

	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	require.NoError(t, err)

	gw, err := New(&Config{
		Keys:    interfaces.VAPIDKeys{PublicKey: publicKey, PrivateKey: privateKey},
		Payload: []byte("hello"),
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	return gw
}

func TestDeliver_Accepted(t *testing.T) {
	var requests atomic.Int32
	pushService := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "aes128gcm", r.Header.Get("Content-Encoding"))
		assert.Equal(t, fmt.Sprint(DefaultTTL), r.Header.Get("TTL"))
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "vapid "))
		w.WriteHeader(http.StatusCreated)
	}))
	defer pushService.Close()

	gw := testGateway(t)
	err := gw.Deliver(context.Background(), browserSubscription(t, pushService.URL+"/push/A"))
	require.NoError(t, err)
	assert.Equal(t, int32(1), requests.Load())
}

func TestDeliver_Rejected(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusGone, http.StatusBadRequest, http.StatusTooManyRequests, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			pushService := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				w.Write([]byte("subscription expired"))
			}))
			defer pushService.Close()

			gw := testGateway(t)
			err := gw.Deliver(context.Background(), browserSubscription(t, pushService.URL+"/push/A"))
			assert.ErrorIs(t, err, ErrRejected)
		})
	}
}

func TestDeliver_TransportFailure(t *testing.T) {
	pushService := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := pushService.URL + "/push/A"
	pushService.Close()

	gw := testGateway(t)
	err := gw.Deliver(context.Background(), browserSubscription(t, endpoint))
	assert.ErrorIs(t, err, ErrRejected)
}

func TestDeliver_MalformedKeys(t *testing.T) {
	pushService := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("push service must not be contacted")
	}))
	defer pushService.Close()

	sub, err := interfaces.NewSubscription(json.RawMessage(fmt.Sprintf(`{"endpoint":%q}`, pushService.URL+"/push/A")))
	require.NoError(t, err)

	gw := testGateway(t)
	assert.ErrorIs(t, gw.Deliver(context.Background(), sub), ErrRejected)
}

func TestNew_RequiresKeys(t *testing.T) {
	_, err := New(&Config{Keys: interfaces.VAPIDKeys{PublicKey: "pub"}})
	assert.Error(t, err)
}
