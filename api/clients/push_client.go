package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ruteri/push-notification-server/api"
)

// PushClient calls the push notification server HTTP API.
type PushClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewPushClient creates a new client for the server at baseURL
// (e.g. "http://localhost:3003"). The optional timeout defaults to 30 seconds.
func NewPushClient(baseURL string, timeout ...time.Duration) *PushClient {
	clientTimeout := 30 * time.Second
	if len(timeout) > 0 {
		clientTimeout = timeout[0]
	}

	return &PushClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: clientTimeout,
		},
	}
}

// VAPIDPublicKey returns the server's application server key.
func (c *PushClient) VAPIDPublicKey() (string, error) {
	resp, err := c.do(http.MethodGet, api.PathVAPIDPublicKey, nil, http.StatusOK)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	key, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read public key: %w", err)
	}
	return string(key), nil
}

// Register stores the subscription document on the server.
func (c *PushClient) Register(subscription json.RawMessage) error {
	return c.postSubscription(api.PathRegister, subscription)
}

// Unregister removes the subscription from the server.
func (c *PushClient) Unregister(subscription json.RawMessage) error {
	return c.postSubscription(api.PathUnregister, subscription)
}

// NumSubscriptions returns the number of subscriptions stored on the server.
func (c *PushClient) NumSubscriptions() (int, error) {
	resp, err := c.do(http.MethodGet, api.PathNumSubscriptions, nil, http.StatusOK)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var result api.CountResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to parse count response: %w", err)
	}
	return result.Result, nil
}

// TriggerNotification asks the server to notify every subscription and returns
// the server's result message.
func (c *PushClient) TriggerNotification() (string, error) {
	resp, err := c.do(http.MethodPost, api.PathTriggerNotification, nil, http.StatusOK)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result api.TriggerResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to parse trigger response: %w", err)
	}
	return result.Result, nil
}

func (c *PushClient) postSubscription(path string, subscription json.RawMessage) error {
	body, err := json.Marshal(api.SubscriptionRequest{Subscription: subscription})
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	resp, err := c.do(http.MethodPost, path, body, http.StatusCreated)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *PushClient) do(method, path string, body []byte, expectedStatus int) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}

	if resp.StatusCode != expectedStatus {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%s %s failed with code %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	return resp, nil
}
