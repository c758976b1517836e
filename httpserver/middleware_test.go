package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForceSSL(t *testing.T) {
	tests := []struct {
		name           string
		host           string
		target         string
		forwardedProto string
		wantStatus     int
		wantLocation   string
		wantHSTS       bool
	}{
		{
			name:       "localhost bypass",
			host:       "localhost:3003",
			target:     "/num-subscriptions",
			wantStatus: http.StatusOK,
		},
		{
			name:           "localhost bypass ignores forwarded proto",
			host:           "localhost",
			target:         "/",
			forwardedProto: "http",
			wantStatus:     http.StatusOK,
		},
		{
			name:         "plain http redirected",
			host:         "push.example.com",
			target:       "/num-subscriptions?x=1",
			wantStatus:   http.StatusFound,
			wantLocation: "https://push.example.com/num-subscriptions?x=1",
			wantHSTS:     true,
		},
		{
			name:           "forwarded http redirected",
			host:           "push.example.com:8443",
			target:         "/register",
			forwardedProto: "http",
			wantStatus:     http.StatusFound,
			wantLocation:   "https://push.example.com:8443/register",
			wantHSTS:       true,
		},
		{
			name:           "forwarded https passes",
			host:           "push.example.com",
			target:         "/register",
			forwardedProto: "https",
			wantStatus:     http.StatusOK,
			wantHSTS:       true,
		},
		{
			name:         "127.0.0.1 is not localhost",
			host:         "127.0.0.1:3003",
			target:       "/",
			wantStatus:   http.StatusFound,
			wantLocation: "https://127.0.0.1:3003/",
			wantHSTS:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			req.Host = tt.host
			if tt.forwardedProto != "" {
				req.Header.Set(forwardedProtoHeader, tt.forwardedProto)
			}

			w := httptest.NewRecorder()
			ForceSSL(next).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, called)
			assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))
			if tt.wantHSTS {
				assert.Equal(t, hstsValue, w.Header().Get("Strict-Transport-Security"))
			} else {
				assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
			}
		})
	}
}
