package httpserver

import (
	"net/http"
	"strings"
)

const (
	// hstsValue asks browsers to use https for roughly six months.
	hstsValue = "max-age=15768000"

	forwardedProtoHeader = "X-Forwarded-Proto"
	localhostPrefix      = "localhost"
)

// ForceSSL sends non-localhost requests that did not arrive over https (as
// reported by a TLS-terminating proxy in X-Forwarded-Proto) to the https URL,
// and sets Strict-Transport-Security on every non-localhost response.
//
// The forwarded header can be spoofed by a client talking to the server
// directly, so this only hardens deployments behind a proxy.
func ForceSSL(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := r.Host
		if strings.HasPrefix(host, localhostPrefix) {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Strict-Transport-Security", hstsValue)
		if r.Header.Get(forwardedProtoHeader) != "https" {
			http.Redirect(w, r, "https://"+host+r.URL.RequestURI(), http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}
