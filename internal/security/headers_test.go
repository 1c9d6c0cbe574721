package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func serveWithHeaders(h Headers, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rr, req)
	return rr
}

func TestHeadersOverTLS(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "https://campaigns.local/api/v1/carts/evaluate", nil)
	req.TLS = &tls.ConnectionState{}
	rr := serveWithHeaders(Headers{Enable: true, HSTS: true, HSTSIncludeSubdomains: true, NoStore: true}, req)

	require.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "max-age=31536000; includeSubDomains", rr.Header().Get("Strict-Transport-Security"))
	require.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	require.Contains(t, rr.Header().Get("Content-Security-Policy"), "default-src 'none'")
}

func TestHeadersSkipHSTSWithoutTLS(t *testing.T) {
	rr := serveWithHeaders(Headers{Enable: true, HSTS: true, HSTSMaxAge: 60}, httptest.NewRequest(http.MethodGet, "http://campaigns.local/", nil))
	require.Empty(t, rr.Header().Get("Strict-Transport-Security"))
	require.Empty(t, rr.Header().Get("Cache-Control"))
	require.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
}

func TestHeadersDisabled(t *testing.T) {
	rr := serveWithHeaders(Headers{HSTS: true, NoStore: true}, httptest.NewRequest(http.MethodGet, "http://campaigns.local/", nil))
	require.Empty(t, rr.Header().Get("X-Content-Type-Options"))
	require.Empty(t, rr.Header().Get("Cache-Control"))
}
