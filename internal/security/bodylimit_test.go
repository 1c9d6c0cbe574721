package security

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func echoBody(t *testing.T, captured *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		*captured = string(data)
		w.WriteHeader(http.StatusOK)
	})
}

func TestBodyLimit(t *testing.T) {
	cases := []struct {
		name          string
		limit         BodyLimit
		body          string
		contentType   string
		contentLength int64
		wantStatus    int
		wantCode      string
	}{
		{name: "within limit", limit: BodyLimit{Max: 16}, body: `{"lineItems":[]}`, wantStatus: http.StatusOK},
		{name: "oversized body", limit: BodyLimit{Max: 5}, body: "excessive", wantStatus: http.StatusRequestEntityTooLarge, wantCode: "PAYLOAD_TOO_LARGE"},
		{name: "declared oversized", limit: BodyLimit{Max: 5}, body: "cart", contentLength: 100, wantStatus: http.StatusRequestEntityTooLarge, wantCode: "PAYLOAD_TOO_LARGE"},
		{name: "form body", limit: BodyLimit{Max: 64, RequireJSON: true}, body: "a=b", contentType: "application/x-www-form-urlencoded", wantStatus: http.StatusUnsupportedMediaType, wantCode: "UNSUPPORTED_MEDIA_TYPE"},
		{name: "json with charset", limit: BodyLimit{Max: 64, RequireJSON: true}, body: `{}`, contentType: "application/json; charset=utf-8", wantStatus: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var captured string
			req := httptest.NewRequest(http.MethodPost, "/api/v1/carts/evaluate", strings.NewReader(tc.body))
			if tc.contentType != "" {
				req.Header.Set("Content-Type", tc.contentType)
			}
			if tc.contentLength != 0 {
				req.ContentLength = tc.contentLength
			}
			rr := httptest.NewRecorder()
			tc.limit.Middleware(echoBody(t, &captured)).ServeHTTP(rr, req)

			require.Equal(t, tc.wantStatus, rr.Code)
			if tc.wantCode != "" {
				require.Contains(t, rr.Body.String(), tc.wantCode)
				return
			}
			require.Equal(t, tc.body, captured)
		})
	}
}

func TestBodyLimitAllowsEmptyBodyWithoutContentType(t *testing.T) {
	var captured string
	rr := httptest.NewRecorder()
	BodyLimit{Max: 8, RequireJSON: true}.Middleware(echoBody(t, &captured)).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/campaigns", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Empty(t, captured)
}
