package clientip_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/authsession/pkg/clientip"
	"github.com/dmitrymomot/authsession/pkg/logger"
)

func TestFromRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		trust      bool
		want       string
	}{
		{"remote addr", nil, "203.0.113.7:5555", false, "203.0.113.7"},
		{"remote addr without port", nil, "203.0.113.7", false, "203.0.113.7"},
		{"ipv6 remote", nil, "[2001:db8::1]:443", false, "2001:db8::1"},
		{"mapped ipv4", nil, "[::ffff:192.0.2.1]:80", false, "192.0.2.1"},
		{"garbage remote", nil, "nonsense", false, ""},
		{
			name:       "untrusted headers ignored",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.1"},
			remoteAddr: "10.0.0.1:1234",
			want:       "10.0.0.1",
		},
		{
			name:       "cloudflare first",
			headers:    map[string]string{"CF-Connecting-IP": "203.0.113.9", "X-Forwarded-For": "198.51.100.1"},
			remoteAddr: "10.0.0.1:1234",
			trust:      true,
			want:       "203.0.113.9",
		},
		{
			name:       "forwarded for takes first hop",
			headers:    map[string]string{"X-Forwarded-For": " 198.51.100.1 , 10.0.0.2"},
			remoteAddr: "10.0.0.1:1234",
			trust:      true,
			want:       "198.51.100.1",
		},
		{
			name:       "invalid header falls through",
			headers:    map[string]string{"X-Forwarded-For": "unknown", "X-Real-IP": "192.0.2.44"},
			remoteAddr: "10.0.0.1:1234",
			trust:      true,
			want:       "192.0.2.44",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientip.FromRequest(r, tt.trust))
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithContextExtractors(clientip.LoggerExtractor()))

	var got string
	h := clientip.Middleware(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = clientip.FromContext(r.Context())
		log.InfoContext(r.Context(), "hit")
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.10:9000"
	h.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "192.0.2.10", got)
	assert.Contains(t, buf.String(), `"client_ip":"192.0.2.10"`)
}
