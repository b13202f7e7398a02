package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comptepro/pkg/requestcontext"
)

func TestClientIPFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		realIP     string
		remoteAddr string
		want       string
	}{
		{
			name: "forwarded-for single",
			xff:  "203.0.113.7",
			want: "203.0.113.7",
		},
		{
			name: "forwarded-for chain keeps first hop",
			xff:  "203.0.113.7, 10.0.0.1, 10.0.0.2",
			want: "203.0.113.7",
		},
		{
			name:   "forwarded-for wins over real-ip",
			xff:    "203.0.113.7",
			realIP: "198.51.100.1",
			want:   "203.0.113.7",
		},
		{
			name:   "real-ip when no forwarded-for",
			realIP: "198.51.100.1",
			want:   "198.51.100.1",
		},
		{
			name:       "remote addr strips port",
			remoteAddr: "192.0.2.4:51234",
			want:       "192.0.2.4",
		},
		{
			name:       "ipv6 remote addr strips port",
			remoteAddr: "[::1]:51234",
			want:       "[::1]",
		},
		{
			name: "nothing available",
			want: FallbackIdentifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}

			assert.Equal(t, tt.want, ClientIPFromRequest(req))
		})
	}
}

func TestClientMetadata_PopulatesContext(t *testing.T) {
	var gotIP, gotUA string
	handler := ClientMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIP = requestcontext.ClientIP(r.Context())
		gotUA = requestcontext.UserAgent(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	req.Header.Set("User-Agent", "form-wizard/1.0")

	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, "203.0.113.7", gotIP)
	assert.Equal(t, "form-wizard/1.0", gotUA)
}
