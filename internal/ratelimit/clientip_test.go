package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIdentity(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name:       "forwarded for single",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.5"},
			remoteAddr: "10.0.0.1:1234",
			expected:   "203.0.113.5",
		},
		{
			name:       "forwarded for takes first token trimmed",
			headers:    map[string]string{"X-Forwarded-For": "  203.0.113.5 , 70.41.3.18, 150.172.238.178"},
			remoteAddr: "10.0.0.1:1234",
			expected:   "203.0.113.5",
		},
		{
			name: "forwarded for wins over real ip",
			headers: map[string]string{
				"X-Forwarded-For": "203.0.113.5",
				"X-Real-IP":       "198.51.100.9",
			},
			remoteAddr: "10.0.0.1:1234",
			expected:   "203.0.113.5",
		},
		{
			name:       "forwarded for is not validated",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip, 1.2.3.4"},
			remoteAddr: "10.0.0.1:1234",
			expected:   "not-an-ip",
		},
		{
			name:       "real ip verbatim",
			headers:    map[string]string{"X-Real-IP": " 198.51.100.9 "},
			remoteAddr: "10.0.0.1:1234",
			expected:   " 198.51.100.9 ",
		},
		{
			name:       "remote addr host",
			remoteAddr: "10.0.0.1:1234",
			expected:   "10.0.0.1",
		},
		{
			name:       "remote addr ipv6",
			remoteAddr: "[2001:db8::1]:443",
			expected:   "2001:db8::1",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "10.0.0.1",
			expected:   "10.0.0.1",
		},
		{
			name:       "nothing available",
			remoteAddr: "",
			expected:   UnknownIdentity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, ClientIdentity(req))
		})
	}
}

func TestClientIdentityNilRequest(t *testing.T) {
	assert.Equal(t, UnknownIdentity, ClientIdentity(nil))
}
