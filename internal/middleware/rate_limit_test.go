package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "api_requests:10.0.0.1", rateLimitKey("api_requests:", "10.0.0.1"))
	assert.Equal(t, "auth_attempts:2001:db8::1", rateLimitKey("auth_attempts:", "2001:db8::1"))
}

func TestLimitExceeded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		current int
		max     int
		want    bool
	}{
		{"fresh window", 0, AuthMaxRequests, false},
		{"one below the limit", AuthMaxRequests - 1, AuthMaxRequests, false},
		{"at the limit", AuthMaxRequests, AuthMaxRequests, true},
		{"past the limit", AuthMaxRequests + 3, AuthMaxRequests, true},
		{"api window at the limit", APIMaxRequests, APIMaxRequests, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, limitExceeded(tt.current, tt.max))
		})
	}
}

func TestRemainingRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		max     int
		current int
		want    int
	}{
		{"first request of the window", AuthMaxRequests, 0, 4},
		{"counts the in-flight request", AuthMaxRequests, 2, 2},
		{"last allowed request", AuthMaxRequests, AuthMaxRequests - 1, 0},
		{"never negative", AuthMaxRequests, AuthMaxRequests + 10, 0},
		{"api window", APIMaxRequests, 40, 59},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, remainingRequests(tt.max, tt.current))
		})
	}
}
