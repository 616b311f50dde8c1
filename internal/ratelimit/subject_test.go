package ratelimit

import "testing"

func TestSubject(t *testing.T) {
	cases := []struct {
		name   string
		userID string
		route  string
		want   string
	}{
		{"identified user", "user-42", "/v1/jobs", "user-42:/v1/jobs"},
		{"padded user", "  user-42  ", "/v1/jobs", "user-42:/v1/jobs"},
		{"anonymous fallback", "", "/v1/jobs", "anonymous:/v1/jobs"},
		{"blank fallback", "   ", "/v1/jobs/{id}/start", "anonymous:/v1/jobs/{id}/start"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Subject(tc.userID, tc.route); got != tc.want {
				t.Fatalf("Subject(%q, %q) = %q, want %q", tc.userID, tc.route, got, tc.want)
			}
		})
	}
}
