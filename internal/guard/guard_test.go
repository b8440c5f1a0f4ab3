package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"teamhub/internal/guard"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name            string
		isAuthenticated bool
		loading         bool
		access          guard.Access
		want            guard.Decision
	}{
		{
			name:    "Protected: loading waits",
			loading: true,
			access:  guard.RequireAuth,
			want:    guard.Decision{Outcome: guard.Wait},
		},
		{
			name:            "Protected: loading waits even when authenticated",
			isAuthenticated: true,
			loading:         true,
			access:          guard.RequireAuth,
			want:            guard.Decision{Outcome: guard.Wait},
		},
		{
			name:   "Protected: anonymous goes to sign in",
			access: guard.RequireAuth,
			want:   guard.Decision{Outcome: guard.RedirectSignIn, Location: "/auth/login"},
		},
		{
			name:            "Protected: authenticated renders",
			isAuthenticated: true,
			access:          guard.RequireAuth,
			want:            guard.Decision{Outcome: guard.Render},
		},
		{
			name:    "Public only: loading waits",
			loading: true,
			access:  guard.PublicOnly,
			want:    guard.Decision{Outcome: guard.Wait},
		},
		{
			name:            "Public only: authenticated goes home",
			isAuthenticated: true,
			access:          guard.PublicOnly,
			want:            guard.Decision{Outcome: guard.RedirectHome, Location: "/members"},
		},
		{
			name:   "Public only: anonymous renders",
			access: guard.PublicOnly,
			want:   guard.Decision{Outcome: guard.Render},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := guard.Decide(tt.isAuthenticated, tt.loading, tt.access)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "wait", guard.Wait.String())
	assert.Equal(t, "redirect_home", guard.RedirectHome.String())
	assert.Equal(t, "unknown", guard.Outcome(42).String())
}
