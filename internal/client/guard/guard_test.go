package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFunc func() bool

func (f authFunc) IsAuthenticated() bool { return f() }

func TestDecide(t *testing.T) {
	tests := []struct {
		route  Route
		authed bool
		want   Decision
	}{
		{Home, false, Decision{Render: true}},
		{Login, false, Decision{Render: true}},
		{ResetPassword, false, Decision{Render: true}},
		{Home, true, Decision{Redirect: Notes}},
		{Register, true, Decision{Redirect: Notes}},
		{VerifyEmail, true, Decision{Redirect: Notes}},
		{Notes, true, Decision{Render: true}},
		{Notes, false, Decision{Redirect: Home}},
		{"/admin", true, Decision{Redirect: Home}},
		{"/admin", false, Decision{Redirect: Home}},
	}
	for _, tt := range tests {
		got := Decide(tt.route, tt.authed)
		assert.Equal(t, tt.want, got, "route %s authed=%v", tt.route, tt.authed)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, VerifyEmail, Normalize("/verify-email?token=abc"))
	assert.Equal(t, Notes, Normalize("/notes/"))
	assert.Equal(t, Home, Normalize(""))
	assert.Equal(t, Home, Normalize("/"))
	assert.Equal(t, Login, Normalize("/login#top"))
	assert.Equal(t, Public, GroupOf("/reset-password?token=x"))
	assert.Equal(t, Unknown, GroupOf("/nope"))
}

func TestGuard_FollowsSession(t *testing.T) {
	authed := false
	g := New(authFunc(func() bool { return authed }))

	require.Equal(t, Decision{Redirect: Home}, g.Check(Notes))
	require.Equal(t, Home, g.Resolve(Notes))
	require.Equal(t, Login, g.Resolve(Login))

	authed = true
	require.Equal(t, Decision{Render: true}, g.Check(Notes))
	require.Equal(t, Notes, g.Resolve(Login))
	require.Equal(t, Notes, g.Resolve("/unknown"))
}
