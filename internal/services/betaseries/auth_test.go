package betaseries

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticationURL(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cfg := testConfig("https://api.betaseries.com")
	client := NewClient(cfg, logger)

	authURL, err := client.AuthenticationURL(cfg.Client)

	require.NoError(t, err)
	u, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, "www.betaseries.com", u.Host)
	assert.Equal(t, "/authorize", u.Path)
	assert.Equal(t, "client-id", u.Query().Get("client_id"))

	redirect, err := url.Parse(u.Query().Get("redirect_uri"))
	require.NoError(t, err)
	assert.Equal(t, "localhost:12000", redirect.Host)
	assert.Equal(t, "plex", redirect.Query().Get("plexAccount"))
}

func TestGetUserExchangesCodeAndChecksToken(t *testing.T) {
	var tokenBody map[string]string
	client, cfg := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/access_token":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&tokenBody))
			_, _ = w.Write([]byte(`{"access_token":"token"}`))
		case "/members/infos":
			assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"member":{"login":"user"}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	user, err := client.GetUser(context.Background(), cfg.Client, "code")

	require.NoError(t, err)
	assert.Equal(t, &User{AccessToken: "token", Login: "user"}, user)
	assert.Equal(t, "client-id", tokenBody["client_id"])
	assert.Equal(t, "client-secret", tokenBody["client_secret"])
	assert.Equal(t, "code", tokenBody["code"])
	assert.NotEmpty(t, tokenBody["redirect_uri"])
}

func TestGetUserPropagatesExchangeFailure(t *testing.T) {
	client, cfg := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"code":1002,"text":"Invalid code"}]}`))
	})

	_, err := client.GetUser(context.Background(), cfg.Client, "bad")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "- [1002] Invalid code")
}

func TestCheckAccessTokenGuardsEmptyToken(t *testing.T) {
	client, cfg := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.CheckAccessToken(context.Background(), cfg.Client, "")

	require.EqualError(t, err, "empty access token")
}

func TestGetPrincipal(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer good" {
			_, _ = w.Write([]byte(`{"member":{"login":"user"}}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"code":2001,"text":"Invalid token"}]}`))
	})

	t.Run("unknown account", func(t *testing.T) {
		principal := client.GetPrincipal(context.Background(), "nobody", "good")
		assert.False(t, principal.Authenticated())
		assert.Nil(t, principal.Client)
	})

	t.Run("empty token keeps account context", func(t *testing.T) {
		principal := client.GetPrincipal(context.Background(), "plex", "")
		assert.False(t, principal.Authenticated())
		require.NotNil(t, principal.Client)
		assert.Equal(t, "plex", principal.Client.PlexAccount)
		assert.Nil(t, principal.User)
	})

	t.Run("invalid token is swallowed", func(t *testing.T) {
		principal := client.GetPrincipal(context.Background(), "plex", "bad")
		assert.False(t, principal.Authenticated())
		require.NotNil(t, principal.Client)
		assert.Nil(t, principal.User)
	})

	t.Run("valid token", func(t *testing.T) {
		principal := client.GetPrincipal(context.Background(), "plex", "good")
		assert.True(t, principal.Authenticated())
		require.NotNil(t, principal.User)
		assert.Equal(t, "user", principal.User.Login)
		assert.Equal(t, "good", principal.User.AccessToken)
	})

	t.Run("empty account selects default client", func(t *testing.T) {
		principal := client.GetPrincipal(context.Background(), "", "good")
		assert.True(t, principal.Authenticated())
	})
}

func TestGetMemberGuardsEmptyToken(t *testing.T) {
	client, cfg := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.GetMember(cfg.Client, User{Login: "user"})

	require.EqualError(t, err, "empty access token")
}

func TestGetMemberExposesLogin(t *testing.T) {
	client, cfg := testClient(t, func(w http.ResponseWriter, r *http.Request) {})

	member, err := client.GetMember(cfg.Client, User{AccessToken: "token", Login: "user"})

	require.NoError(t, err)
	assert.Equal(t, "user", member.Login())
}
