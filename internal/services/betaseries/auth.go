package betaseries

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/Thilas/plex-betaseries-webhook/internal/config"
)

// User is an authenticated BetaSeries identity
type User struct {
	AccessToken string
	Login       string
}

// Principal is the authentication outcome for one inbound request. A nil
// Client means the Plex account could not be resolved; a nil User means no
// valid access token was presented.
type Principal struct {
	Client *config.ClientConfig
	User   *User
}

// Authenticated reports whether the request carries a resolved client and a
// checked access token
func (p Principal) Authenticated() bool {
	return p.Client != nil && p.User != nil
}

// RedirectURL builds the OAuth redirect URI pointing back at this server
// for the given client
func (c *Client) RedirectURL(client *config.ClientConfig) (string, error) {
	u, err := url.Parse(c.cfg.ServerURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse server URL: %w", err)
	}
	query := u.Query()
	query.Set("plexAccount", client.PlexAccount)
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// AuthenticationURL builds the BetaSeries authorize page URL for the given
// client
func (c *Client) AuthenticationURL(client *config.ClientConfig) (string, error) {
	c.logger.Info("Requesting BetaSeries authentication...")
	redirectURL, err := c.RedirectURL(client)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(c.cfg.BetaSeries.URL)
	if err != nil {
		return "", fmt.Errorf("failed to parse BetaSeries URL: %w", err)
	}
	u.Path = "/authorize"
	query := u.Query()
	query.Set("client_id", client.ClientID)
	query.Set("redirect_uri", redirectURL)
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// GetUser exchanges an OAuth code for an access token and immediately
// validates it against the member info endpoint
func (c *Client) GetUser(ctx context.Context, client *config.ClientConfig, code string) (*User, error) {
	c.logger.Info("Requesting a new access token...")
	redirectURL, err := c.RedirectURL(client)
	if err != nil {
		return nil, err
	}

	body := map[string]string{
		"client_id":     client.ClientID,
		"client_secret": client.ClientSecret,
		"redirect_uri":  redirectURL,
		"code":          code,
	}
	var response struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.doRequest(ctx, client, "", "POST", "/oauth/access_token", nil, body, &response); err != nil {
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}

	login, err := c.CheckAccessToken(ctx, client, response.AccessToken)
	if err != nil {
		return nil, err
	}

	c.logger.Infof("New access token issued for %s", login)
	return &User{AccessToken: response.AccessToken, Login: login}, nil
}

// CheckAccessToken validates an access token by fetching the member it
// belongs to, and returns that member's login
func (c *Client) CheckAccessToken(ctx context.Context, client *config.ClientConfig, accessToken string) (string, error) {
	if accessToken == "" {
		return "", errors.New("empty access token")
	}

	var response struct {
		Member struct {
			Login string `json:"login"`
		} `json:"member"`
	}
	if err := c.doRequest(ctx, client, accessToken, "GET", "/members/infos", nil, nil, &response); err != nil {
		return "", fmt.Errorf("failed to check access token: %w", err)
	}

	return response.Member.Login, nil
}

// GetPrincipal authenticates one inbound request. It never fails: any
// unresolvable account or unusable token yields an unauthenticated
// principal, so the HTTP layer can keep a non-throwing contract.
func (c *Client) GetPrincipal(ctx context.Context, plexAccount, accessToken string) Principal {
	client := c.cfg.ClientFor(plexAccount)
	if client == nil {
		c.logger.Debug("Invalid plex account")
		return Principal{}
	}
	if accessToken == "" {
		c.logger.Debug("Empty access token")
		return Principal{Client: client}
	}

	login, err := c.CheckAccessToken(ctx, client, accessToken)
	if err != nil {
		c.logger.WithError(err).Debug("Invalid access token")
		return Principal{Client: client}
	}

	c.logger.Infof("Access token of %s checked", login)
	return Principal{Client: client, User: &User{AccessToken: accessToken, Login: login}}
}

// GetMember builds an authenticated member session for an already
// authenticated user. Unlike GetPrincipal this fails on an empty token:
// at this point the caller is confirmed authenticated, so a failure
// indicates a transport problem rather than a credentials one.
func (c *Client) GetMember(client *config.ClientConfig, user User) (*Member, error) {
	if user.AccessToken == "" {
		return nil, errors.New("empty access token")
	}
	return &Member{
		client:      c,
		config:      client,
		accessToken: user.AccessToken,
		login:       user.Login,
	}, nil
}
