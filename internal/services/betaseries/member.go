package betaseries

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Thilas/plex-betaseries-webhook/internal/config"
	"github.com/Thilas/plex-betaseries-webhook/internal/models"
)

// Member is an authenticated BetaSeries session bound to one member and one
// client configuration. Created per request, never cached or shared.
type Member struct {
	client      *Client
	config      *config.ClientConfig
	accessToken string
	login       string
}

// Login returns the login of the authenticated member
func (m *Member) Login() string {
	return m.login
}

// idParam maps a typed media identifier to its BetaSeries query parameter
func idParam(id models.MediaID) (string, error) {
	switch id.Kind {
	case models.IDKindTVDB:
		return "thetvdb_id", nil
	case models.IDKindIMDB:
		return "imdb_id", nil
	case models.IDKindTMDB:
		return "tmdb_id", nil
	default:
		return "", fmt.Errorf("unsupported media id kind: %s", id.Kind)
	}
}

// GetEpisode looks up an episode by external identifier. Returns nil
// without error when BetaSeries reports no match, which is a valid outcome
// distinct from a transport failure.
func (m *Member) GetEpisode(ctx context.Context, id models.MediaID) (*Episode, error) {
	param, err := idParam(id)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set(param, id.Value)

	var response struct {
		Episode *Episode `json:"episode"`
	}
	if err := m.client.doRequest(ctx, m.config, m.accessToken, "GET", "/episodes/display", params, nil, &response); err != nil {
		return nil, fmt.Errorf("failed to get episode: %w", err)
	}

	return response.Episode, nil
}

// MarkEpisodeAsWatched marks an episode as watched by BetaSeries id
func (m *Member) MarkEpisodeAsWatched(ctx context.Context, id int, bulk bool) (*Episode, error) {
	body := map[string]interface{}{
		"id":   id,
		"bulk": bulk,
	}

	var response struct {
		Episode *Episode `json:"episode"`
	}
	if err := m.client.doRequest(ctx, m.config, m.accessToken, "POST", "/episodes/watched", nil, body, &response); err != nil {
		return nil, fmt.Errorf("failed to mark episode as watched: %w", err)
	}

	return response.Episode, nil
}

// GetMovie looks up a movie by external identifier. Returns nil without
// error when BetaSeries reports no match.
func (m *Member) GetMovie(ctx context.Context, id models.MediaID) (*Movie, error) {
	param, err := idParam(id)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set(param, id.Value)

	var response struct {
		Movie *Movie `json:"movie"`
	}
	if err := m.client.doRequest(ctx, m.config, m.accessToken, "GET", "/movies/movie", params, nil, &response); err != nil {
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	return response.Movie, nil
}

// UpdateMovie sets the watch status of a movie by BetaSeries id
func (m *Member) UpdateMovie(ctx context.Context, id int, state MovieStatus) (*Movie, error) {
	body := map[string]interface{}{
		"id":    id,
		"state": state,
	}

	var response struct {
		Movie *Movie `json:"movie"`
	}
	if err := m.client.doRequest(ctx, m.config, m.accessToken, "POST", "/movies/movie", nil, body, &response); err != nil {
		return nil, fmt.Errorf("failed to update movie: %w", err)
	}

	return response.Movie, nil
}
