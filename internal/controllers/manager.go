package controllers

import (
	"context"

	"github.com/Thilas/plex-betaseries-webhook/internal/config"
	"github.com/Thilas/plex-betaseries-webhook/internal/models"
	"github.com/Thilas/plex-betaseries-webhook/internal/services/betaseries"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// EventScrobble is the Plex event emitted when playback completes
const EventScrobble = "media.scrobble"

// Member is the authenticated BetaSeries session the scrobblers act on
type Member interface {
	Login() string
	GetEpisode(ctx context.Context, id models.MediaID) (*betaseries.Episode, error)
	MarkEpisodeAsWatched(ctx context.Context, id int, bulk bool) (*betaseries.Episode, error)
	GetMovie(ctx context.Context, id models.MediaID) (*betaseries.Movie, error)
	UpdateMovie(ctx context.Context, id int, state betaseries.MovieStatus) (*betaseries.Movie, error)
}

// MemberProvider builds an authenticated member session for the caller
type MemberProvider func(client *config.ClientConfig, user betaseries.User) (Member, error)

// InfoLog emits the standard event log line with the given media
// description substituted in
type InfoLog func(media string)

// Webhook processes one actionable (media type, event) pair
type Webhook interface {
	Process(ctx context.Context, payload *models.Payload, member Member, info InfoLog) error
}

// MediaFactory resolves a payload into a media descriptor. A nil descriptor
// without error marks a media type that is recognized but deliberately
// skipped.
type MediaFactory interface {
	Create(payload *models.Payload) (models.Media, error)
}

// MediaFactoryFunc adapts a function to the MediaFactory interface
type MediaFactoryFunc func(payload *models.Payload) (models.Media, error)

// Create calls f
func (f MediaFactoryFunc) Create(payload *models.Payload) (models.Media, error) {
	return f(payload)
}

// WebhookKey routes an inbound event to its handler
type WebhookKey struct {
	Type  string
	Event string
}

// Manager routes inbound Plex webhooks to the matching scrobble handler.
// The registries are plain maps built at startup; an unregistered key
// simply yields no handler.
type Manager struct {
	logger    *logrus.Logger
	getMember MemberProvider
	webhooks  map[WebhookKey]Webhook
	factories map[string]MediaFactory
}

// NewManager creates a webhook manager with the default handler and media
// factory registrations
func NewManager(logger *logrus.Logger, getMember MemberProvider) *Manager {
	m := &Manager{
		logger:    logger,
		getMember: getMember,
		webhooks:  make(map[WebhookKey]Webhook),
		factories: make(map[string]MediaFactory),
	}

	m.RegisterWebhook("episode", EventScrobble, NewEpisodeWebhook(logger))
	m.RegisterWebhook("movie", EventScrobble, NewMovieWebhook(logger))

	m.RegisterFactory("episode", MediaFactoryFunc(func(payload *models.Payload) (models.Media, error) {
		return createMedia(models.NewEpisode(logger, payload))
	}))
	m.RegisterFactory("movie", MediaFactoryFunc(func(payload *models.Payload) (models.Media, error) {
		return createMedia(models.NewMovie(logger, payload))
	}))
	// Show-level and music-track events have no tracking action
	skipped := MediaFactoryFunc(func(*models.Payload) (models.Media, error) { return nil, nil })
	m.RegisterFactory("show", skipped)
	m.RegisterFactory("track", skipped)

	return m
}

// createMedia flattens a typed descriptor into the Media interface without
// wrapping a typed nil
func createMedia[T models.Media](media T, err error) (models.Media, error) {
	if err != nil {
		return nil, err
	}
	return media, nil
}

// RegisterWebhook registers a handler for a (media type, event) pair
func (m *Manager) RegisterWebhook(mediaType, event string, webhook Webhook) {
	m.webhooks[WebhookKey{Type: mediaType, Event: event}] = webhook
}

// RegisterFactory registers a media descriptor factory for a media type
func (m *Manager) RegisterFactory(mediaType string, factory MediaFactory) {
	m.factories[mediaType] = factory
}

// Process routes one inbound payload. Cross-tenant events and payloads
// without a media type return silently; a recognized media type without a
// registered handler is logged but not acted on.
func (m *Manager) Process(ctx context.Context, client *config.ClientConfig, payload *models.Payload, user betaseries.User) error {
	account := payload.AccountTitle()
	if account == "" || !accountsEqual(account, client.PlexAccount) {
		return nil
	}

	mediaType := payload.MediaType()
	if mediaType == "" {
		return nil
	}

	info := m.infoLog(payload)

	webhook := m.webhooks[WebhookKey{Type: mediaType, Event: payload.Event}]
	if webhook == nil {
		factory := m.factories[mediaType]
		if factory == nil {
			info("<unknown type>")
			return nil
		}
		media, err := factory.Create(payload)
		if err != nil {
			return err
		}
		if media != nil {
			info(media.String())
		}
		return nil
	}

	member, err := m.getMember(client, user)
	if err != nil {
		return err
	}
	return webhook.Process(ctx, payload, member, info)
}

// infoLog binds the single log line template every code path funnels
// through, so operators see one consistent event record
func (m *Manager) infoLog(payload *models.Payload) InfoLog {
	return func(media string) {
		player := "<unknown player>"
		if payload.Player != nil && payload.Player.Title != "" {
			player = payload.Player.Title
		}
		account := "<unknown account>"
		if payload.Account != nil && payload.Account.Title != "" {
			account = payload.Account.Title
		}
		server := "<unknown server>"
		if payload.Server != nil && payload.Server.Title != "" {
			server = payload.Server.Title
		}
		m.logger.Infof("Got %s event for %s on %s from %s@%s", payload.Event, media, player, account, server)
	}
}

// accountsEqual compares Plex account titles case- and accent-insensitively,
// matching the locale-aware comparison webhook senders were configured
// against historically. Collators keep internal state, so one is built per
// comparison rather than shared across requests.
func accountsEqual(a, b string) bool {
	return collate.New(language.Und, collate.Loose).CompareString(a, b) == 0
}
