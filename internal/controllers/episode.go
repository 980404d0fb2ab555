package controllers

import (
	"context"
	"fmt"

	"github.com/Thilas/plex-betaseries-webhook/internal/models"
	"github.com/sirupsen/logrus"
)

// EpisodeWebhook scrobbles TV episodes: a two-state machine from unwatched
// to watched, idempotent once watched
type EpisodeWebhook struct {
	logger *logrus.Logger
}

// NewEpisodeWebhook creates the episode scrobble handler
func NewEpisodeWebhook(logger *logrus.Logger) *EpisodeWebhook {
	return &EpisodeWebhook{logger: logger}
}

// Process resolves the payload's episode and scrobbles it
func (w *EpisodeWebhook) Process(ctx context.Context, payload *models.Payload, member Member, info InfoLog) error {
	media, err := models.NewEpisode(w.logger, payload)
	if err != nil {
		return err
	}
	info(media.String())

	scrobbled, err := w.scrobble(ctx, member, media)
	if err != nil {
		return err
	}

	if scrobbled {
		w.logger.WithField("media", media.String()).Info("Episode scrobbled")
	} else {
		w.logger.WithField("media", media.String()).Info("Episode already scrobbled")
	}
	return nil
}

// scrobble marks the episode as watched on BetaSeries. Returns false
// without touching the remote state when the episode is already seen.
// The post-condition is re-checked on the update response rather than
// trusting its status code: the remote API has been seen answering 200
// without applying the change.
func (w *EpisodeWebhook) scrobble(ctx context.Context, member Member, media *models.Episode) (bool, error) {
	episode, err := member.GetEpisode(ctx, media.ID)
	if err != nil {
		return false, err
	}
	if episode == nil {
		return false, fmt.Errorf("no episode found for: %s", media)
	}
	if episode.User.Seen {
		return false, nil
	}

	updated, err := member.MarkEpisodeAsWatched(ctx, episode.ID, false)
	if err != nil {
		return false, err
	}
	if updated == nil {
		return false, fmt.Errorf("no episode found for: %s", media)
	}
	if !updated.User.Seen {
		return false, fmt.Errorf("episode not marked as watched for: %s", media)
	}
	return true, nil
}
