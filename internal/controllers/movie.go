package controllers

import (
	"context"
	"fmt"

	"github.com/Thilas/plex-betaseries-webhook/internal/models"
	"github.com/Thilas/plex-betaseries-webhook/internal/services/betaseries"
	"github.com/sirupsen/logrus"
)

// MovieWebhook scrobbles movies by setting their BetaSeries status to seen
type MovieWebhook struct {
	logger *logrus.Logger
}

// NewMovieWebhook creates the movie scrobble handler
func NewMovieWebhook(logger *logrus.Logger) *MovieWebhook {
	return &MovieWebhook{logger: logger}
}

// Process resolves the payload's movie and scrobbles it
func (w *MovieWebhook) Process(ctx context.Context, payload *models.Payload, member Member, info InfoLog) error {
	media, err := models.NewMovie(w.logger, payload)
	if err != nil {
		return err
	}
	info(media.String())

	scrobbled, err := w.scrobble(ctx, member, media)
	if err != nil {
		return err
	}

	if scrobbled {
		w.logger.WithField("media", media.String()).Info("Movie scrobbled")
	} else {
		w.logger.WithField("media", media.String()).Info("Movie already scrobbled")
	}
	return nil
}

// scrobble sets the movie status to seen, no-op when it already is, and
// verifies the status actually flipped on the update response
func (w *MovieWebhook) scrobble(ctx context.Context, member Member, media *models.Movie) (bool, error) {
	movie, err := member.GetMovie(ctx, media.ID)
	if err != nil {
		return false, err
	}
	if movie == nil {
		return false, fmt.Errorf("no movie found for: %s", media)
	}
	if movie.User.Status == betaseries.MovieStatusSeen {
		return false, nil
	}

	updated, err := member.UpdateMovie(ctx, movie.ID, betaseries.MovieStatusSeen)
	if err != nil {
		return false, err
	}
	if updated == nil {
		return false, fmt.Errorf("no movie found for: %s", media)
	}
	if updated.User.Status != betaseries.MovieStatusSeen {
		return false, fmt.Errorf("movie not marked as watched for: %s", media)
	}
	return true, nil
}
