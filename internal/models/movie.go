package models

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Movie describes a played movie, identified by its IMDB or TMDB id
type Movie struct {
	ID    MediaID
	Title string
}

// NewMovie resolves a payload into a movie descriptor. IMDB wins over TMDB
// by type priority, regardless of guid order in the payload.
func NewMovie(logger *logrus.Logger, payload *Payload) (*Movie, error) {
	var guids []Guid
	var title string
	if payload.Metadata != nil {
		guids = payload.Metadata.Guid
		title = payload.Metadata.Title
	}

	ids, err := GetMediaIDs(logger, guids)
	if err != nil {
		return nil, err
	}

	id := FirstSupported(ids, IDKindIMDB, IDKindTMDB)
	if id == nil {
		return nil, fmt.Errorf("unsupported movie id for %s: %s",
			titleOrFallback(title), FormatMediaIDs(ids))
	}
	if title == "" {
		return nil, fmt.Errorf("invalid movie: %s (%s)", titleOrFallback(title), id)
	}

	return &Movie{ID: *id, Title: title}, nil
}

func (m *Movie) String() string {
	return fmt.Sprintf("%s (%s)", m.Title, m.ID)
}
