package models

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Media is a resolved media descriptor, built once per payload and consumed
// immediately by the scrobbler
type Media interface {
	fmt.Stringer
}

// Episode describes a played TV episode, identified by its TVDB id
type Episode struct {
	ID      MediaID
	Title   string
	Season  int
	Episode int
}

// NewEpisode resolves a payload into an episode descriptor. Identifier
// support is checked before field presence, so an unsupported-id payload
// always reports the id problem even when fields are missing too.
func NewEpisode(logger *logrus.Logger, payload *Payload) (*Episode, error) {
	var guids []Guid
	var title string
	var season, episode int
	if payload.Metadata != nil {
		guids = payload.Metadata.Guid
		title = payload.Metadata.GrandparentTitle
		season = payload.Metadata.ParentIndex
		episode = payload.Metadata.Index
	}

	ids, err := GetMediaIDs(logger, guids)
	if err != nil {
		return nil, err
	}

	id := FirstSupported(ids, IDKindTVDB)
	if id == nil {
		return nil, fmt.Errorf("unsupported episode id for %s %s: %s",
			titleOrFallback(title), formatEpisodeTag(season, episode), FormatMediaIDs(ids))
	}
	if title == "" || season == 0 || episode == 0 {
		return nil, fmt.Errorf("invalid episode: %s %s (%s)",
			titleOrFallback(title), formatEpisodeTag(season, episode), id)
	}

	return &Episode{ID: *id, Title: title, Season: season, Episode: episode}, nil
}

func (e *Episode) String() string {
	return fmt.Sprintf("%s %s (%s)", e.Title, formatEpisodeTag(e.Season, e.Episode), e.ID)
}

// formatEpisodeTag renders "S01E02", with "??" for components the payload
// did not carry so partial information still yields a usable tag
func formatEpisodeTag(season, episode int) string {
	pad := func(n int) string {
		if n <= 0 {
			return "??"
		}
		return fmt.Sprintf("%02d", n)
	}
	return "S" + pad(season) + "E" + pad(episode)
}

func titleOrFallback(title string) string {
	if title == "" {
		return "<unknown title>"
	}
	return title
}
