package models

import (
	"errors"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

// IDKind identifies the external database a media identifier belongs to
type IDKind string

const (
	IDKindTVDB IDKind = "tvdb"
	IDKindIMDB IDKind = "imdb"
	IDKindTMDB IDKind = "tmdb"
)

// MediaID is a typed external media identifier. The kind fully determines
// which BetaSeries lookup parameter the value maps to.
type MediaID struct {
	Kind  IDKind
	Value string
}

func (id MediaID) String() string {
	return id.Value + "@" + string(id.Kind)
}

// guidPattern matches both the current "<agent>://<id>" guid form and the
// legacy "com.plexapp.agents.<agent>://<id>" one
var guidPattern = regexp.MustCompile(`^(?:com\.plexapp\.agents\.)?(\w+)://(\w+)`)

// GetMediaIDs extracts the typed media identifiers from a payload's guid
// collection. Unusable entries (empty, malformed or from an unknown agent)
// are skipped with a warning; only an absent collection is an error, as it
// signals a structurally invalid payload. Order and duplicates are
// preserved.
func GetMediaIDs(logger *logrus.Logger, guids []Guid) ([]MediaID, error) {
	if guids == nil {
		return nil, errors.New("no guids")
	}

	ids := make([]MediaID, 0, len(guids))
	for _, guid := range guids {
		if guid.ID == "" {
			logger.Warn("Empty guid")
			continue
		}
		match := guidPattern.FindStringSubmatch(guid.ID)
		if match == nil {
			logger.Warnf("Invalid guid: %s", guid.ID)
			continue
		}
		switch match[1] {
		case "tvdb", "thetvdb":
			ids = append(ids, MediaID{Kind: IDKindTVDB, Value: match[2]})
		case "imdb":
			ids = append(ids, MediaID{Kind: IDKindIMDB, Value: match[2]})
		case "tmdb", "themoviedb":
			ids = append(ids, MediaID{Kind: IDKindTMDB, Value: match[2]})
		default:
			logger.Warnf("Unknown Plex agent: %s", guid.ID)
		}
	}

	return ids, nil
}

// FirstSupported returns the first identifier matching the given kinds,
// scanning kinds in priority order rather than identifiers in payload
// order. Returns nil when no identifier is supported.
func FirstSupported(ids []MediaID, kinds ...IDKind) *MediaID {
	for _, kind := range kinds {
		for i := range ids {
			if ids[i].Kind == kind {
				id := ids[i]
				return &id
			}
		}
	}
	return nil
}

// FormatMediaIDs renders identifiers as a comma-separated list for
// diagnostics
func FormatMediaIDs(ids []MediaID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}
