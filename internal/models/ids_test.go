package models

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMediaIDsFailsWithNoGuids(t *testing.T) {
	logger, _ := test.NewNullLogger()

	_, err := GetMediaIDs(logger, nil)

	require.EqualError(t, err, "no guids")
}

func TestGetMediaIDsSucceedsWithEmptyGuids(t *testing.T) {
	logger, _ := test.NewNullLogger()

	ids, err := GetMediaIDs(logger, []Guid{})

	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGetMediaIDsSkipsEmptyGuids(t *testing.T) {
	logger, hook := test.NewNullLogger()

	ids, err := GetMediaIDs(logger, []Guid{{}, {ID: ""}})

	require.NoError(t, err)
	assert.Empty(t, ids)
	require.Len(t, hook.Entries, 2)
	for _, entry := range hook.Entries {
		assert.Equal(t, logrus.WarnLevel, entry.Level)
		assert.Equal(t, "Empty guid", entry.Message)
	}
}

func TestGetMediaIDsSkipsInvalidGuids(t *testing.T) {
	logger, hook := test.NewNullLogger()

	ids, err := GetMediaIDs(logger, []Guid{{ID: "invalid guid"}})

	require.NoError(t, err)
	assert.Empty(t, ids)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "Invalid guid: invalid guid", hook.LastEntry().Message)
}

func TestGetMediaIDsSkipsUnknownAgents(t *testing.T) {
	logger, hook := test.NewNullLogger()

	ids, err := GetMediaIDs(logger, []Guid{{ID: "unknown://x"}})

	require.NoError(t, err)
	assert.Empty(t, ids)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "Unknown Plex agent: unknown://x", hook.LastEntry().Message)
}

func TestGetMediaIDsSupportedAgents(t *testing.T) {
	tests := []struct {
		guid string
		want MediaID
	}{
		{"tvdb://42", MediaID{Kind: IDKindTVDB, Value: "42"}},
		{"imdb://tt0133093", MediaID{Kind: IDKindIMDB, Value: "tt0133093"}},
		{"tmdb://603", MediaID{Kind: IDKindTMDB, Value: "603"}},
		// Legacy agent-prefixed forms
		{"com.plexapp.agents.thetvdb://42", MediaID{Kind: IDKindTVDB, Value: "42"}},
		{"com.plexapp.agents.imdb://tt0133093", MediaID{Kind: IDKindIMDB, Value: "tt0133093"}},
		{"com.plexapp.agents.themoviedb://603", MediaID{Kind: IDKindTMDB, Value: "603"}},
	}

	for _, tt := range tests {
		t.Run(tt.guid, func(t *testing.T) {
			logger, hook := test.NewNullLogger()

			ids, err := GetMediaIDs(logger, []Guid{{ID: tt.guid}})

			require.NoError(t, err)
			require.Equal(t, []MediaID{tt.want}, ids)
			assert.Empty(t, hook.Entries)
		})
	}
}

func TestGetMediaIDsPreservesOrderAndDuplicates(t *testing.T) {
	logger, _ := test.NewNullLogger()
	guids := []Guid{
		{ID: "tmdb://603"},
		{ID: "unknown://x"},
		{ID: "imdb://tt0133093"},
		{ID: "tmdb://603"},
	}

	ids, err := GetMediaIDs(logger, guids)

	require.NoError(t, err)
	assert.Equal(t, []MediaID{
		{Kind: IDKindTMDB, Value: "603"},
		{Kind: IDKindIMDB, Value: "tt0133093"},
		{Kind: IDKindTMDB, Value: "603"},
	}, ids)
}

func TestFirstSupportedScansByKindPriority(t *testing.T) {
	ids := []MediaID{
		{Kind: IDKindTMDB, Value: "603"},
		{Kind: IDKindIMDB, Value: "tt0133093"},
	}

	// IMDB wins even though TMDB comes first in the list
	id := FirstSupported(ids, IDKindIMDB, IDKindTMDB)

	require.NotNil(t, id)
	assert.Equal(t, IDKindIMDB, id.Kind)
}

func TestFirstSupportedReturnsNilWithoutMatch(t *testing.T) {
	ids := []MediaID{{Kind: IDKindIMDB, Value: "tt0133093"}}

	assert.Nil(t, FirstSupported(ids, IDKindTVDB))
	assert.Nil(t, FirstSupported(nil, IDKindTVDB))
}

func TestFormatMediaIDs(t *testing.T) {
	a := MediaID{Kind: IDKindIMDB, Value: "a"}
	b := MediaID{Kind: IDKindTMDB, Value: "b"}

	assert.Equal(t, "", FormatMediaIDs(nil))
	assert.Equal(t, "a@imdb", FormatMediaIDs([]MediaID{a}))
	assert.Equal(t, "a@imdb, b@tmdb, a@imdb", FormatMediaIDs([]MediaID{a, b, a}))
}

func TestFormatMediaIDsRoundTrip(t *testing.T) {
	logger, _ := test.NewNullLogger()

	ids, err := GetMediaIDs(logger, []Guid{{ID: "tvdb://42"}})

	require.NoError(t, err)
	assert.Equal(t, "42@tvdb", FormatMediaIDs(ids))
}
