package storage

import (
	"testing"
	"time"

	"github.com/poiesic/launchpad/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageRecord_RoundTrip(t *testing.T) {
	used := time.Date(2026, 5, 1, 9, 30, 0, 123000, time.UTC)
	record := &core.UsageRecord{Key: "visual studio code", Count: 42, LastUsed: used}

	decoded, err := UnmarshalUsageRecord(MarshalUsageRecord(record))
	require.NoError(t, err)
	assert.Equal(t, record.Key, decoded.Key)
	assert.Equal(t, record.Count, decoded.Count)
	assert.True(t, used.Equal(decoded.LastUsed))
}

func TestUsageRecord_ZeroTimeSurvives(t *testing.T) {
	decoded, err := UnmarshalUsageRecord(MarshalUsageRecord(&core.UsageRecord{Key: "calc"}))
	require.NoError(t, err)
	assert.True(t, decoded.LastUsed.IsZero())
}

func TestSelection_RoundTrip(t *testing.T) {
	selection := &core.Selection{
		Id:         core.IDFromContent("code"),
		Query:      "code",
		Title:      "Visual Studio Code",
		Category:   "application",
		Action:     "execute_application",
		SelectedAt: time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC),
	}

	decoded, err := UnmarshalSelection(MarshalSelection(selection))
	require.NoError(t, err)
	assert.Equal(t, selection.Id, decoded.Id)
	assert.Equal(t, selection.Query, decoded.Query)
	assert.Equal(t, selection.Title, decoded.Title)
	assert.Equal(t, selection.Category, decoded.Category)
	assert.Equal(t, selection.Action, decoded.Action)
	assert.True(t, selection.SelectedAt.Equal(decoded.SelectedAt))
}

func TestUnmarshalSelection_Truncated(t *testing.T) {
	data := MarshalSelection(&core.Selection{Id: 7, Query: "calc", Title: "Calculator"})
	_, err := UnmarshalSelection(data[:len(data)/2])
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestSelectionSkip(t *testing.T) {
	data := MarshalSelection(&core.Selection{Id: 7, Query: "calc", Title: "Calculator", SelectedAt: time.Now()})
	n, err := SelectionMUS.Skip(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
}
