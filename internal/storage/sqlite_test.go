package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiddomusic/riyaz/internal/common"
	"github.com/kiddomusic/riyaz/internal/model"
	"github.com/kiddomusic/riyaz/internal/service"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Migrate(context.Background()))

	version, err := s.schemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestSaveMessages_DedupAcrossCalls(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	messages := []model.Message{
		{Date: "2/8/2026", Time: "5:55 PM", Sender: "Vaishnavi", Body: "hello"},
		{Date: "2/8/2026", Time: "6:00 PM", Sender: "Parent", Body: "thanks"},
	}

	added, err := s.SaveMessages(ctx, messages)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	// A second import of the same export adds nothing.
	added, err = s.SaveMessages(ctx, messages)
	require.NoError(t, err)
	assert.Zero(t, added)

	count, err := s.GetMessageCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestGetMessages_FilterAndOrder(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.SaveMessages(ctx, []model.Message{
		{Date: "2/9/2026", Time: "9:00 AM", Sender: "Vaishnavi", Body: "class today"},
		{Date: "2/8/2026", Time: "5:55 PM", Sender: "Parent One", Body: "thanks"},
		{Date: "2/8/2026", Time: "13:99 XM", Sender: "Broken", Body: "undated"},
	})
	require.NoError(t, err)

	all, err := s.GetMessages(ctx, service.MessageFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "thanks", all[0].Body)
	assert.Equal(t, "class today", all[1].Body)
	assert.Equal(t, "undated", all[2].Body) // no derivable send time sorts last

	teacherOnly, err := s.GetMessages(ctx, service.MessageFilter{Sender: "vaish"})
	require.NoError(t, err)
	require.Len(t, teacherOnly, 1)
	assert.Equal(t, "class today", teacherOnly[0].Body)

	search, err := s.GetMessages(ctx, service.MessageFilter{Search: "CLASS"})
	require.NoError(t, err)
	require.Len(t, search, 1)

	limited, err := s.GetMessages(ctx, service.MessageFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSaveMessages_RejectsIncomplete(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.SaveMessages(context.Background(), []model.Message{{Body: "no header"}})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestReplaceClassDates_RoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	first := []model.ClassDate{
		{Date: "2/8/2026", Time: "2:30", Type: model.EventClass, Evidence: "class at 2:30"},
		{Date: "2/8/2026", Type: model.EventCancelled, Evidence: "no class today"},
	}
	require.NoError(t, s.ReplaceClassDates(ctx, first))

	got, err := s.GetClassDates(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.EventClass, got[0].Type)
	assert.Equal(t, "class at 2:30", got[0].Evidence)
	assert.Equal(t, model.EventCancelled, got[1].Type)

	// Replacing rebuilds the calendar, not appends.
	require.NoError(t, s.ReplaceClassDates(ctx, first[:1]))
	got, err = s.GetClassDates(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestAudioTags_SaveGetResume(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	tag := &model.AudioTag{
		FileName:        "2026-02-08_Practice-Recording_1755.m4a",
		Raga:            "Bhupali",
		CompositionType: "Bandish",
		Paltaas:         false,
		Taal:            "Teentaal - 16",
		Explanation:     "16 beat cycle with lyrics",
		Model:           "gemini-2.0-flash",
	}
	require.NoError(t, s.SaveAudioTag(ctx, tag))

	got, err := s.GetAudioTag(ctx, tag.FileName)
	require.NoError(t, err)
	assert.Equal(t, "Bhupali", got.Raga)
	assert.False(t, got.TaggedAt.IsZero())

	// Updating the same file overwrites, not duplicates.
	tag.Raga = "Yaman"
	require.NoError(t, s.SaveAudioTag(ctx, tag))
	got, err = s.GetAudioTag(ctx, tag.FileName)
	require.NoError(t, err)
	assert.Equal(t, "Yaman", got.Raga)

	tagged, err := s.GetTaggedFileNames(ctx)
	require.NoError(t, err)
	assert.True(t, tagged[tag.FileName])
	assert.Len(t, tagged, 1)

	all, err := s.GetAudioTags(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetAudioTag_NotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetAudioTag(context.Background(), "missing.m4a")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
