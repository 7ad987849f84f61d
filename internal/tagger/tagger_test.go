package tagger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiddomusic/riyaz/internal/common"
	"github.com/kiddomusic/riyaz/internal/model"
	"github.com/kiddomusic/riyaz/internal/service"
	"github.com/kiddomusic/riyaz/internal/storage"
)

// fakeClient returns canned tags per file name.
type fakeClient struct {
	tags map[string]*model.AudioTag
	errs map[string]error
}

func (f *fakeClient) Tag(_ context.Context, path string) (*model.AudioTag, error) {
	name := filepath.Base(path)
	if err, ok := f.errs[name]; ok {
		return nil, err
	}
	if tag, ok := f.tags[name]; ok {
		copied := *tag
		copied.FileName = name
		return &copied, nil
	}
	return nil, errors.New("unexpected file")
}

func (f *fakeClient) Close() error { return nil }

func newTestStorage(t *testing.T) service.Storage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func writeAudioDir(t *testing.T, names ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("audio"), 0600))
	}
	return dir
}

func TestRun_TagsAndResumes(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	dir := writeAudioDir(t, "2024-05-12_Bandish_1312.m4a", "2024-05-19_Alaap_1300.m4a", "_chat.txt")

	// One file was tagged in an earlier run.
	require.NoError(t, store.SaveAudioTag(ctx, &model.AudioTag{
		FileName: "2024-05-12_Bandish_1312.m4a",
		Raga:     "Yaman",
	}))

	client := &fakeClient{tags: map[string]*model.AudioTag{
		"2024-05-19_Alaap_1300.m4a": {Raga: "Bhupali", CompositionType: "Alaap", Taal: "Unknown"},
	}}

	var calls int
	report, err := New(client, store).Run(ctx, dir, func(done, total int, tag *model.AudioTag) {
		calls++
		assert.Equal(t, 1, total)
		require.NotNil(t, tag)
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Tagged)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 1, calls)

	saved, err := store.GetAudioTag(ctx, "2024-05-19_Alaap_1300.m4a")
	require.NoError(t, err)
	assert.Equal(t, "Bhupali", saved.Raga)
	assert.Equal(t, "Alaap", saved.CompositionType)
}

func TestRun_FailedFileDoesNotAbort(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	dir := writeAudioDir(t, "bad.m4a", "good.opus")

	client := &fakeClient{
		tags: map[string]*model.AudioTag{
			"good.opus": {Raga: "Bhairav", CompositionType: "Taan"},
		},
		errs: map[string]error{
			"bad.m4a": &common.RetryableError{Err: common.ErrTaggingFailed, Retryable: false},
		},
	}

	report, err := New(client, store).Run(ctx, dir, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Tagged)

	_, err = store.GetAudioTag(ctx, "bad.m4a")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRun_NoAudioFiles(t *testing.T) {
	store := newTestStorage(t)
	dir := writeAudioDir(t, "notes.txt")

	_, err := New(&fakeClient{}, store).Run(context.Background(), dir, nil)
	assert.ErrorIs(t, err, common.ErrNoAudioFiles)
}

func TestRun_CanceledContext(t *testing.T) {
	store := newTestStorage(t)
	dir := writeAudioDir(t, "a.m4a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(&fakeClient{}, store).Run(ctx, dir, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(2)
	defer rl.Close()

	assert.True(t, rl.tryAcquire())
	assert.True(t, rl.tryAcquire())
	assert.False(t, rl.tryAcquire())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := rl.wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
