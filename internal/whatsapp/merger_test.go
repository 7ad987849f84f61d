package whatsapp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTxt(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestMerge_DeduplicatesAcrossExports(t *testing.T) {
	dir := t.TempDir()
	shared := "[5:55 PM, 2/8/2026] Vaishnavi: see the kiddos today"
	a := writeTxt(t, dir, "a.txt", shared+"\n[6:00 PM, 2/8/2026] Parent: thanks!")
	b := writeTxt(t, dir, "b.txt", shared)

	merged, report := Merge([]string{a, b})

	require.Len(t, merged, 2)
	assert.Equal(t, 2, report.ArchivesRead)
	assert.Equal(t, 3, report.ParsedTotal)
	assert.Equal(t, 1, report.Duplicates)
	assert.Empty(t, report.Failed)
}

func TestMerge_SortsChronologically(t *testing.T) {
	dir := t.TempDir()
	a := writeTxt(t, dir, "a.txt",
		"[7/18/23, 9:00 AM] X: later\n[7/17/23, 5:54:21 PM] X: earlier")
	b := writeTxt(t, dir, "b.txt", "[7/17/23, 1:00 PM] X: earliest")

	merged, report := Merge([]string{a, b})

	require.Len(t, merged, 3)
	assert.Equal(t, "earliest", merged[0].Body)
	assert.Equal(t, "earlier", merged[1].Body)
	assert.Equal(t, "later", merged[2].Body)
	assert.Zero(t, report.Undated)
}

func TestMerge_SkipsCorruptArchiveAndContinues(t *testing.T) {
	dir := t.TempDir()
	good := writeTxt(t, dir, "good.txt", "[5:55 PM, 2/8/2026] V: hello")
	missing := filepath.Join(dir, "missing.zip")

	merged, report := Merge([]string{missing, good})

	require.Len(t, merged, 1)
	assert.Equal(t, 1, report.ArchivesRead)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, missing, report.Failed[0].Path)
	assert.Error(t, report.Failed[0].Err)
}

func TestMerge_UndatedMessagesSortLastAndAreCounted(t *testing.T) {
	dir := t.TempDir()
	// 13:70 survives the header grammar but cannot become a datetime.
	a := writeTxt(t, dir, "a.txt",
		"[13:70 PM, 2/8/2026] V: broken clock\n[5:55 PM, 2/8/2026] V: fine")

	merged, report := Merge([]string{a})

	require.Len(t, merged, 2)
	assert.Equal(t, "fine", merged[0].Body)
	assert.Equal(t, "broken clock", merged[1].Body)
	assert.Equal(t, 1, report.Undated)
}

func TestMerge_FirstOccurrenceWins(t *testing.T) {
	dir := t.TempDir()
	prefix := strings.Repeat("x", 100)
	// Same sender, same minute, bodies identical through rune 100: the
	// second message is treated as a duplicate by design.
	a := writeTxt(t, dir, "a.txt",
		"[5:55 PM, 2/8/2026] V: "+prefix+" original tail")
	b := writeTxt(t, dir, "b.txt",
		"[5:55 PM, 2/8/2026] V: "+prefix+" different tail")

	merged, report := Merge([]string{a, b})

	require.Len(t, merged, 1)
	assert.True(t, strings.HasSuffix(merged[0].Body, "original tail"))
	assert.Equal(t, 1, report.Duplicates)
}
