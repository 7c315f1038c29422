package repository

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/view"
)

func TestLoadHistory_MissingFileReturnsFreshHistory(t *testing.T) {
	repo := NewVersionHistoryRepository(t.TempDir())

	history, err := repo.LoadHistory("TC-1")
	require.NoError(t, err)
	assert.Equal(t, "TC-1", history.TestCaseId)
	assert.Empty(t, history.Versions)
	assert.Empty(t, history.CurrentVersion)
}

func TestLoadHistory_CorruptedFileReturnsFreshHistory(t *testing.T) {
	root := t.TempDir()
	repo := NewVersionHistoryRepository(root)

	require.NoError(t, os.WriteFile(repo.HistoryFilePath("TC-1"), []byte("{not valid json"), 0644))

	history, err := repo.LoadHistory("TC-1")
	require.NoError(t, err)
	assert.Equal(t, "TC-1", history.TestCaseId)
	assert.Empty(t, history.Versions)
}

func TestSaveHistory_RoundTrip(t *testing.T) {
	repo := NewVersionHistoryRepository(t.TempDir())

	timestamp := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)
	history := &view.VersionHistory{
		TestCaseId:     "TC-1",
		CreatedAt:      timestamp,
		CurrentVersion: "1.1",
		Status:         view.StatusActive,
		Versions: []view.VersionRecord{
			{Version: "1.0", Timestamp: timestamp, ContentHash: "aaa", ChangedBy: "alice", Comment: "initial"},
			{Version: "1.1", Timestamp: timestamp.Add(time.Hour), ContentHash: "bbb", ChangedBy: "bob", Comment: "fix step 2"},
		},
	}
	require.NoError(t, repo.SaveHistory("TC-1", history))

	loaded, err := repo.LoadHistory("TC-1")
	require.NoError(t, err)
	assert.Equal(t, history.CurrentVersion, loaded.CurrentVersion)
	assert.Equal(t, history.Status, loaded.Status)
	require.Len(t, loaded.Versions, 2)
	assert.Equal(t, "1.0", loaded.Versions[0].Version)
	assert.Equal(t, "bob", loaded.Versions[1].ChangedBy)
}

func TestSaveHistory_OverwriteKeepsSingleLedger(t *testing.T) {
	root := t.TempDir()
	repo := NewVersionHistoryRepository(root)

	history := &view.VersionHistory{TestCaseId: "TC-1", CreatedAt: time.Now().UTC(), Versions: []view.VersionRecord{}}
	require.NoError(t, repo.SaveHistory("TC-1", history))
	history.CurrentVersion = "1.0"
	history.Versions = append(history.Versions, view.VersionRecord{Version: "1.0", Timestamp: time.Now().UTC()})
	require.NoError(t, repo.SaveHistory("TC-1", history))

	// the temp file from the atomic rename must not linger
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	ledgers := 0
	for _, entry := range entries {
		assert.False(t, strings.Contains(entry.Name(), ".tmp-"), "temp file %s left behind", entry.Name())
		if strings.HasSuffix(entry.Name(), "_version_history.json") {
			ledgers++
		}
	}
	assert.Equal(t, 1, ledgers)

	loaded, err := repo.LoadHistory("TC-1")
	require.NoError(t, err)
	assert.Equal(t, "1.0", loaded.CurrentVersion)
}

func TestHistoryExists(t *testing.T) {
	repo := NewVersionHistoryRepository(t.TempDir())

	assert.False(t, repo.HistoryExists("TC-1"))
	require.NoError(t, repo.SaveHistory("TC-1", &view.VersionHistory{TestCaseId: "TC-1", Versions: []view.VersionRecord{}}))
	assert.True(t, repo.HistoryExists("TC-1"))
}

func TestHistoryFilePath_SluggedTestCaseId(t *testing.T) {
	root := t.TempDir()
	repo := NewVersionHistoryRepository(root)

	path := repo.HistoryFilePath("Login Flow/Admin")
	assert.Equal(t, root, filepath.Dir(path))
	assert.NotContains(t, filepath.Base(path), "/")
	assert.NotContains(t, filepath.Base(path), " ")
}
