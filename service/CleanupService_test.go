package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/repository"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/view"
)

type cleanupFixture struct {
	root              string
	storageService    TestCaseStorageService
	historyRepository repository.VersionHistoryRepository
	service           VersionControlService
	job               storageCleanupJob
}

func newCleanupFixture(t *testing.T) *cleanupFixture {
	root := t.TempDir()
	excelService := NewExcelService()
	storageService := NewTestCaseStorageService(root, excelService)
	historyRepository := repository.NewVersionHistoryRepository(root)
	return &cleanupFixture{
		root:              root,
		storageService:    storageService,
		historyRepository: historyRepository,
		service: NewVersionControlService(
			storageService,
			historyRepository,
			excelService,
			NewVersionDiffService(),
			&mockNotificationService{},
			&mockDocumentStorageService{},
			nil),
		job: storageCleanupJob{
			storageService:    storageService,
			historyRepository: historyRepository,
		},
	}
}

func backdate(t *testing.T, path string) {
	old := time.Now().Add(-2 * staleTempAge)
	require.NoError(t, os.Chtimes(path, old, old))
}

func TestCleanVersionStore_KeepsInFlightVersionFile(t *testing.T) {
	fixture := newCleanupFixture(t)
	table := testCaseTable("TC-1", view.TestCaseStep{StepNo: "1", Description: "Open login page"})
	_, err := fixture.service.CreateNewVersion(table, view.CheckInOptions{})
	require.NoError(t, err)

	// a check-in in flight: version file written, ledger record not saved yet
	inFlightPath, err := fixture.storageService.SaveVersionFile("TC-1", "1.1", table)
	require.NoError(t, err)

	removed, err := fixture.job.cleanVersionStore()
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	_, err = os.Stat(inFlightPath)
	assert.NoError(t, err)
}

func TestCleanVersionStore_RemovesOldOrphanedVersionFile(t *testing.T) {
	fixture := newCleanupFixture(t)
	table := testCaseTable("TC-1", view.TestCaseStep{StepNo: "1", Description: "Open login page"})
	result, err := fixture.service.CreateNewVersion(table, view.CheckInOptions{})
	require.NoError(t, err)

	orphanPath, err := fixture.storageService.SaveVersionFile("TC-1", "9.9", table)
	require.NoError(t, err)
	backdate(t, orphanPath)

	removed, err := fixture.job.cleanVersionStore()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(orphanPath)
	assert.True(t, os.IsNotExist(err))
	// the ledger-recorded version survives
	_, err = os.Stat(result.FilePath)
	assert.NoError(t, err)
}

func TestCleanVersionStore_SkipsTestCaseWithoutLedger(t *testing.T) {
	fixture := newCleanupFixture(t)
	table := testCaseTable("TC-1", view.TestCaseStep{StepNo: "1", Description: "Open login page"})

	orphanPath, err := fixture.storageService.SaveVersionFile("TC-1", "1.0", table)
	require.NoError(t, err)
	backdate(t, orphanPath)

	removed, err := fixture.job.cleanVersionStore()
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	_, err = os.Stat(orphanPath)
	assert.NoError(t, err)
}

func TestCleanVersionStore_RemovesStaleTempFiles(t *testing.T) {
	fixture := newCleanupFixture(t)

	stalePath := filepath.Join(fixture.root, "tc-1_version_history.json.tmp-123")
	require.NoError(t, os.WriteFile(stalePath, []byte("{}"), 0644))
	backdate(t, stalePath)
	freshPath := filepath.Join(fixture.root, "tc-2_version_history.json.tmp-456")
	require.NoError(t, os.WriteFile(freshPath, []byte("{}"), 0644))

	removed, err := fixture.job.cleanVersionStore()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(stalePath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(freshPath)
	assert.NoError(t, err)
}
