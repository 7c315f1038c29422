package service

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/exception"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/repository"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/view"
)

type mockNotificationService struct {
	SendNotificationFunc func(notification view.OwnerNotification) error
}

func (m mockNotificationService) SendNotification(notification view.OwnerNotification) error {
	if m.SendNotificationFunc != nil {
		return m.SendNotificationFunc(notification)
	}
	return nil
}

type mockDocumentStorageService struct {
	IsActiveFunc       func() bool
	UploadDocumentFunc func(ctx context.Context, localPath string, remoteFolder string, remoteFileName string) (*view.UploadResult, error)
}

func (m mockDocumentStorageService) IsActive() bool {
	if m.IsActiveFunc != nil {
		return m.IsActiveFunc()
	}
	return true
}

func (m mockDocumentStorageService) UploadDocument(ctx context.Context, localPath string, remoteFolder string, remoteFileName string) (*view.UploadResult, error) {
	return m.UploadDocumentFunc(ctx, localPath, remoteFolder, remoteFileName)
}

type versionControlFixture struct {
	service             VersionControlService
	historyRepository   repository.VersionHistoryRepository
	notificationService *mockNotificationService
	documentStorage     *mockDocumentStorageService
}

func newVersionControlFixture(t *testing.T, policy VersionPolicy) *versionControlFixture {
	root := t.TempDir()
	excelService := NewExcelService()
	storageService := NewTestCaseStorageService(root, excelService)
	historyRepository := repository.NewVersionHistoryRepository(root)
	notificationService := &mockNotificationService{}
	documentStorage := &mockDocumentStorageService{}
	return &versionControlFixture{
		service: NewVersionControlService(
			storageService,
			historyRepository,
			excelService,
			NewVersionDiffService(),
			notificationService,
			documentStorage,
			policy),
		historyRepository:   historyRepository,
		notificationService: notificationService,
		documentStorage:     documentStorage,
	}
}

func testCaseTable(testCaseId string, steps ...view.TestCaseStep) view.TestCaseTable {
	for i := range steps {
		steps[i].TestCaseNumber = testCaseId
	}
	return view.TestCaseTable{Steps: steps}
}

func TestCreateNewVersion_FirstCheckIn(t *testing.T) {
	fixture := newVersionControlFixture(t, nil)
	table := testCaseTable("TC-1",
		view.TestCaseStep{StepNo: "1", Description: "Open login page", Owner: "alice"},
	)

	result, err := fixture.service.CreateNewVersion(table, view.CheckInOptions{Comment: "initial", ChangedBy: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "TC-1", result.TestCaseId)
	assert.Equal(t, "1.0", result.Version)
	assert.True(t, result.IsNewVersion)

	_, err = os.Stat(result.FilePath)
	assert.NoError(t, err)

	history, err := fixture.historyRepository.LoadHistory("TC-1")
	require.NoError(t, err)
	assert.Equal(t, "1.0", history.CurrentVersion)
	require.Len(t, history.Versions, 1)
	assert.Equal(t, "alice", history.Versions[0].ChangedBy)
	assert.Equal(t, "initial", history.Versions[0].Comment)
	assert.Equal(t, "alice", history.Versions[0].Owner)
	assert.NotEmpty(t, history.Versions[0].ContentHash)
}

func TestCreateNewVersion_IdenticalContentIsNoOp(t *testing.T) {
	fixture := newVersionControlFixture(t, nil)
	table := testCaseTable("TC-1", view.TestCaseStep{StepNo: "1", Description: "Open login page"})

	first, err := fixture.service.CreateNewVersion(table, view.CheckInOptions{})
	require.NoError(t, err)
	second, err := fixture.service.CreateNewVersion(table, view.CheckInOptions{})
	require.NoError(t, err)

	assert.False(t, second.IsNewVersion)
	assert.Equal(t, first.Version, second.Version)

	history, err := fixture.historyRepository.LoadHistory("TC-1")
	require.NoError(t, err)
	assert.Len(t, history.Versions, 1)
}

func TestCreateNewVersion_ChangedContentIncrementsMinor(t *testing.T) {
	fixture := newVersionControlFixture(t, nil)

	table := testCaseTable("TC-1", view.TestCaseStep{StepNo: "1", Description: "Open login page"})
	first, err := fixture.service.CreateNewVersion(table, view.CheckInOptions{})
	require.NoError(t, err)
	assert.Equal(t, "1.0", first.Version)

	table.Steps[0].Description = "Open the login page"
	second, err := fixture.service.CreateNewVersion(table, view.CheckInOptions{})
	require.NoError(t, err)
	assert.Equal(t, "1.1", second.Version)
	assert.True(t, second.IsNewVersion)

	table.Steps[0].ExpectedResult = "Login page is shown"
	third, err := fixture.service.CreateNewVersion(table, view.CheckInOptions{})
	require.NoError(t, err)
	assert.Equal(t, "1.2", third.Version)
}

func TestCreateNewVersion_MissingTestCaseId(t *testing.T) {
	fixture := newVersionControlFixture(t, nil)

	testCases := []struct {
		name  string
		table view.TestCaseTable
	}{
		{"EmptyTable", view.TestCaseTable{}},
		{"NoTestCaseNumber", view.TestCaseTable{Steps: []view.TestCaseStep{{StepNo: "1"}}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fixture.service.CreateNewVersion(tc.table, view.CheckInOptions{})
			require.Error(t, err)
			customError, ok := err.(*exception.CustomError)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, customError.Status)
			assert.Equal(t, exception.TestCaseIdMissing, customError.Code)
		})
	}
}

func TestCreateNewVersion_DefaultsApplied(t *testing.T) {
	fixture := newVersionControlFixture(t, nil)
	table := testCaseTable("TC-1", view.TestCaseStep{StepNo: "1", Description: "Open login page"})

	_, err := fixture.service.CreateNewVersion(table, view.CheckInOptions{})
	require.NoError(t, err)

	history, err := fixture.historyRepository.LoadHistory("TC-1")
	require.NoError(t, err)
	assert.Equal(t, DefaultChangedBy, history.Versions[0].ChangedBy)
	assert.Equal(t, DefaultComment, history.Versions[0].Comment)
}

func TestCreateNewVersion_CustomVersionPolicy(t *testing.T) {
	policy := func(history *view.VersionHistory) string {
		if len(history.Versions) == 0 {
			return "2.0"
		}
		return "3.0"
	}
	fixture := newVersionControlFixture(t, policy)
	table := testCaseTable("TC-1", view.TestCaseStep{StepNo: "1", Description: "Open login page"})

	first, err := fixture.service.CreateNewVersion(table, view.CheckInOptions{})
	require.NoError(t, err)
	assert.Equal(t, "2.0", first.Version)

	table.Steps[0].Description = "changed"
	second, err := fixture.service.CreateNewVersion(table, view.CheckInOptions{})
	require.NoError(t, err)
	assert.Equal(t, "3.0", second.Version)
}

func TestCreateNewVersion_NotifiesOwnerByDefault(t *testing.T) {
	fixture := newVersionControlFixture(t, nil)
	notified := make(chan view.OwnerNotification, 1)
	fixture.notificationService.SendNotificationFunc = func(notification view.OwnerNotification) error {
		notified <- notification
		return nil
	}
	table := testCaseTable("TC-1", view.TestCaseStep{StepNo: "1", Description: "Open login page", Owner: "alice"})

	// no explicit notification option: the owner is notified by default
	_, err := fixture.service.CreateNewVersion(table, view.CheckInOptions{ChangedBy: "bob"})
	require.NoError(t, err)

	select {
	case notification := <-notified:
		assert.Equal(t, "alice", notification.Recipient)
		assert.Contains(t, notification.Message, "bob")
	case <-time.After(5 * time.Second):
		t.Fatal("owner notification was not sent")
	}
}

func TestCreateNewVersion_SkipNotification(t *testing.T) {
	fixture := newVersionControlFixture(t, nil)
	notified := make(chan view.OwnerNotification, 1)
	fixture.notificationService.SendNotificationFunc = func(notification view.OwnerNotification) error {
		notified <- notification
		return nil
	}
	table := testCaseTable("TC-1", view.TestCaseStep{StepNo: "1", Description: "Open login page", Owner: "alice"})

	_, err := fixture.service.CreateNewVersion(table, view.CheckInOptions{SkipNotification: true})
	require.NoError(t, err)

	select {
	case <-notified:
		t.Fatal("owner notification was sent despite SkipNotification")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestGetTestCaseVersion(t *testing.T) {
	fixture := newVersionControlFixture(t, nil)
	table := testCaseTable("TC-1",
		view.TestCaseStep{StepNo: "1", Description: "Open login page", ExpectedResult: "Login page is shown"},
		view.TestCaseStep{StepNo: "2", Description: "Enter credentials"},
	)
	_, err := fixture.service.CreateNewVersion(table, view.CheckInOptions{})
	require.NoError(t, err)

	loaded, err := fixture.service.GetTestCaseVersion("TC-1", "1.0")
	require.NoError(t, err)
	require.Len(t, loaded.Steps, 2)
	assert.Equal(t, "Open login page", loaded.Steps[0].Description)
	assert.Equal(t, "TC-1", loaded.TestCaseId())

	// empty version resolves to the current one
	latest, err := fixture.service.GetTestCaseVersion("TC-1", "")
	require.NoError(t, err)
	assert.Equal(t, loaded.Steps[1].Description, latest.Steps[1].Description)
}

func TestGetTestCaseVersion_UnknownVersion(t *testing.T) {
	fixture := newVersionControlFixture(t, nil)
	table := testCaseTable("TC-1", view.TestCaseStep{StepNo: "1", Description: "Open login page"})
	_, err := fixture.service.CreateNewVersion(table, view.CheckInOptions{})
	require.NoError(t, err)

	_, err = fixture.service.GetTestCaseVersion("TC-1", "9.9")
	require.Error(t, err)
	customError, ok := err.(*exception.CustomError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, customError.Status)
	assert.Equal(t, exception.VersionNotFound, customError.Code)
}

func TestGetTestCaseVersion_NoVersionsYet(t *testing.T) {
	fixture := newVersionControlFixture(t, nil)

	_, err := fixture.service.GetTestCaseVersion("TC-unknown", "")
	require.Error(t, err)
	customError, ok := err.(*exception.CustomError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, customError.Status)
	assert.Equal(t, exception.NoVersionsExist, customError.Code)
}

func TestExportVersionToFile(t *testing.T) {
	fixture := newVersionControlFixture(t, nil)
	table := testCaseTable("TC-1", view.TestCaseStep{StepNo: "1", Description: "Open login page"})
	_, err := fixture.service.CreateNewVersion(table, view.CheckInOptions{})
	require.NoError(t, err)

	outputPath := t.TempDir() + "/export.xlsx"
	exportedPath, err := fixture.service.ExportVersionToFile("TC-1", outputPath, "")
	require.NoError(t, err)
	assert.Equal(t, outputPath, exportedPath)

	_, err = os.Stat(outputPath)
	assert.NoError(t, err)
}

func TestCompareVersions(t *testing.T) {
	fixture := newVersionControlFixture(t, nil)

	table := testCaseTable("TC-1",
		view.TestCaseStep{StepNo: "1", Description: "Open login page"},
		view.TestCaseStep{StepNo: "2", Description: "Enter credentials"},
	)
	_, err := fixture.service.CreateNewVersion(table, view.CheckInOptions{})
	require.NoError(t, err)

	table.Steps[1].Description = "Enter valid credentials"
	table.Steps = append(table.Steps, view.TestCaseStep{TestCaseNumber: "TC-1", StepNo: "3", Description: "Press login"})
	_, err = fixture.service.CreateNewVersion(table, view.CheckInOptions{})
	require.NoError(t, err)

	comparison, err := fixture.service.CompareVersions("TC-1", "1.0", "1.1")
	require.NoError(t, err)
	assert.Equal(t, "1.0", comparison.PreviousVersion)
	assert.Equal(t, "1.1", comparison.Version)
	assert.Equal(t, 1, comparison.Diff.Summary.Added)
	assert.Equal(t, 1, comparison.Diff.Summary.Modified)
	assert.Equal(t, 1, comparison.Diff.Summary.Unchanged)
}

func TestUploadVersionToDocumentStorage(t *testing.T) {
	fixture := newVersionControlFixture(t, nil)
	fixture.documentStorage.UploadDocumentFunc = func(ctx context.Context, localPath string, remoteFolder string, remoteFileName string) (*view.UploadResult, error) {
		// the exported temp file must exist while the upload runs
		_, err := os.Stat(localPath)
		require.NoError(t, err)
		assert.Equal(t, "regression", remoteFolder)
		return &view.UploadResult{Url: "https://storage.example.com/regression/" + remoteFileName, Path: "regression/" + remoteFileName}, nil
	}

	table := testCaseTable("TC-1", view.TestCaseStep{StepNo: "1", Description: "Open login page"})
	_, err := fixture.service.CreateNewVersion(table, view.CheckInOptions{})
	require.NoError(t, err)

	result, err := fixture.service.UploadVersionToDocumentStorage(context.Background(), "TC-1", "1.0", "regression")
	require.NoError(t, err)
	assert.Contains(t, result.Url, "https://storage.example.com/regression/")

	history, err := fixture.historyRepository.LoadHistory("TC-1")
	require.NoError(t, err)
	record := history.RecordFor("1.0")
	require.NotNil(t, record)
	assert.Equal(t, result.Url, record.ExternalUploadUrl)
	assert.Equal(t, result.Path, record.ExternalUploadPath)
}

func TestUploadVersionToDocumentStorage_KeepsFirstRecordedLocation(t *testing.T) {
	fixture := newVersionControlFixture(t, nil)
	uploadCount := 0
	fixture.documentStorage.UploadDocumentFunc = func(ctx context.Context, localPath string, remoteFolder string, remoteFileName string) (*view.UploadResult, error) {
		uploadCount++
		return &view.UploadResult{
			Url:  fmt.Sprintf("https://storage.example.com/upload-%d/%s", uploadCount, remoteFileName),
			Path: fmt.Sprintf("upload-%d/%s", uploadCount, remoteFileName),
		}, nil
	}

	table := testCaseTable("TC-1", view.TestCaseStep{StepNo: "1", Description: "Open login page"})
	_, err := fixture.service.CreateNewVersion(table, view.CheckInOptions{})
	require.NoError(t, err)

	first, err := fixture.service.UploadVersionToDocumentStorage(context.Background(), "TC-1", "1.0", "")
	require.NoError(t, err)
	_, err = fixture.service.UploadVersionToDocumentStorage(context.Background(), "TC-1", "1.0", "")
	require.NoError(t, err)

	history, err := fixture.historyRepository.LoadHistory("TC-1")
	require.NoError(t, err)
	record := history.RecordFor("1.0")
	require.NotNil(t, record)
	assert.Equal(t, first.Url, record.ExternalUploadUrl)
	assert.Equal(t, first.Path, record.ExternalUploadPath)
}

func TestMaintenanceStatusTransitions(t *testing.T) {
	fixture := newVersionControlFixture(t, nil)
	table := testCaseTable("TC-1", view.TestCaseStep{StepNo: "1", Description: "Open login page"})
	_, err := fixture.service.CreateNewVersion(table, view.CheckInOptions{})
	require.NoError(t, err)

	history, err := fixture.service.MarkUnderMaintenance("TC-1")
	require.NoError(t, err)
	assert.Equal(t, view.StatusUnderMaintenance, history.Status)
	require.NotNil(t, history.MaintenanceStarted)
	assert.Nil(t, history.MaintenanceEnded)

	history, err = fixture.service.MarkAsActive("TC-1")
	require.NoError(t, err)
	assert.Equal(t, view.StatusActive, history.Status)
	require.NotNil(t, history.MaintenanceEnded)
	assert.False(t, history.MaintenanceEnded.Before(*history.MaintenanceStarted))
}

func TestDefaultVersionPolicy(t *testing.T) {
	testCases := []struct {
		name     string
		history  *view.VersionHistory
		expected string
	}{
		{"EmptyHistory", &view.VersionHistory{}, "1.0"},
		{"MinorIncrement", &view.VersionHistory{Versions: []view.VersionRecord{{Version: "1.0"}, {Version: "1.1"}}}, "1.2"},
		{"MajorPreserved", &view.VersionHistory{Versions: []view.VersionRecord{{Version: "3.7"}}}, "3.8"},
		{"UnparsableLatest", &view.VersionHistory{Versions: []view.VersionRecord{{Version: "draft"}}}, "1.1"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DefaultVersionPolicy(tc.history))
		})
	}
}
