// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	log "github.com/sirupsen/logrus"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/exception"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/metrics"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/repository"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/utils"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/view"
)

const DefaultChangedBy = "System"
const DefaultComment = "No comment provided"

// VersionPolicy allocates the next version id for a history. The default never
// promotes the major component; installations wanting e.g. a major bump on
// review can plug their own policy.
type VersionPolicy func(history *view.VersionHistory) string

// DefaultVersionPolicy yields "1.0" for the first check-in and increments the
// minor component of the latest version afterwards.
func DefaultVersionPolicy(history *view.VersionHistory) string {
	latest := history.LatestRecord()
	if latest == nil {
		return "1.0"
	}
	major, minor, err := parseVersion(latest.Version)
	if err != nil {
		log.Warnf("Latest version %s of test case %s is not a major.minor id, falling back to version count", latest.Version, history.TestCaseId)
		return fmt.Sprintf("1.%d", len(history.Versions))
	}
	return fmt.Sprintf("%d.%d", major, minor+1)
}

func parseVersion(version string) (int, int, error) {
	parts := strings.SplitN(version, ".", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("version %s is not in major.minor form", version)
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return major, minor, nil
}

type VersionControlService interface {
	CreateNewVersion(table view.TestCaseTable, options view.CheckInOptions) (*view.CheckInResult, error)
	GetVersionHistory(testCaseId string) (*view.VersionHistory, error)
	GetTestCaseVersion(testCaseId string, version string) (*view.TestCaseTable, error)
	ExportVersionToFile(testCaseId string, outputPath string, version string) (string, error)
	CompareVersions(testCaseId string, previousVersion string, version string) (*view.VersionComparison, error)
	UploadVersionToDocumentStorage(ctx context.Context, testCaseId string, version string, folder string) (*view.UploadResult, error)
	MarkUnderMaintenance(testCaseId string) (*view.VersionHistory, error)
	MarkAsActive(testCaseId string) (*view.VersionHistory, error)
}

func NewVersionControlService(storageService TestCaseStorageService,
	historyRepository repository.VersionHistoryRepository,
	excelService ExcelService,
	diffService VersionDiffService,
	notificationService NotificationService,
	documentStorageService DocumentStorageService,
	versionPolicy VersionPolicy) VersionControlService {
	if versionPolicy == nil {
		versionPolicy = DefaultVersionPolicy
	}
	return &versionControlServiceImpl{
		storageService:         storageService,
		historyRepository:      historyRepository,
		excelService:           excelService,
		diffService:            diffService,
		notificationService:    notificationService,
		documentStorageService: documentStorageService,
		versionPolicy:          versionPolicy,
		testCaseLocks:          map[string]*sync.Mutex{},
	}
}

type versionControlServiceImpl struct {
	storageService         TestCaseStorageService
	historyRepository      repository.VersionHistoryRepository
	excelService           ExcelService
	diffService            VersionDiffService
	notificationService    NotificationService
	documentStorageService DocumentStorageService
	versionPolicy          VersionPolicy

	// check-ins and ledger mutations are serialized per test case id, so
	// "write spreadsheet + append ledger record + persist ledger" is never
	// interleaved with a concurrent writer for the same test case
	locksMutex    sync.Mutex
	testCaseLocks map[string]*sync.Mutex
}

func (v *versionControlServiceImpl) lockTestCase(testCaseId string) *sync.Mutex {
	v.locksMutex.Lock()
	lock, exists := v.testCaseLocks[testCaseId]
	if !exists {
		lock = &sync.Mutex{}
		v.testCaseLocks[testCaseId] = lock
	}
	v.locksMutex.Unlock()
	lock.Lock()
	return lock
}

func (v *versionControlServiceImpl) CreateNewVersion(table view.TestCaseTable, options view.CheckInOptions) (*view.CheckInResult, error) {
	start := time.Now()
	testCaseId := table.TestCaseId()
	if testCaseId == "" {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.TestCaseIdMissing,
			Message: exception.TestCaseIdMissingMsg,
		}
	}
	owner := table.TableOwner()
	contentHash := CalculateTableChecksum(table)

	lock := v.lockTestCase(testCaseId)
	defer lock.Unlock()

	history, err := v.historyRepository.LoadHistory(testCaseId)
	if err != nil {
		return nil, wrapVersionControlError(err, testCaseId, "createNewVersion")
	}

	if history.CurrentVersion != "" {
		if currentRecord := history.RecordFor(history.CurrentVersion); currentRecord != nil && currentRecord.ContentHash == contentHash {
			metrics.NoOpCheckInsTotal.WithLabelValues().Inc()
			log.Debugf("Check-in of test case %s matched current version %s by content hash, no new version created", testCaseId, currentRecord.Version)
			return &view.CheckInResult{
				TestCaseId:   testCaseId,
				Version:      currentRecord.Version,
				IsNewVersion: false,
				Timestamp:    currentRecord.Timestamp,
			}, nil
		}
	}

	newVersion := v.versionPolicy(history)
	filePath, err := v.storageService.SaveVersionFile(testCaseId, newVersion, table)
	if err != nil {
		return nil, wrapVersionControlError(err, testCaseId, "createNewVersion")
	}

	record := view.VersionRecord{
		Version:     newVersion,
		Timestamp:   time.Now().UTC(),
		ContentHash: contentHash,
		ChangedBy:   valueOrDefault(options.ChangedBy, DefaultChangedBy),
		Comment:     valueOrDefault(options.Comment, DefaultComment),
		FileName:    filepath.Base(filePath),
		Owner:       owner,
	}
	history.Versions = append(history.Versions, record)
	history.CurrentVersion = newVersion
	if err := v.historyRepository.SaveHistory(testCaseId, history); err != nil {
		return nil, wrapVersionControlError(err, testCaseId, "createNewVersion")
	}
	metrics.CheckInsTotal.WithLabelValues().Inc()

	if !options.SkipNotification && owner != "" {
		notification := view.OwnerNotification{
			Recipient: owner,
			Subject:   fmt.Sprintf("Test case %s updated to version %s", testCaseId, newVersion),
			Message:   fmt.Sprintf("Version %s of test case %s was checked in by %s: %s", newVersion, testCaseId, record.ChangedBy, record.Comment),
		}
		utils.SafeAsync(func() {
			if err := v.notificationService.SendNotification(notification); err != nil {
				log.Warnf("Failed to notify owner of test case %s: %v", testCaseId, err.Error())
			}
		})
	}

	utils.PerfLog(time.Since(start).Milliseconds(), 500, "CreateNewVersion: check-in")
	return &view.CheckInResult{
		TestCaseId:   testCaseId,
		Version:      newVersion,
		IsNewVersion: true,
		Timestamp:    record.Timestamp,
		FilePath:     filePath,
	}, nil
}

func (v *versionControlServiceImpl) GetVersionHistory(testCaseId string) (*view.VersionHistory, error) {
	history, err := v.historyRepository.LoadHistory(testCaseId)
	if err != nil {
		return nil, &exception.CustomError{
			Status:  http.StatusInternalServerError,
			Code:    exception.HistoryCorrupted,
			Message: exception.HistoryCorruptedMsg,
			Params:  map[string]interface{}{"testCaseId": testCaseId},
			Debug:   err.Error(),
		}
	}
	return history, nil
}

func (v *versionControlServiceImpl) GetTestCaseVersion(testCaseId string, version string) (*view.TestCaseTable, error) {
	resolved, _, err := v.resolveVersion(testCaseId, version)
	if err != nil {
		return nil, err
	}
	return v.storageService.LoadVersionFile(testCaseId, resolved)
}

func (v *versionControlServiceImpl) ExportVersionToFile(testCaseId string, outputPath string, version string) (string, error) {
	table, err := v.GetTestCaseVersion(testCaseId, version)
	if err != nil {
		return "", err
	}
	if err := v.excelService.WriteTestCaseTable(*table, outputPath); err != nil {
		if customError, ok := err.(*exception.CustomError); ok {
			return "", customError
		}
		return "", &exception.CustomError{
			Status:  http.StatusInternalServerError,
			Code:    exception.ExportFailed,
			Message: exception.ExportFailedMsg,
			Params:  map[string]interface{}{"testCaseId": testCaseId, "version": version},
			Debug:   err.Error(),
		}
	}
	return outputPath, nil
}

func (v *versionControlServiceImpl) CompareVersions(testCaseId string, previousVersion string, version string) (*view.VersionComparison, error) {
	resolvedPrevious, _, err := v.resolveVersion(testCaseId, previousVersion)
	if err != nil {
		return nil, err
	}
	resolvedCurrent, _, err := v.resolveVersion(testCaseId, version)
	if err != nil {
		return nil, err
	}
	previousTable, err := v.storageService.LoadVersionFile(testCaseId, resolvedPrevious)
	if err != nil {
		return nil, err
	}
	currentTable, err := v.storageService.LoadVersionFile(testCaseId, resolvedCurrent)
	if err != nil {
		return nil, err
	}
	return &view.VersionComparison{
		TestCaseId:      testCaseId,
		PreviousVersion: resolvedPrevious,
		Version:         resolvedCurrent,
		Diff:            v.diffService.CompareTables(*previousTable, *currentTable),
	}, nil
}

func (v *versionControlServiceImpl) UploadVersionToDocumentStorage(ctx context.Context, testCaseId string, version string, folder string) (*view.UploadResult, error) {
	lock := v.lockTestCase(testCaseId)
	defer lock.Unlock()

	resolved, history, err := v.resolveVersion(testCaseId, version)
	if err != nil {
		return nil, err
	}
	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("%s_%s_%s.xlsx", slug.Make(testCaseId), resolved, uuid.New().String()))
	defer func() {
		if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
			log.Warnf("Failed to remove temp export file %s: %v", tempPath, err.Error())
		}
	}()
	if _, err := v.ExportVersionToFile(testCaseId, tempPath, resolved); err != nil {
		return nil, err
	}
	if folder == "" {
		folder = "test-cases"
	}
	remoteFileName := fmt.Sprintf("%s_%s.xlsx", slug.Make(testCaseId), resolved)
	uploadResult, err := v.documentStorageService.UploadDocument(ctx, tempPath, folder, remoteFileName)
	if err != nil {
		return nil, &exception.CustomError{
			Status:  http.StatusInternalServerError,
			Code:    exception.DocumentUploadFailed,
			Message: exception.DocumentUploadFailedMsg,
			Params:  map[string]interface{}{"testCaseId": testCaseId, "version": resolved},
			Debug:   err.Error(),
		}
	}

	// the upload fields are set once by the first successful upload and
	// kept on repeats, so the ledger always points at the original location
	if record := history.RecordFor(resolved); record != nil && record.ExternalUploadUrl == "" {
		record.ExternalUploadUrl = uploadResult.Url
		record.ExternalUploadPath = uploadResult.Path
		if err := v.historyRepository.SaveHistory(testCaseId, history); err != nil {
			return nil, wrapVersionControlError(err, testCaseId, "uploadVersionToDocumentStorage")
		}
	}
	metrics.DocumentUploadsTotal.WithLabelValues().Inc()
	return uploadResult, nil
}

func (v *versionControlServiceImpl) MarkUnderMaintenance(testCaseId string) (*view.VersionHistory, error) {
	return v.setMaintenanceStatus(testCaseId, view.StatusUnderMaintenance)
}

func (v *versionControlServiceImpl) MarkAsActive(testCaseId string) (*view.VersionHistory, error) {
	return v.setMaintenanceStatus(testCaseId, view.StatusActive)
}

func (v *versionControlServiceImpl) setMaintenanceStatus(testCaseId string, status view.VersionStatus) (*view.VersionHistory, error) {
	lock := v.lockTestCase(testCaseId)
	defer lock.Unlock()

	history, err := v.historyRepository.LoadHistory(testCaseId)
	if err != nil {
		return nil, wrapVersionControlError(err, testCaseId, "setMaintenanceStatus")
	}
	now := time.Now().UTC()
	history.Status = status
	if status == view.StatusUnderMaintenance {
		history.MaintenanceStarted = &now
		history.MaintenanceEnded = nil
	} else {
		history.MaintenanceEnded = &now
	}
	if err := v.historyRepository.SaveHistory(testCaseId, history); err != nil {
		return nil, wrapVersionControlError(err, testCaseId, "setMaintenanceStatus")
	}
	return history, nil
}

// resolveVersion maps an empty version to the current one and checks the
// resolved id is recorded in the ledger.
func (v *versionControlServiceImpl) resolveVersion(testCaseId string, version string) (string, *view.VersionHistory, error) {
	history, err := v.GetVersionHistory(testCaseId)
	if err != nil {
		return "", nil, err
	}
	resolved := version
	if resolved == "" {
		resolved = history.CurrentVersion
	}
	if resolved == "" {
		return "", nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.NoVersionsExist,
			Message: exception.NoVersionsExistMsg,
			Params:  map[string]interface{}{"testCaseId": testCaseId},
		}
	}
	if history.RecordFor(resolved) == nil {
		return "", nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.VersionNotFound,
			Message: exception.VersionNotFoundMsg,
			Params:  map[string]interface{}{"testCaseId": testCaseId, "version": resolved},
		}
	}
	return resolved, history, nil
}

func wrapVersionControlError(err error, testCaseId string, operation string) error {
	if customError, ok := err.(*exception.CustomError); ok {
		return customError
	}
	return &exception.CustomError{
		Status:  http.StatusInternalServerError,
		Code:    exception.VersionControlFailure,
		Message: exception.VersionControlFailureMsg,
		Params:  map[string]interface{}{"testCaseId": testCaseId, "operation": operation},
		Debug:   err.Error(),
	}
}

func valueOrDefault(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
