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
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/exception"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/metrics"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/repository"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/utils"
	"golang.org/x/sync/errgroup"
)

// staleTempAge guards against removing files an in-flight check-in or ledger
// save still owns: temp ledger files and version files without a ledger record
// are only swept once they are this old.
const staleTempAge = 24 * time.Hour

type StorageCleanupService interface {
	CreateCleanupJob(schedule string) error
	StartStorageCleanup() (string, error)
	GetStorageCleanupResult(id string) (interface{}, error)
}

func NewStorageCleanupService(storageService TestCaseStorageService,
	historyRepository repository.VersionHistoryRepository) StorageCleanupService {
	return &storageCleanupServiceImpl{
		storageService:    storageService,
		historyRepository: historyRepository,
		cron:              cron.New(),
		cleanupResults:    map[string]interface{}{},
		cleanupResMutex:   sync.RWMutex{},
	}
}

type storageCleanupServiceImpl struct {
	storageService    TestCaseStorageService
	historyRepository repository.VersionHistoryRepository
	cron              *cron.Cron
	cleanupResults    map[string]interface{}
	cleanupResMutex   sync.RWMutex
}

func (c *storageCleanupServiceImpl) CreateCleanupJob(schedule string) error {
	job := storageCleanupJob{
		storageService:    c.storageService,
		historyRepository: c.historyRepository,
	}

	if len(c.cron.Entries()) == 0 {
		location, err := time.LoadLocation("")
		if err != nil {
			return err
		}
		c.cron = cron.New(cron.WithLocation(location))
		c.cron.Start()
	}

	_, err := c.cron.AddJob(schedule, &job)
	if err != nil {
		log.Warnf("[StorageCleanupService] Job wasn't added for schedule - %s. With error - %s", schedule, err)
		return err
	}
	log.Infof("[StorageCleanupService] Job was created with schedule - %s", schedule)

	return nil
}

func (c *storageCleanupServiceImpl) StartStorageCleanup() (string, error) {
	id := uuid.New().String()

	result := map[string]interface{}{}
	result["status"] = "running"

	c.cleanupResMutex.Lock()
	c.cleanupResults[id] = result
	c.cleanupResMutex.Unlock()

	utils.SafeAsync(func() {
		job := storageCleanupJob{
			storageService:    c.storageService,
			historyRepository: c.historyRepository,
		}
		removedCount, err := job.cleanVersionStore()
		c.cleanupResMutex.Lock()
		if err != nil {
			log.Errorf("Failed to clean up version store: %s", err)
			result["status"] = "error"
			result["error"] = err.Error()
		} else {
			result["status"] = "success"
			result["removedFilesCount"] = removedCount
		}
		c.cleanupResults[id] = result
		c.cleanupResMutex.Unlock()
	})

	return id, nil
}

func (c *storageCleanupServiceImpl) GetStorageCleanupResult(id string) (interface{}, error) {
	c.cleanupResMutex.RLock()
	defer c.cleanupResMutex.RUnlock()
	result, exists := c.cleanupResults[id]
	if !exists {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.CleanupResultNotFound,
			Message: exception.CleanupResultNotFoundMsg,
			Params:  map[string]interface{}{"id": id},
		}
	}
	return result, nil
}

type storageCleanupJob struct {
	storageService    TestCaseStorageService
	historyRepository repository.VersionHistoryRepository
}

func (j *storageCleanupJob) Run() {
	scheduledAt := time.Now().Round(time.Second)
	log.Infof("Version store cleanup has started at %s", scheduledAt)
	removedCount, err := j.cleanVersionStore()
	if err != nil {
		log.Errorf("Version store cleanup failed: %v", err)
		return
	}
	log.Infof("Version store cleanup removed %d files", removedCount)
}

// cleanVersionStore removes leftover temp files from interrupted ledger saves
// and version files that no ledger record references.
func (j *storageCleanupJob) cleanVersionStore() (int, error) {
	removedTemp, err := j.removeStaleTempFiles()
	if err != nil {
		return removedTemp, err
	}
	removedOrphaned, err := j.removeOrphanedVersionFiles()
	return removedTemp + removedOrphaned, err
}

func (j *storageCleanupJob) removeStaleTempFiles() (int, error) {
	root := j.storageService.RootDirectory()
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.Contains(entry.Name(), ".tmp-") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) < staleTempAge {
			continue
		}
		tempPath := filepath.Join(root, entry.Name())
		if err := os.Remove(tempPath); err != nil {
			log.Warnf("Failed to remove stale temp file %s: %v", tempPath, err.Error())
			continue
		}
		log.Debugf("Removed stale temp file %s", tempPath)
		metrics.CleanupRemovedFilesTotal.WithLabelValues("temp").Inc()
		removed++
	}
	return removed, nil
}

func (j *storageCleanupJob) removeOrphanedVersionFiles() (int, error) {
	testCaseIds, err := j.storageService.ListTestCaseIds()
	if err != nil {
		return 0, err
	}

	var removedMutex sync.Mutex
	removed := 0
	var group errgroup.Group
	group.SetLimit(4)
	for _, testCaseId := range testCaseIds {
		testCaseId := testCaseId
		group.Go(func() error {
			count, err := j.removeOrphanedFilesForTestCase(testCaseId)
			if err != nil {
				return err
			}
			removedMutex.Lock()
			removed += count
			removedMutex.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return removed, err
	}
	return removed, nil
}

func (j *storageCleanupJob) removeOrphanedFilesForTestCase(testCaseId string) (int, error) {
	if !j.historyRepository.HistoryExists(testCaseId) {
		// no ledger at all, nothing to compare the files against
		log.Debugf("Skipping cleanup for %s: no version history ledger", testCaseId)
		return 0, nil
	}
	history, err := j.historyRepository.LoadHistory(testCaseId)
	if err != nil {
		return 0, err
	}
	knownVersions := make(map[string]struct{}, len(history.Versions))
	for _, record := range history.Versions {
		knownVersions[record.Version] = struct{}{}
	}

	files, err := j.storageService.ListVersionFiles(testCaseId)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, filePath := range files {
		version := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		if _, known := knownVersions[version]; known {
			continue
		}
		info, err := os.Stat(filePath)
		if err != nil {
			continue
		}
		// a check-in writes the version file before its ledger record lands,
		// so a fresh unreferenced file may be in flight rather than orphaned
		if time.Since(info.ModTime()) < staleTempAge {
			continue
		}
		if err := os.Remove(filePath); err != nil {
			log.Warnf("Failed to remove orphaned version file %s: %v", filePath, err.Error())
			continue
		}
		log.Infof("Removed orphaned version file %s for test case %s", filePath, testCaseId)
		metrics.CleanupRemovedFilesTotal.WithLabelValues("orphaned").Inc()
		removed++
	}
	return removed, nil
}
