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

package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gosimple/slug"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/view"
)

// VersionHistoryRepository persists one JSON ledger file per test case under
// the version store root. A missing or unparsable ledger reads back as a fresh
// empty history; only genuine I/O failures surface as errors.
type VersionHistoryRepository interface {
	LoadHistory(testCaseId string) (*view.VersionHistory, error)
	SaveHistory(testCaseId string, history *view.VersionHistory) error
	HistoryExists(testCaseId string) bool
	HistoryFilePath(testCaseId string) string
}

func NewVersionHistoryRepository(rootDirectory string) VersionHistoryRepository {
	return &versionHistoryRepositoryImpl{rootDirectory: rootDirectory}
}

type versionHistoryRepositoryImpl struct {
	rootDirectory string
}

func (r versionHistoryRepositoryImpl) HistoryFilePath(testCaseId string) string {
	return filepath.Join(r.rootDirectory, fmt.Sprintf("%s_version_history.json", slug.Make(testCaseId)))
}

func (r versionHistoryRepositoryImpl) HistoryExists(testCaseId string) bool {
	_, err := os.Stat(r.HistoryFilePath(testCaseId))
	return err == nil
}

func (r versionHistoryRepositoryImpl) LoadHistory(testCaseId string) (*view.VersionHistory, error) {
	filePath := r.HistoryFilePath(testCaseId)
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return newVersionHistory(testCaseId), nil
		}
		return nil, errors.Wrapf(err, "failed to read version history file %s", filePath)
	}
	var history view.VersionHistory
	if err := json.Unmarshal(data, &history); err != nil {
		log.Warnf("Version history file %s is corrupted, starting a fresh history: %v", filePath, err.Error())
		return newVersionHistory(testCaseId), nil
	}
	if history.TestCaseId == "" {
		history.TestCaseId = testCaseId
	}
	return &history, nil
}

// SaveHistory writes the ledger through a temp file in the same directory and
// renames it over the old one, so a crash mid-write never leaves a truncated
// ledger behind.
func (r versionHistoryRepositoryImpl) SaveHistory(testCaseId string, history *view.VersionHistory) error {
	filePath := r.HistoryFilePath(testCaseId)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return errors.Wrapf(err, "failed to create version store root for test case %s", testCaseId)
	}
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "failed to serialize version history for test case %s", testCaseId)
	}
	tempFile, err := os.CreateTemp(filepath.Dir(filePath), filepath.Base(filePath)+".tmp-")
	if err != nil {
		return errors.Wrapf(err, "failed to create temp ledger file for test case %s", testCaseId)
	}
	tempPath := tempFile.Name()
	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return errors.Wrapf(err, "failed to write temp ledger file for test case %s", testCaseId)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Wrapf(err, "failed to close temp ledger file for test case %s", testCaseId)
	}
	if err := os.Rename(tempPath, filePath); err != nil {
		os.Remove(tempPath)
		return errors.Wrapf(err, "failed to replace version history file %s", filePath)
	}
	return nil
}

func newVersionHistory(testCaseId string) *view.VersionHistory {
	return &view.VersionHistory{
		TestCaseId: testCaseId,
		CreatedAt:  time.Now().UTC(),
		Versions:   []view.VersionRecord{},
	}
}
