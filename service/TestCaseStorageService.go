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
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"github.com/pkg/errors"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/exception"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/view"
)

// TestCaseStorageService owns the on-disk version store layout:
// {root}/{testCaseId}/{version}.xlsx per version plus
// {root}/{testCaseId}_version_history.json per ledger.
type TestCaseStorageService interface {
	TestCaseDirectory(testCaseId string) (string, error)
	SaveVersionFile(testCaseId string, version string, table view.TestCaseTable) (string, error)
	LoadVersionFile(testCaseId string, version string) (*view.TestCaseTable, error)
	VersionFilePath(testCaseId string, version string) string
	HistoryFilePath(testCaseId string) string
	ListVersionFiles(testCaseId string) ([]string, error)
	ListTestCaseIds() ([]string, error)
	RootDirectory() string
}

func NewTestCaseStorageService(rootDirectory string, excelService ExcelService) TestCaseStorageService {
	return &testCaseStorageServiceImpl{
		rootDirectory: rootDirectory,
		excelService:  excelService,
	}
}

type testCaseStorageServiceImpl struct {
	rootDirectory string
	excelService  ExcelService
}

func (s testCaseStorageServiceImpl) RootDirectory() string {
	return s.rootDirectory
}

func (s testCaseStorageServiceImpl) TestCaseDirectory(testCaseId string) (string, error) {
	directory := filepath.Join(s.rootDirectory, slug.Make(testCaseId))
	if err := os.MkdirAll(directory, 0755); err != nil {
		return "", errors.Wrapf(err, "failed to create version store directory for test case %s", testCaseId)
	}
	return directory, nil
}

func (s testCaseStorageServiceImpl) VersionFilePath(testCaseId string, version string) string {
	return filepath.Join(s.rootDirectory, slug.Make(testCaseId), fmt.Sprintf("%s.xlsx", version))
}

func (s testCaseStorageServiceImpl) HistoryFilePath(testCaseId string) string {
	return filepath.Join(s.rootDirectory, fmt.Sprintf("%s_version_history.json", slug.Make(testCaseId)))
}

func (s testCaseStorageServiceImpl) SaveVersionFile(testCaseId string, version string, table view.TestCaseTable) (string, error) {
	if _, err := s.TestCaseDirectory(testCaseId); err != nil {
		return "", err
	}
	filePath := s.VersionFilePath(testCaseId, version)
	if err := s.excelService.WriteTestCaseTable(table, filePath); err != nil {
		return "", errors.Wrapf(err, "failed to write version %s of test case %s", version, testCaseId)
	}
	return filePath, nil
}

func (s testCaseStorageServiceImpl) LoadVersionFile(testCaseId string, version string) (*view.TestCaseTable, error) {
	filePath := s.VersionFilePath(testCaseId, version)
	if _, err := os.Stat(filePath); err != nil {
		if os.IsNotExist(err) {
			return nil, &exception.CustomError{
				Status:  http.StatusNotFound,
				Code:    exception.VersionFileNotFound,
				Message: exception.VersionFileNotFoundMsg,
				Params:  map[string]interface{}{"testCaseId": testCaseId, "version": version},
			}
		}
		return nil, errors.Wrapf(err, "failed to stat version file %s", filePath)
	}
	table, err := s.excelService.ReadTestCaseTable(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read version %s of test case %s", version, testCaseId)
	}
	return table, nil
}

func (s testCaseStorageServiceImpl) ListVersionFiles(testCaseId string) ([]string, error) {
	directory := filepath.Join(s.rootDirectory, slug.Make(testCaseId))
	entries, err := os.ReadDir(directory)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".xlsx") || strings.HasSuffix(entry.Name(), ".xls") {
			files = append(files, filepath.Join(directory, entry.Name()))
		}
	}
	return files, nil
}

func (s testCaseStorageServiceImpl) ListTestCaseIds() ([]string, error) {
	entries, err := os.ReadDir(s.rootDirectory)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			ids = append(ids, entry.Name())
		}
	}
	return ids, nil
}
