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

package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/exception"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/service"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/utils"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/view"
)

type VersionController interface {
	CreateVersion(w http.ResponseWriter, r *http.Request)
	GetVersionHistory(w http.ResponseWriter, r *http.Request)
	GetVersionContent(w http.ResponseWriter, r *http.Request)
	CompareVersions(w http.ResponseWriter, r *http.Request)
	UploadVersion(w http.ResponseWriter, r *http.Request)
	StartMaintenance(w http.ResponseWriter, r *http.Request)
	FinishMaintenance(w http.ResponseWriter, r *http.Request)
}

func NewVersionController(versionControlService service.VersionControlService,
	excelService service.ExcelService,
	metadataService service.MetadataService) VersionController {
	return &versionControllerImpl{
		versionControlService: versionControlService,
		excelService:          excelService,
		metadataService:       metadataService,
	}
}

type versionControllerImpl struct {
	versionControlService service.VersionControlService
	excelService          service.ExcelService
	metadataService       service.MetadataService
}

func (c versionControllerImpl) CreateVersion(w http.ResponseWriter, r *http.Request) {
	var table *view.TestCaseTable
	var options view.CheckInOptions

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		parsedTable, parsedOptions, err := c.readMultipartCheckIn(r)
		if err != nil {
			RespondWithError(w, "Failed to read check-in request", err)
			return
		}
		table = parsedTable
		options = parsedOptions
	} else {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			RespondWithError(w, "Failed to read check-in request", err)
			return
		}
		var request view.CheckInRequest
		if err := json.Unmarshal(body, &request); err != nil {
			RespondWithCustomError(w, &exception.CustomError{
				Status:  http.StatusBadRequest,
				Code:    exception.BadRequestBody,
				Message: exception.BadRequestBodyMsg,
				Debug:   err.Error(),
			})
			return
		}
		if err := utils.ValidateObject(request); err != nil {
			RespondWithError(w, "Failed to validate check-in request", err)
			return
		}
		table = &request.Table
		options = view.CheckInOptions{
			Comment:          request.Comment,
			ChangedBy:        request.ChangedBy,
			SkipNotification: request.SkipNotification,
		}
	}

	result, err := c.versionControlService.CreateNewVersion(*table, options)
	if err != nil {
		RespondWithError(w, "Failed to create new version", err)
		return
	}
	if c.metadataService != nil {
		if err := c.metadataService.SyncFromTable(*table, options.ChangedBy); err != nil {
			log.Warnf("Failed to sync metadata for test case %s: %v", result.TestCaseId, err.Error())
		}
	}

	status := http.StatusOK
	if result.IsNewVersion {
		status = http.StatusCreated
	}
	RespondWithJson(w, status, result)
}

func (c versionControllerImpl) readMultipartCheckIn(r *http.Request) (*view.TestCaseTable, view.CheckInOptions, error) {
	var options view.CheckInOptions
	if err := r.ParseMultipartForm(0); err != nil {
		return nil, options, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		}
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Debugf("failed to remove temporal data: %+v", err)
		}
	}()
	options.Comment = r.FormValue("comment")
	options.ChangedBy = r.FormValue("changedBy")
	options.SkipNotification, _ = strconv.ParseBool(r.FormValue("skipNotification"))

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		return nil, options, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.IncorrectMultipartFile,
			Message: exception.IncorrectMultipartFileMsg,
			Debug:   err.Error(),
		}
	}
	defer file.Close()

	tempPath := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(fileHeader.Filename))
	tempFile, err := os.Create(tempPath)
	if err != nil {
		return nil, options, err
	}
	defer func() {
		if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
			log.Debugf("failed to remove temporal file %s: %+v", tempPath, err)
		}
	}()
	if _, err := io.Copy(tempFile, file); err != nil {
		tempFile.Close()
		return nil, options, err
	}
	if err := tempFile.Close(); err != nil {
		return nil, options, err
	}

	table, err := c.excelService.ReadTestCaseTable(tempPath)
	if err != nil {
		return nil, options, err
	}
	return table, options, nil
}

func (c versionControllerImpl) GetVersionHistory(w http.ResponseWriter, r *http.Request) {
	testCaseId, err := getUnescapedStringParam(r, "testCaseId")
	if err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidURLEscape,
			Message: exception.InvalidURLEscapeMsg,
			Params:  map[string]interface{}{"param": "testCaseId"},
			Debug:   err.Error(),
		})
		return
	}
	history, err := c.versionControlService.GetVersionHistory(testCaseId)
	if err != nil {
		RespondWithError(w, "Failed to get version history", err)
		return
	}
	RespondWithJson(w, http.StatusOK, history)
}

func (c versionControllerImpl) GetVersionContent(w http.ResponseWriter, r *http.Request) {
	testCaseId, err := getUnescapedStringParam(r, "testCaseId")
	if err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidURLEscape,
			Message: exception.InvalidURLEscapeMsg,
			Params:  map[string]interface{}{"param": "testCaseId"},
			Debug:   err.Error(),
		})
		return
	}
	version := getStringParam(r, "version")
	if version == "latest" {
		version = ""
	}
	table, err := c.versionControlService.GetTestCaseVersion(testCaseId, version)
	if err != nil {
		RespondWithError(w, "Failed to get test case version", err)
		return
	}
	RespondWithJson(w, http.StatusOK, table)
}

func (c versionControllerImpl) CompareVersions(w http.ResponseWriter, r *http.Request) {
	testCaseId, err := getUnescapedStringParam(r, "testCaseId")
	if err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidURLEscape,
			Message: exception.InvalidURLEscapeMsg,
			Params:  map[string]interface{}{"param": "testCaseId"},
			Debug:   err.Error(),
		})
		return
	}
	previousVersion := r.URL.Query().Get("previousVersion")
	version := r.URL.Query().Get("version")
	if previousVersion == "" {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.RequiredParamsMissing,
			Message: exception.RequiredParamsMissingMsg,
			Params:  map[string]interface{}{"params": "previousVersion"},
		})
		return
	}
	comparison, err := c.versionControlService.CompareVersions(testCaseId, previousVersion, version)
	if err != nil {
		RespondWithError(w, "Failed to compare versions", err)
		return
	}
	RespondWithJson(w, http.StatusOK, comparison)
}

func (c versionControllerImpl) UploadVersion(w http.ResponseWriter, r *http.Request) {
	testCaseId, err := getUnescapedStringParam(r, "testCaseId")
	if err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidURLEscape,
			Message: exception.InvalidURLEscapeMsg,
			Params:  map[string]interface{}{"param": "testCaseId"},
			Debug:   err.Error(),
		})
		return
	}
	version := getStringParam(r, "version")
	if version == "latest" {
		version = ""
	}
	folder := r.URL.Query().Get("folder")
	result, err := c.versionControlService.UploadVersionToDocumentStorage(r.Context(), testCaseId, version, folder)
	if err != nil {
		RespondWithError(w, "Failed to upload version to document storage", err)
		return
	}
	RespondWithJson(w, http.StatusOK, result)
}

func (c versionControllerImpl) StartMaintenance(w http.ResponseWriter, r *http.Request) {
	testCaseId, err := getUnescapedStringParam(r, "testCaseId")
	if err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidURLEscape,
			Message: exception.InvalidURLEscapeMsg,
			Params:  map[string]interface{}{"param": "testCaseId"},
			Debug:   err.Error(),
		})
		return
	}
	history, err := c.versionControlService.MarkUnderMaintenance(testCaseId)
	if err != nil {
		RespondWithError(w, "Failed to mark test case as under maintenance", err)
		return
	}
	RespondWithJson(w, http.StatusOK, history)
}

func (c versionControllerImpl) FinishMaintenance(w http.ResponseWriter, r *http.Request) {
	testCaseId, err := getUnescapedStringParam(r, "testCaseId")
	if err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidURLEscape,
			Message: exception.InvalidURLEscapeMsg,
			Params:  map[string]interface{}{"param": "testCaseId"},
			Debug:   err.Error(),
		})
		return
	}
	history, err := c.versionControlService.MarkAsActive(testCaseId)
	if err != nil {
		RespondWithError(w, "Failed to mark test case as active", err)
		return
	}
	RespondWithJson(w, http.StatusOK, history)
}
