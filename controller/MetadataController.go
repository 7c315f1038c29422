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

	"github.com/testcasehub/testcasehub-backend/testcasehub-service/exception"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/service"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/view"
)

type MetadataController interface {
	GetMetadata(w http.ResponseWriter, r *http.Request)
	ListMetadata(w http.ResponseWriter, r *http.Request)
	UpdateMetadata(w http.ResponseWriter, r *http.Request)
	DeleteMetadata(w http.ResponseWriter, r *http.Request)
}

func NewMetadataController(metadataService service.MetadataService) MetadataController {
	return &metadataControllerImpl{metadataService: metadataService}
}

type metadataControllerImpl struct {
	metadataService service.MetadataService
}

func (c metadataControllerImpl) GetMetadata(w http.ResponseWriter, r *http.Request) {
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
	metadata, err := c.metadataService.GetMetadata(testCaseId)
	if err != nil {
		RespondWithError(w, "Failed to get test case metadata", err)
		return
	}
	RespondWithJson(w, http.StatusOK, metadata)
}

func (c metadataControllerImpl) ListMetadata(w http.ResponseWriter, r *http.Request) {
	limit, customError := getLimitQueryParam(r)
	if customError != nil {
		RespondWithCustomError(w, customError)
		return
	}
	page, customError := getPageQueryParam(r)
	if customError != nil {
		RespondWithCustomError(w, customError)
		return
	}
	owner := r.URL.Query().Get("owner")
	subject := r.URL.Query().Get("subject")

	metadataList, err := c.metadataService.ListMetadata(owner, subject, limit, page)
	if err != nil {
		RespondWithError(w, "Failed to list test case metadata", err)
		return
	}
	RespondWithJson(w, http.StatusOK, metadataList)
}

func (c metadataControllerImpl) UpdateMetadata(w http.ResponseWriter, r *http.Request) {
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
	body, err := io.ReadAll(r.Body)
	if err != nil {
		RespondWithError(w, "Failed to read metadata update request", err)
		return
	}
	var update view.TestCaseMetadataUpdate
	if err := json.Unmarshal(body, &update); err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		})
		return
	}
	updatedBy := r.Header.Get("X-Changed-By")
	metadata, err := c.metadataService.UpdateMetadata(testCaseId, update, updatedBy)
	if err != nil {
		RespondWithError(w, "Failed to update test case metadata", err)
		return
	}
	RespondWithJson(w, http.StatusOK, metadata)
}

func (c metadataControllerImpl) DeleteMetadata(w http.ResponseWriter, r *http.Request) {
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
	if err := c.metadataService.DeleteMetadata(testCaseId); err != nil {
		RespondWithError(w, "Failed to delete test case metadata", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
