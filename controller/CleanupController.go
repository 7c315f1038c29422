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
	"net/http"

	"github.com/testcasehub/testcasehub-backend/testcasehub-service/service"
)

type CleanupController interface {
	StartStorageCleanup(w http.ResponseWriter, r *http.Request)
	GetStorageCleanupResult(w http.ResponseWriter, r *http.Request)
}

func NewCleanupController(storageCleanupService service.StorageCleanupService) CleanupController {
	return &cleanupControllerImpl{storageCleanupService: storageCleanupService}
}

type cleanupControllerImpl struct {
	storageCleanupService service.StorageCleanupService
}

func (c cleanupControllerImpl) StartStorageCleanup(w http.ResponseWriter, r *http.Request) {
	id, err := c.storageCleanupService.StartStorageCleanup()
	if err != nil {
		RespondWithError(w, "Failed to start version store cleanup", err)
		return
	}

	result := map[string]interface{}{}
	result["id"] = id

	RespondWithJson(w, http.StatusAccepted, result)
}

func (c cleanupControllerImpl) GetStorageCleanupResult(w http.ResponseWriter, r *http.Request) {
	id := getStringParam(r, "id")

	result, err := c.storageCleanupService.GetStorageCleanupResult(id)
	if err != nil {
		RespondWithError(w, "Failed to get version store cleanup result", err)
		return
	}

	RespondWithJson(w, http.StatusOK, result)
}
