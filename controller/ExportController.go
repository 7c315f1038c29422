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
	"fmt"
	"net/http"

	"github.com/gosimple/slug"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/exception"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/service"
)

type ExportController interface {
	ExportVersion(w http.ResponseWriter, r *http.Request)
}

func NewExportController(versionControlService service.VersionControlService,
	excelService service.ExcelService) ExportController {
	return &exportControllerImpl{
		versionControlService: versionControlService,
		excelService:          excelService,
	}
}

type exportControllerImpl struct {
	versionControlService service.VersionControlService
	excelService          service.ExcelService
}

func (c exportControllerImpl) ExportVersion(w http.ResponseWriter, r *http.Request) {
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
		RespondWithError(w, "Failed to export test case version", err)
		return
	}
	workbook, err := c.excelService.BuildTestCaseWorkbook(*table)
	if err != nil {
		RespondWithError(w, "Failed to build test case workbook", err)
		return
	}
	defer workbook.Close()

	filename := fmt.Sprintf("%s_%s.xlsx", slug.Make(testCaseId), versionLabel(version))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%v", filename))
	w.WriteHeader(http.StatusOK)
	if err := workbook.Write(w); err != nil {
		RespondWithError(w, "Failed to write exported workbook", err)
		return
	}
}

func versionLabel(version string) string {
	if version == "" {
		return "latest"
	}
	return version
}
