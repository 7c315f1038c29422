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

package view

import "time"

type VersionStatus string

const StatusActive VersionStatus = "Active"
const StatusUnderMaintenance VersionStatus = "Under Maintenance"

// VersionRecord describes one accepted check-in. Records are immutable after
// creation except the two external upload fields, which the first successful
// document storage upload sets once.
type VersionRecord struct {
	Version            string    `json:"version"`
	Timestamp          time.Time `json:"timestamp"`
	ContentHash        string    `json:"contentHash"`
	ChangedBy          string    `json:"changedBy"`
	Comment            string    `json:"comment"`
	FileName           string    `json:"fileName"`
	Owner              string    `json:"owner,omitempty"`
	ExternalUploadUrl  string    `json:"externalUploadUrl,omitempty"`
	ExternalUploadPath string    `json:"externalUploadPath,omitempty"`
}

// VersionHistory is the ledger for one test case. Versions is append-only and
// kept in check-in order.
type VersionHistory struct {
	TestCaseId         string          `json:"testCaseId"`
	CreatedAt          time.Time       `json:"createdAt"`
	CurrentVersion     string          `json:"currentVersion,omitempty"`
	Status             VersionStatus   `json:"status,omitempty"`
	MaintenanceStarted *time.Time      `json:"maintenanceStarted,omitempty"`
	MaintenanceEnded   *time.Time      `json:"maintenanceEnded,omitempty"`
	Versions           []VersionRecord `json:"versions"`
}

// RecordFor returns a pointer into Versions for the given version id, nil when
// the id is not recorded.
func (h *VersionHistory) RecordFor(version string) *VersionRecord {
	for i := range h.Versions {
		if h.Versions[i].Version == version {
			return &h.Versions[i]
		}
	}
	return nil
}

func (h *VersionHistory) LatestRecord() *VersionRecord {
	if len(h.Versions) == 0 {
		return nil
	}
	return &h.Versions[len(h.Versions)-1]
}

type CheckInResult struct {
	TestCaseId   string    `json:"testCaseId"`
	Version      string    `json:"version"`
	IsNewVersion bool      `json:"isNewVersion"`
	Timestamp    time.Time `json:"timestamp"`
	FilePath     string    `json:"filePath,omitempty"`
}

// CheckInOptions carries the optional check-in attributes. Owner notification
// is on by default; SkipNotification opts out.
type CheckInOptions struct {
	Comment          string
	ChangedBy        string
	SkipNotification bool
}

// CheckInRequest is the JSON body variant of a check-in, used instead of a
// multipart spreadsheet upload.
type CheckInRequest struct {
	Table            TestCaseTable `json:"table" validate:"required"`
	Comment          string        `json:"comment"`
	ChangedBy        string        `json:"changedBy"`
	SkipNotification bool          `json:"skipNotification"`
}

type UploadResult struct {
	Url  string `json:"url"`
	Path string `json:"path"`
}
