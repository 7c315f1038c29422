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

// TestCaseMetadata is the descriptive record kept for a test case next to its
// version history: who owns it, where it came from, how to file it.
type TestCaseMetadata struct {
	TestCaseId  string     `json:"testCaseId"`
	Name        string     `json:"name"`
	Subject     string     `json:"subject,omitempty"`
	Type        string     `json:"type,omitempty"`
	Owner       string     `json:"owner,omitempty"`
	OwnerEmail  string     `json:"ownerEmail,omitempty"`
	Source      string     `json:"source,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CreatedBy   string     `json:"createdBy,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	UpdatedBy   string     `json:"updatedBy,omitempty"`
	Description string     `json:"description,omitempty"`
}

type TestCaseMetadataUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Subject     *string  `json:"subject,omitempty"`
	Type        *string  `json:"type,omitempty"`
	Owner       *string  `json:"owner,omitempty"`
	OwnerEmail  *string  `json:"ownerEmail,omitempty"`
	Source      *string  `json:"source,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Description *string  `json:"description,omitempty"`
}

type TestCaseMetadataList struct {
	TestCases []TestCaseMetadata `json:"testCases"`
}
