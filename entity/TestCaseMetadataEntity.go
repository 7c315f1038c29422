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

package entity

import (
	"time"

	"github.com/testcasehub/testcasehub-backend/testcasehub-service/view"
)

type TestCaseMetadataEntity struct {
	tableName struct{} `pg:"test_case_metadata"`

	TestCaseId  string     `pg:"test_case_id, pk, type:varchar"`
	Name        string     `pg:"name, type:varchar"`
	Subject     string     `pg:"subject, type:varchar"`
	Type        string     `pg:"type, type:varchar"`
	Owner       string     `pg:"owner, type:varchar"`
	OwnerEmail  string     `pg:"owner_email, type:varchar"`
	Source      string     `pg:"source, type:varchar"`
	Tags        []string   `pg:"tags, type:varchar array, array"`
	CreatedAt   time.Time  `pg:"created_at, type:timestamp without time zone"`
	CreatedBy   string     `pg:"created_by, type:varchar"`
	UpdatedAt   *time.Time `pg:"updated_at, type:timestamp without time zone"`
	UpdatedBy   string     `pg:"updated_by, type:varchar"`
	Description string     `pg:"description, type:varchar"`
}

func MakeTestCaseMetadataView(ent *TestCaseMetadataEntity) *view.TestCaseMetadata {
	return &view.TestCaseMetadata{
		TestCaseId:  ent.TestCaseId,
		Name:        ent.Name,
		Subject:     ent.Subject,
		Type:        ent.Type,
		Owner:       ent.Owner,
		OwnerEmail:  ent.OwnerEmail,
		Source:      ent.Source,
		Tags:        ent.Tags,
		CreatedAt:   ent.CreatedAt,
		CreatedBy:   ent.CreatedBy,
		UpdatedAt:   ent.UpdatedAt,
		UpdatedBy:   ent.UpdatedBy,
		Description: ent.Description,
	}
}

func MakeTestCaseMetadataEntity(metadata *view.TestCaseMetadata) *TestCaseMetadataEntity {
	return &TestCaseMetadataEntity{
		TestCaseId:  metadata.TestCaseId,
		Name:        metadata.Name,
		Subject:     metadata.Subject,
		Type:        metadata.Type,
		Owner:       metadata.Owner,
		OwnerEmail:  metadata.OwnerEmail,
		Source:      metadata.Source,
		Tags:        metadata.Tags,
		CreatedAt:   metadata.CreatedAt,
		CreatedBy:   metadata.CreatedBy,
		UpdatedAt:   metadata.UpdatedAt,
		UpdatedBy:   metadata.UpdatedBy,
		Description: metadata.Description,
	}
}
