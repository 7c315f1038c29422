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
	"time"

	"github.com/testcasehub/testcasehub-backend/testcasehub-service/entity"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/exception"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/repository"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/view"
)

type MetadataService interface {
	GetMetadata(testCaseId string) (*view.TestCaseMetadata, error)
	ListMetadata(owner string, subject string, limit int, page int) (*view.TestCaseMetadataList, error)
	UpdateMetadata(testCaseId string, update view.TestCaseMetadataUpdate, updatedBy string) (*view.TestCaseMetadata, error)
	DeleteMetadata(testCaseId string) error
	SyncFromTable(table view.TestCaseTable, changedBy string) error
}

func NewMetadataService(metadataRepository repository.TestCaseMetadataRepository) MetadataService {
	return &metadataServiceImpl{metadataRepository: metadataRepository}
}

type metadataServiceImpl struct {
	metadataRepository repository.TestCaseMetadataRepository
}

func (m metadataServiceImpl) GetMetadata(testCaseId string) (*view.TestCaseMetadata, error) {
	ent, err := m.metadataRepository.GetMetadata(testCaseId)
	if err != nil {
		return nil, err
	}
	if ent == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.MetadataNotFound,
			Message: exception.MetadataNotFoundMsg,
			Params:  map[string]interface{}{"testCaseId": testCaseId},
		}
	}
	return entity.MakeTestCaseMetadataView(ent), nil
}

func (m metadataServiceImpl) ListMetadata(owner string, subject string, limit int, page int) (*view.TestCaseMetadataList, error) {
	entities, err := m.metadataRepository.ListMetadata(owner, subject, limit, page)
	if err != nil {
		return nil, err
	}
	result := view.TestCaseMetadataList{TestCases: make([]view.TestCaseMetadata, 0, len(entities))}
	for _, ent := range entities {
		result.TestCases = append(result.TestCases, *entity.MakeTestCaseMetadataView(&ent))
	}
	return &result, nil
}

func (m metadataServiceImpl) UpdateMetadata(testCaseId string, update view.TestCaseMetadataUpdate, updatedBy string) (*view.TestCaseMetadata, error) {
	ent, err := m.metadataRepository.GetMetadata(testCaseId)
	if err != nil {
		return nil, err
	}
	if ent == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.MetadataNotFound,
			Message: exception.MetadataNotFoundMsg,
			Params:  map[string]interface{}{"testCaseId": testCaseId},
		}
	}
	if update.Name != nil {
		ent.Name = *update.Name
	}
	if update.Subject != nil {
		ent.Subject = *update.Subject
	}
	if update.Type != nil {
		ent.Type = *update.Type
	}
	if update.Owner != nil {
		ent.Owner = *update.Owner
	}
	if update.OwnerEmail != nil {
		ent.OwnerEmail = *update.OwnerEmail
	}
	if update.Source != nil {
		ent.Source = *update.Source
	}
	if update.Tags != nil {
		ent.Tags = update.Tags
	}
	if update.Description != nil {
		ent.Description = *update.Description
	}
	timeNow := time.Now().UTC()
	ent.UpdatedAt = &timeNow
	ent.UpdatedBy = updatedBy
	if err := m.metadataRepository.UpdateMetadata(ent); err != nil {
		return nil, err
	}
	return entity.MakeTestCaseMetadataView(ent), nil
}

func (m metadataServiceImpl) DeleteMetadata(testCaseId string) error {
	ent, err := m.metadataRepository.GetMetadata(testCaseId)
	if err != nil {
		return err
	}
	if ent == nil {
		return &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.MetadataNotFound,
			Message: exception.MetadataNotFoundMsg,
			Params:  map[string]interface{}{"testCaseId": testCaseId},
		}
	}
	return m.metadataRepository.DeleteMetadata(testCaseId)
}

// SyncFromTable refreshes stored metadata from the descriptive columns of a
// checked-in table. Creates the record on first check-in, touches updated
// fields afterwards.
func (m metadataServiceImpl) SyncFromTable(table view.TestCaseTable, changedBy string) error {
	testCaseId := table.TestCaseId()
	if testCaseId == "" || len(table.Steps) == 0 {
		return nil
	}
	firstStep := table.Steps[0]

	existing, err := m.metadataRepository.GetMetadata(testCaseId)
	if err != nil {
		return err
	}
	if existing == nil {
		return m.metadataRepository.SaveMetadata(&entity.TestCaseMetadataEntity{
			TestCaseId: testCaseId,
			Name:       firstStep.TestCaseName,
			Subject:    firstStep.Subject,
			Type:       firstStep.Type,
			Owner:      firstStep.Owner,
			CreatedAt:  time.Now().UTC(),
			CreatedBy:  changedBy,
		})
	}
	if firstStep.TestCaseName != "" {
		existing.Name = firstStep.TestCaseName
	}
	if firstStep.Subject != "" {
		existing.Subject = firstStep.Subject
	}
	if firstStep.Type != "" {
		existing.Type = firstStep.Type
	}
	if firstStep.Owner != "" {
		existing.Owner = firstStep.Owner
	}
	timeNow := time.Now().UTC()
	existing.UpdatedAt = &timeNow
	existing.UpdatedBy = changedBy
	return m.metadataRepository.UpdateMetadata(existing)
}
