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
	"github.com/go-pg/pg/v10"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/db"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/entity"
)

func NewTestCaseMetadataRepositoryPG(cp db.ConnectionProvider) (TestCaseMetadataRepository, error) {
	return &testCaseMetadataRepositoryImpl{cp: cp}, nil
}

type testCaseMetadataRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (r testCaseMetadataRepositoryImpl) SaveMetadata(ent *entity.TestCaseMetadataEntity) error {
	_, err := r.cp.GetConnection().Model(ent).
		OnConflict("(test_case_id) DO UPDATE").
		Insert()
	return err
}

func (r testCaseMetadataRepositoryImpl) UpdateMetadata(ent *entity.TestCaseMetadataEntity) error {
	_, err := r.cp.GetConnection().Model(ent).
		Where("test_case_id = ?", ent.TestCaseId).
		Update()
	return err
}

func (r testCaseMetadataRepositoryImpl) GetMetadata(testCaseId string) (*entity.TestCaseMetadataEntity, error) {
	ent := new(entity.TestCaseMetadataEntity)
	err := r.cp.GetConnection().Model(ent).
		Where("test_case_id = ?", testCaseId).
		First()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return ent, nil
}

func (r testCaseMetadataRepositoryImpl) ListMetadata(owner string, subject string, limit int, page int) ([]entity.TestCaseMetadataEntity, error) {
	var result []entity.TestCaseMetadataEntity
	query := r.cp.GetConnection().Model(&result).
		Order("test_case_id ASC").
		Limit(limit).
		Offset(limit * page)
	if owner != "" {
		query.Where("owner = ?", owner)
	}
	if subject != "" {
		query.Where("subject = ?", subject)
	}
	err := query.Select()
	if err != nil {
		if err != pg.ErrNoRows {
			return nil, err
		}
	}
	return result, nil
}

func (r testCaseMetadataRepositoryImpl) DeleteMetadata(testCaseId string) error {
	_, err := r.cp.GetConnection().Model(&entity.TestCaseMetadataEntity{TestCaseId: testCaseId}).
		Where("test_case_id = ?", testCaseId).
		Delete()
	return err
}
