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

import "sort"

const (
	ColumnStepNo              = "STEP NO"
	ColumnTestStepDescription = "TEST STEP DESCRIPTION"
	ColumnExpectedResult      = "EXPECTED RESULT"
	ColumnData                = "DATA"
	ColumnValues              = "VALUES"
	ColumnReferenceValues     = "REFERENCE VALUES"
	ColumnTransCode           = "TRANS CODE"
	ColumnTestUserRole        = "TEST USER ID/ROLE"
	ColumnStatus              = "STATUS"
	ColumnTestCaseNumber      = "TEST CASE NUMBER"
	ColumnTestCase            = "TEST CASE"
	ColumnSubject             = "SUBJECT"
	ColumnType                = "TYPE"
	ColumnOwner               = "OWNER"
)

// KnownColumns lists the fixed column set in the order it is written to exported
// spreadsheets when the source table carries no column order of its own.
var KnownColumns = []string{
	ColumnTestCaseNumber,
	ColumnTestCase,
	ColumnSubject,
	ColumnType,
	ColumnStepNo,
	ColumnTestStepDescription,
	ColumnExpectedResult,
	ColumnData,
	ColumnValues,
	ColumnReferenceValues,
	ColumnTransCode,
	ColumnTestUserRole,
	ColumnStatus,
	ColumnOwner,
}

// TestCaseStep is one test step of a test case table. The fixed columns are
// typed fields, anything else lands in Extra keyed by the original column name.
type TestCaseStep struct {
	StepNo          string            `json:"stepNo"`
	Description     string            `json:"description"`
	ExpectedResult  string            `json:"expectedResult"`
	Data            string            `json:"data"`
	Values          string            `json:"values"`
	ReferenceValues string            `json:"referenceValues"`
	TransCode       string            `json:"transCode"`
	TestUserRole    string            `json:"testUserRole"`
	Status          string            `json:"status"`
	TestCaseNumber  string            `json:"testCaseNumber"`
	TestCaseName    string            `json:"testCaseName"`
	Subject         string            `json:"subject"`
	Type            string            `json:"type"`
	Owner           string            `json:"owner"`
	Extra           map[string]string `json:"extra,omitempty"`
}

// Field returns the value stored under a column name, checking the typed fields
// first and Extra second.
func (s TestCaseStep) Field(column string) (string, bool) {
	switch column {
	case ColumnStepNo:
		return s.StepNo, true
	case ColumnTestStepDescription:
		return s.Description, true
	case ColumnExpectedResult:
		return s.ExpectedResult, true
	case ColumnData:
		return s.Data, true
	case ColumnValues:
		return s.Values, true
	case ColumnReferenceValues:
		return s.ReferenceValues, true
	case ColumnTransCode:
		return s.TransCode, true
	case ColumnTestUserRole:
		return s.TestUserRole, true
	case ColumnStatus:
		return s.Status, true
	case ColumnTestCaseNumber:
		return s.TestCaseNumber, true
	case ColumnTestCase:
		return s.TestCaseName, true
	case ColumnSubject:
		return s.Subject, true
	case ColumnType:
		return s.Type, true
	case ColumnOwner:
		return s.Owner, true
	}
	value, ok := s.Extra[column]
	return value, ok
}

func (s *TestCaseStep) SetField(column string, value string) {
	switch column {
	case ColumnStepNo:
		s.StepNo = value
	case ColumnTestStepDescription:
		s.Description = value
	case ColumnExpectedResult:
		s.ExpectedResult = value
	case ColumnData:
		s.Data = value
	case ColumnValues:
		s.Values = value
	case ColumnReferenceValues:
		s.ReferenceValues = value
	case ColumnTransCode:
		s.TransCode = value
	case ColumnTestUserRole:
		s.TestUserRole = value
	case ColumnStatus:
		s.Status = value
	case ColumnTestCaseNumber:
		s.TestCaseNumber = value
	case ColumnTestCase:
		s.TestCaseName = value
	case ColumnSubject:
		s.Subject = value
	case ColumnType:
		s.Type = value
	case ColumnOwner:
		s.Owner = value
	default:
		if s.Extra == nil {
			s.Extra = map[string]string{}
		}
		s.Extra[column] = value
	}
}

// Fields returns every non-empty column of the step, typed fields and Extra
// alike, keyed by column name.
func (s TestCaseStep) Fields() map[string]string {
	fields := make(map[string]string)
	for _, column := range KnownColumns {
		if value, _ := s.Field(column); value != "" {
			fields[column] = value
		}
	}
	for column, value := range s.Extra {
		if value != "" {
			fields[column] = value
		}
	}
	return fields
}

// TestCaseTable is the tabular representation of one test case. Columns keeps
// the column order the table arrived with so round-trips preserve layout.
type TestCaseTable struct {
	Columns []string       `json:"columns,omitempty"`
	Steps   []TestCaseStep `json:"steps"`
}

// TestCaseId returns the test case identifier taken from the first step, or ""
// when the table is empty or the first step has no TEST CASE NUMBER.
func (t TestCaseTable) TestCaseId() string {
	if len(t.Steps) == 0 {
		return ""
	}
	return t.Steps[0].TestCaseNumber
}

// TableOwner returns the owner recorded on the first step that has one.
func (t TestCaseTable) TableOwner() string {
	for _, step := range t.Steps {
		if step.Owner != "" {
			return step.Owner
		}
	}
	return ""
}

// ColumnSet returns the union of populated columns across all steps. Input
// column order wins where present, remaining columns follow in KnownColumns
// order, extras last.
func (t TestCaseTable) ColumnSet() []string {
	present := make(map[string]bool)
	for _, step := range t.Steps {
		for column := range step.Fields() {
			present[column] = true
		}
	}
	result := make([]string, 0, len(present))
	appendColumn := func(column string) {
		if present[column] {
			result = append(result, column)
			delete(present, column)
		}
	}
	for _, column := range t.Columns {
		appendColumn(column)
	}
	for _, column := range KnownColumns {
		appendColumn(column)
	}
	if len(present) > 0 {
		rest := make([]string, 0, len(present))
		for column := range present {
			rest = append(rest, column)
		}
		sort.Strings(rest)
		result = append(result, rest...)
	}
	return result
}
