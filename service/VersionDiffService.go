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
	"sort"
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	log "github.com/sirupsen/logrus"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/view"
)

type VersionDiffService interface {
	CompareTables(previous view.TestCaseTable, current view.TestCaseTable) view.DiffResult
}

func NewVersionDiffService() VersionDiffService {
	return &versionDiffServiceImpl{}
}

type versionDiffServiceImpl struct {
}

// CompareTables indexes both tables by STEP NO and reports steps only in the
// previous table as removed, steps only in the current one as added and steps
// in both with at least one differing field as modified. Step numbers are
// expected to be unique within a table; when they are not, the later row wins.
func (d versionDiffServiceImpl) CompareTables(previous view.TestCaseTable, current view.TestCaseTable) view.DiffResult {
	previousSteps := indexByStepNo(previous)
	currentSteps := indexByStepNo(current)

	result := view.DiffResult{
		AddedSteps:    []view.StepDiff{},
		RemovedSteps:  []view.StepDiff{},
		ModifiedSteps: []view.ModifiedStep{},
	}

	for _, stepNo := range sortedStepNos(previousSteps, currentSteps) {
		previousStep, inPrevious := previousSteps[stepNo]
		currentStep, inCurrent := currentSteps[stepNo]
		switch {
		case inPrevious && !inCurrent:
			result.RemovedSteps = append(result.RemovedSteps, view.StepDiff{StepNo: stepNo, Details: previousStep.Fields()})
			result.Summary.Removed++
		case !inPrevious && inCurrent:
			result.AddedSteps = append(result.AddedSteps, view.StepDiff{StepNo: stepNo, Details: currentStep.Fields()})
			result.Summary.Added++
		default:
			differences := compareSteps(previousStep, currentStep)
			if len(differences) > 0 {
				result.ModifiedSteps = append(result.ModifiedSteps, view.ModifiedStep{StepNo: stepNo, Differences: differences})
				result.Summary.Modified++
			} else {
				result.Summary.Unchanged++
			}
		}
	}
	return result
}

func indexByStepNo(table view.TestCaseTable) map[string]view.TestCaseStep {
	steps := make(map[string]view.TestCaseStep, len(table.Steps))
	for _, step := range table.Steps {
		if _, exists := steps[step.StepNo]; exists {
			log.Warnf("Duplicate step number %s in test case %s, keeping the later row", step.StepNo, table.TestCaseId())
		}
		steps[step.StepNo] = step
	}
	return steps
}

// sortedStepNos orders the union of step numbers numerically when every step
// number parses as an integer, lexicographically otherwise.
func sortedStepNos(previous map[string]view.TestCaseStep, current map[string]view.TestCaseStep) []string {
	seen := make(map[string]bool, len(previous)+len(current))
	stepNos := make([]string, 0, len(previous)+len(current))
	for stepNo := range previous {
		if !seen[stepNo] {
			seen[stepNo] = true
			stepNos = append(stepNos, stepNo)
		}
	}
	for stepNo := range current {
		if !seen[stepNo] {
			seen[stepNo] = true
			stepNos = append(stepNos, stepNo)
		}
	}
	allNumeric := true
	for _, stepNo := range stepNos {
		if _, err := strconv.Atoi(stepNo); err != nil {
			allNumeric = false
			break
		}
	}
	if allNumeric {
		sort.Slice(stepNos, func(i, j int) bool {
			left, _ := strconv.Atoi(stepNos[i])
			right, _ := strconv.Atoi(stepNos[j])
			return left < right
		})
	} else {
		sort.Strings(stepNos)
	}
	return stepNos
}

func compareSteps(previous view.TestCaseStep, current view.TestCaseStep) map[string]view.FieldChange {
	previousFields := previous.Fields()
	currentFields := current.Fields()
	columns := make(map[string]bool, len(previousFields)+len(currentFields))
	for column := range previousFields {
		columns[column] = true
	}
	for column := range currentFields {
		columns[column] = true
	}

	differences := make(map[string]view.FieldChange)
	for column := range columns {
		from := previousFields[column]
		to := currentFields[column]
		if from == to {
			continue
		}
		differences[column] = view.FieldChange{
			From:  from,
			To:    to,
			Patch: buildFieldPatch(column, from, to),
		}
	}
	return differences
}

// buildFieldPatch renders a unified patch for multi-line cell values; single
// line changes are already fully described by from/to.
func buildFieldPatch(column string, from string, to string) string {
	if !strings.Contains(from, "\n") && !strings.Contains(to, "\n") {
		return ""
	}
	patch, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(from),
		B:        difflib.SplitLines(to),
		FromFile: column,
		ToFile:   column,
		Context:  2,
	})
	if err != nil {
		log.Warnf("Failed to build text patch for column %s: %v", column, err.Error())
		return ""
	}
	return patch
}
