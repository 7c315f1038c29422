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

// FieldChange records one field changing between two versions of a step.
// Patch carries a unified text patch for multi-line values, "" otherwise.
type FieldChange struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Patch string `json:"patch,omitempty"`
}

type StepDiff struct {
	StepNo  string            `json:"stepNo"`
	Details map[string]string `json:"details"`
}

type ModifiedStep struct {
	StepNo      string                 `json:"stepNo"`
	Differences map[string]FieldChange `json:"differences"`
}

type DiffSummary struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Modified  int `json:"modified"`
	Unchanged int `json:"unchanged"`
}

type DiffResult struct {
	AddedSteps    []StepDiff     `json:"addedSteps"`
	RemovedSteps  []StepDiff     `json:"removedSteps"`
	ModifiedSteps []ModifiedStep `json:"modifiedSteps"`
	Summary       DiffSummary    `json:"summary"`
}

type VersionComparison struct {
	TestCaseId      string     `json:"testCaseId"`
	PreviousVersion string     `json:"previousVersion"`
	Version         string     `json:"version"`
	Diff            DiffResult `json:"diff"`
}
