package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/view"
)

func diffTable(steps ...view.TestCaseStep) view.TestCaseTable {
	return view.TestCaseTable{Steps: steps}
}

func TestCompareTables_AddedRemovedModified(t *testing.T) {
	previous := diffTable(
		view.TestCaseStep{TestCaseNumber: "TC-1", StepNo: "1", Description: "Open page"},
		view.TestCaseStep{TestCaseNumber: "TC-1", StepNo: "2", Description: "Click button", ExpectedResult: "Dialog opens"},
		view.TestCaseStep{TestCaseNumber: "TC-1", StepNo: "3", Description: "Close dialog"},
	)
	current := diffTable(
		view.TestCaseStep{TestCaseNumber: "TC-1", StepNo: "1", Description: "Open page"},
		view.TestCaseStep{TestCaseNumber: "TC-1", StepNo: "2", Description: "Click button", ExpectedResult: "Dialog opens immediately"},
		view.TestCaseStep{TestCaseNumber: "TC-1", StepNo: "4", Description: "Submit form"},
	)

	result := NewVersionDiffService().CompareTables(previous, current)

	assert.Equal(t, 1, result.Summary.Added)
	assert.Equal(t, 1, result.Summary.Removed)
	assert.Equal(t, 1, result.Summary.Modified)
	assert.Equal(t, 1, result.Summary.Unchanged)

	assert.Len(t, result.AddedSteps, 1)
	assert.Equal(t, "4", result.AddedSteps[0].StepNo)
	assert.Equal(t, "Submit form", result.AddedSteps[0].Details[view.ColumnTestStepDescription])

	assert.Len(t, result.RemovedSteps, 1)
	assert.Equal(t, "3", result.RemovedSteps[0].StepNo)

	assert.Len(t, result.ModifiedSteps, 1)
	assert.Equal(t, "2", result.ModifiedSteps[0].StepNo)
	change, exists := result.ModifiedSteps[0].Differences[view.ColumnExpectedResult]
	assert.True(t, exists)
	assert.Equal(t, "Dialog opens", change.From)
	assert.Equal(t, "Dialog opens immediately", change.To)
	assert.Empty(t, change.Patch)
}

func TestCompareTables_IdenticalTables(t *testing.T) {
	table := diffTable(
		view.TestCaseStep{TestCaseNumber: "TC-1", StepNo: "1", Description: "Open page"},
		view.TestCaseStep{TestCaseNumber: "TC-1", StepNo: "2", Description: "Click button"},
	)

	result := NewVersionDiffService().CompareTables(table, table)

	assert.Empty(t, result.AddedSteps)
	assert.Empty(t, result.RemovedSteps)
	assert.Empty(t, result.ModifiedSteps)
	assert.Equal(t, 2, result.Summary.Unchanged)
}

func TestCompareTables_NumericStepOrder(t *testing.T) {
	previous := diffTable(
		view.TestCaseStep{TestCaseNumber: "TC-1", StepNo: "2", Description: "b"},
		view.TestCaseStep{TestCaseNumber: "TC-1", StepNo: "10", Description: "j"},
	)
	current := diffTable(
		view.TestCaseStep{TestCaseNumber: "TC-1", StepNo: "1", Description: "a"},
	)

	result := NewVersionDiffService().CompareTables(previous, current)

	// numeric, not lexicographic: 1 < 2 < 10
	assert.Equal(t, "1", result.AddedSteps[0].StepNo)
	assert.Equal(t, []string{"2", "10"}, []string{result.RemovedSteps[0].StepNo, result.RemovedSteps[1].StepNo})
}

func TestCompareTables_LexicographicFallback(t *testing.T) {
	previous := diffTable(
		view.TestCaseStep{TestCaseNumber: "TC-1", StepNo: "10", Description: "j"},
		view.TestCaseStep{TestCaseNumber: "TC-1", StepNo: "2a", Description: "b"},
	)
	current := diffTable()

	result := NewVersionDiffService().CompareTables(previous, current)

	assert.Equal(t, "10", result.RemovedSteps[0].StepNo)
	assert.Equal(t, "2a", result.RemovedSteps[1].StepNo)
}

func TestCompareTables_DuplicateStepNoLastWins(t *testing.T) {
	previous := diffTable(
		view.TestCaseStep{TestCaseNumber: "TC-1", StepNo: "1", Description: "first row"},
		view.TestCaseStep{TestCaseNumber: "TC-1", StepNo: "1", Description: "second row"},
	)
	current := diffTable(
		view.TestCaseStep{TestCaseNumber: "TC-1", StepNo: "1", Description: "second row"},
	)

	result := NewVersionDiffService().CompareTables(previous, current)

	assert.Empty(t, result.ModifiedSteps)
	assert.Equal(t, 1, result.Summary.Unchanged)
}

func TestCompareTables_MultiLinePatch(t *testing.T) {
	previous := diffTable(
		view.TestCaseStep{TestCaseNumber: "TC-1", StepNo: "1", Data: "alpha\nbeta\ngamma"},
	)
	current := diffTable(
		view.TestCaseStep{TestCaseNumber: "TC-1", StepNo: "1", Data: "alpha\nbeta\ndelta"},
	)

	result := NewVersionDiffService().CompareTables(previous, current)

	change := result.ModifiedSteps[0].Differences[view.ColumnData]
	assert.Contains(t, change.Patch, "-gamma")
	assert.Contains(t, change.Patch, "+delta")
}

func TestCompareTables_FieldClearedAndSet(t *testing.T) {
	previous := diffTable(
		view.TestCaseStep{TestCaseNumber: "TC-1", StepNo: "1", Values: "old value"},
	)
	current := diffTable(
		view.TestCaseStep{TestCaseNumber: "TC-1", StepNo: "1", Status: "PASSED"},
	)

	result := NewVersionDiffService().CompareTables(previous, current)

	differences := result.ModifiedSteps[0].Differences
	assert.Equal(t, view.FieldChange{From: "old value", To: ""}, differences[view.ColumnValues])
	assert.Equal(t, view.FieldChange{From: "", To: "PASSED"}, differences[view.ColumnStatus])
}
