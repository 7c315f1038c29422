package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/view"
)

func sampleTable() view.TestCaseTable {
	return view.TestCaseTable{
		Columns: []string{view.ColumnTestCaseNumber, view.ColumnStepNo, view.ColumnTestStepDescription, view.ColumnExpectedResult},
		Steps: []view.TestCaseStep{
			{TestCaseNumber: "TC-100", StepNo: "1", Description: "Open login page", ExpectedResult: "Login page is shown"},
			{TestCaseNumber: "TC-100", StepNo: "2", Description: "Enter credentials", ExpectedResult: "User is logged in"},
		},
	}
}

func TestCalculateTableChecksum_Deterministic(t *testing.T) {
	table := sampleTable()
	first := CalculateTableChecksum(table)
	second := CalculateTableChecksum(table)
	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestCalculateTableChecksum_ColumnOrderIndependent(t *testing.T) {
	table := sampleTable()
	reordered := sampleTable()
	reordered.Columns = []string{view.ColumnExpectedResult, view.ColumnTestStepDescription, view.ColumnStepNo, view.ColumnTestCaseNumber}
	assert.Equal(t, CalculateTableChecksum(table), CalculateTableChecksum(reordered))
}

func TestCalculateTableChecksum_RowOrderMatters(t *testing.T) {
	table := sampleTable()
	swapped := sampleTable()
	swapped.Steps[0], swapped.Steps[1] = swapped.Steps[1], swapped.Steps[0]
	assert.NotEqual(t, CalculateTableChecksum(table), CalculateTableChecksum(swapped))
}

func TestCalculateTableChecksum_DetectsContentChange(t *testing.T) {
	table := sampleTable()
	changed := sampleTable()
	changed.Steps[1].ExpectedResult = "User sees the dashboard"
	assert.NotEqual(t, CalculateTableChecksum(table), CalculateTableChecksum(changed))
}

func TestCalculateTableChecksum_ExtraColumns(t *testing.T) {
	table := sampleTable()
	withExtra := sampleTable()
	withExtra.Steps[0].Extra = map[string]string{"CUSTOM NOTE": "flaky on staging"}
	assert.NotEqual(t, CalculateTableChecksum(table), CalculateTableChecksum(withExtra))
}

func TestCalculateTableChecksum_EmptyTable(t *testing.T) {
	empty := view.TestCaseTable{}
	assert.Len(t, CalculateTableChecksum(empty), 64)
	assert.Equal(t, CalculateTableChecksum(empty), CalculateTableChecksum(view.TestCaseTable{Steps: []view.TestCaseStep{}}))
}
