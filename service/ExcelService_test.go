package service

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/exception"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/view"
	"github.com/xuri/excelize/v2"
)

func TestWriteAndReadTestCaseTable(t *testing.T) {
	excelService := NewExcelService()
	table := view.TestCaseTable{
		Steps: []view.TestCaseStep{
			{
				TestCaseNumber: "TC-1",
				StepNo:         "1",
				Description:    "Open login page",
				ExpectedResult: "Login page is shown",
				Owner:          "alice",
			},
			{
				TestCaseNumber: "TC-1",
				StepNo:         "2",
				Description:    "Enter credentials",
				Status:         "PASSED",
			},
		},
	}

	filePath := filepath.Join(t.TempDir(), "tc-1.xlsx")
	require.NoError(t, excelService.WriteTestCaseTable(table, filePath))

	loaded, err := excelService.ReadTestCaseTable(filePath)
	require.NoError(t, err)
	require.Len(t, loaded.Steps, 2)
	assert.Equal(t, "TC-1", loaded.Steps[0].TestCaseNumber)
	assert.Equal(t, "Open login page", loaded.Steps[0].Description)
	assert.Equal(t, "Login page is shown", loaded.Steps[0].ExpectedResult)
	assert.Equal(t, "alice", loaded.Steps[0].Owner)
	assert.Equal(t, "2", loaded.Steps[1].StepNo)
	assert.Equal(t, "PASSED", loaded.Steps[1].Status)
}

func TestWriteAndReadTestCaseTable_ExtraColumns(t *testing.T) {
	excelService := NewExcelService()
	table := view.TestCaseTable{
		Steps: []view.TestCaseStep{
			{
				TestCaseNumber: "TC-1",
				StepNo:         "1",
				Description:    "Open login page",
				Extra:          map[string]string{"CUSTOM FIELD": "custom value"},
			},
		},
	}

	filePath := filepath.Join(t.TempDir(), "tc-1.xlsx")
	require.NoError(t, excelService.WriteTestCaseTable(table, filePath))

	loaded, err := excelService.ReadTestCaseTable(filePath)
	require.NoError(t, err)
	require.Len(t, loaded.Steps, 1)
	assert.Equal(t, "custom value", loaded.Steps[0].Extra["CUSTOM FIELD"])
	assert.Contains(t, loaded.Columns, "CUSTOM FIELD")
}

func TestWriteTestCaseTable_UnsupportedExtension(t *testing.T) {
	excelService := NewExcelService()
	table := view.TestCaseTable{Steps: []view.TestCaseStep{{TestCaseNumber: "TC-1", StepNo: "1"}}}

	err := excelService.WriteTestCaseTable(table, filepath.Join(t.TempDir(), "tc-1.csv"))
	require.Error(t, err)
	customError, ok := err.(*exception.CustomError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, customError.Status)
	assert.Equal(t, exception.UnsupportedFileExtension, customError.Code)
}

func TestReadTestCaseTable_RequiredColumnsMissing(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "broken.xlsx")
	workbook := excelize.NewFile()
	require.NoError(t, workbook.SetCellValue("Sheet1", "A1", "DESCRIPTION"))
	require.NoError(t, workbook.SetCellValue("Sheet1", "B1", "STATUS"))
	require.NoError(t, workbook.SetCellValue("Sheet1", "A2", "Open login page"))
	require.NoError(t, workbook.SaveAs(filePath))
	require.NoError(t, workbook.Close())

	_, err := NewExcelService().ReadTestCaseTable(filePath)
	require.Error(t, err)
	customError, ok := err.(*exception.CustomError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, customError.Status)
	assert.Equal(t, exception.RequiredColumnsMissing, customError.Code)
}

func TestReadTestCaseTable_EmptyWorkbook(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "empty.xlsx")
	workbook := excelize.NewFile()
	require.NoError(t, workbook.SetCellValue("Sheet1", "A1", view.ColumnTestCaseNumber))
	require.NoError(t, workbook.SetCellValue("Sheet1", "B1", view.ColumnStepNo))
	require.NoError(t, workbook.SaveAs(filePath))
	require.NoError(t, workbook.Close())

	_, err := NewExcelService().ReadTestCaseTable(filePath)
	require.Error(t, err)
	customError, ok := err.(*exception.CustomError)
	require.True(t, ok)
	assert.Equal(t, exception.EmptyTestCaseTable, customError.Code)
}

func TestReadTestCaseTable_SkipsEmptyRows(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "gaps.xlsx")
	workbook := excelize.NewFile()
	require.NoError(t, workbook.SetCellValue("Sheet1", "A1", view.ColumnTestCaseNumber))
	require.NoError(t, workbook.SetCellValue("Sheet1", "B1", view.ColumnStepNo))
	require.NoError(t, workbook.SetCellValue("Sheet1", "A2", "TC-1"))
	require.NoError(t, workbook.SetCellValue("Sheet1", "B2", "1"))
	// row 3 left blank on purpose
	require.NoError(t, workbook.SetCellValue("Sheet1", "A4", "TC-1"))
	require.NoError(t, workbook.SetCellValue("Sheet1", "B4", "2"))
	require.NoError(t, workbook.SaveAs(filePath))
	require.NoError(t, workbook.Close())

	loaded, err := NewExcelService().ReadTestCaseTable(filePath)
	require.NoError(t, err)
	require.Len(t, loaded.Steps, 2)
	assert.Equal(t, "1", loaded.Steps[0].StepNo)
	assert.Equal(t, "2", loaded.Steps[1].StepNo)
}
