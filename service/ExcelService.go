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
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/testcasehub/testcasehub-backend/testcasehub-service/exception"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/view"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type ExcelService interface {
	WriteTestCaseTable(table view.TestCaseTable, filePath string) error
	ReadTestCaseTable(filePath string) (*view.TestCaseTable, error)
	BuildTestCaseWorkbook(table view.TestCaseTable) (*excelize.File, error)
}

func NewExcelService() ExcelService {
	return &excelServiceImpl{}
}

type excelServiceImpl struct {
}

func (e excelServiceImpl) WriteTestCaseTable(table view.TestCaseTable, filePath string) error {
	if err := validateSpreadsheetExtension(filePath); err != nil {
		return err
	}
	workbook, err := e.BuildTestCaseWorkbook(table)
	if err != nil {
		return err
	}
	defer func() {
		if err := workbook.Close(); err != nil {
			log.Errorf("Failed to close workbook for %s: %v", filePath, err.Error())
		}
	}()
	return workbook.SaveAs(filePath)
}

func (e excelServiceImpl) BuildTestCaseWorkbook(table view.TestCaseTable) (*excelize.File, error) {
	workbook := excelize.NewFile()
	sheetIndex, err := workbook.NewSheet(view.TestCaseSheetName)
	if err != nil {
		return nil, err
	}
	workbook.SetActiveSheet(sheetIndex)
	if err := workbook.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	columns := table.ColumnSet()
	endColumn, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return nil, err
	}
	err = workbook.SetColWidth(view.TestCaseSheetName, "A", endColumn, 30)
	if err != nil {
		return nil, err
	}

	headerStyle := getHeaderStyle(workbook)
	evenCellStyle := getEvenCellStyle(workbook)
	oddCellStyle := getOddCellStyle(workbook)

	cellsValues := make(map[string]interface{})
	for i, column := range columns {
		columnName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		cellsValues[fmt.Sprintf("%s1", columnName)] = column
	}
	if err := setCellsValues(workbook, view.TestCaseSheetName, cellsValues); err != nil {
		return nil, err
	}
	if err := workbook.SetCellStyle(view.TestCaseSheetName, "A1", fmt.Sprintf("%s1", endColumn), headerStyle); err != nil {
		return nil, err
	}

	rowIndex := 2
	for _, step := range table.Steps {
		cellsValues = make(map[string]interface{})
		for i, column := range columns {
			columnName, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				return nil, err
			}
			value, _ := step.Field(column)
			cellsValues[fmt.Sprintf("%s%d", columnName, rowIndex)] = value
		}
		if err := setCellsValues(workbook, view.TestCaseSheetName, cellsValues); err != nil {
			return nil, err
		}
		if rowIndex%2 == 0 {
			err = workbook.SetCellStyle(view.TestCaseSheetName, fmt.Sprintf("A%d", rowIndex), fmt.Sprintf("%s%d", endColumn, rowIndex), evenCellStyle)
		} else {
			err = workbook.SetCellStyle(view.TestCaseSheetName, fmt.Sprintf("A%d", rowIndex), fmt.Sprintf("%s%d", endColumn, rowIndex), oddCellStyle)
		}
		if err != nil {
			return nil, err
		}
		rowIndex += 1
	}
	return workbook, nil
}

func (e excelServiceImpl) ReadTestCaseTable(filePath string) (*view.TestCaseTable, error) {
	if err := validateSpreadsheetExtension(filePath); err != nil {
		return nil, err
	}
	workbook, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := workbook.Close(); err != nil {
			log.Errorf("Failed to close workbook for %s: %v", filePath, err.Error())
		}
	}()

	sheetName := view.TestCaseSheetName
	if sheetIndex, err := workbook.GetSheetIndex(sheetName); err != nil || sheetIndex < 0 {
		sheetName = workbook.GetSheetName(0)
	}
	rows, err := workbook.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.EmptyTestCaseTable,
			Message: exception.EmptyTestCaseTableMsg,
		}
	}

	headers := make([]string, 0, len(rows[0]))
	for _, header := range rows[0] {
		headers = append(headers, strings.TrimSpace(header))
	}
	if err := validateRequiredColumns(headers); err != nil {
		return nil, err
	}

	table := view.TestCaseTable{Columns: headers}
	for _, row := range rows[1:] {
		if rowIsEmpty(row) {
			continue
		}
		var step view.TestCaseStep
		for i, header := range headers {
			if header == "" {
				continue
			}
			value := ""
			if i < len(row) {
				value = strings.TrimSpace(row[i])
			}
			step.SetField(header, value)
		}
		table.Steps = append(table.Steps, step)
	}
	if len(table.Steps) == 0 {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.EmptyTestCaseTable,
			Message: exception.EmptyTestCaseTableMsg,
		}
	}
	return &table, nil
}

func validateSpreadsheetExtension(filePath string) error {
	extension := strings.ToLower(filepath.Ext(filePath))
	if extension != ".xlsx" && extension != ".xls" {
		return &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.UnsupportedFileExtension,
			Message: exception.UnsupportedFileExtensionMsg,
			Params:  map[string]interface{}{"extension": extension},
		}
	}
	return nil
}

func validateRequiredColumns(headers []string) error {
	required := []string{view.ColumnTestCaseNumber, view.ColumnStepNo}
	missing := make([]string, 0)
	for _, column := range required {
		found := false
		for _, header := range headers {
			if strings.EqualFold(header, column) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.RequiredColumnsMissing,
			Message: exception.RequiredColumnsMissingMsg,
			Params:  map[string]interface{}{"columns": strings.Join(missing, ", ")},
		}
	}
	return nil
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func setCellsValues(report *excelize.File, sheetName string, columnsValue map[string]interface{}) error {
	for key, value := range columnsValue {
		err := report.SetCellValue(sheetName, key, value)
		if err != nil {
			return err
		}
	}
	return nil
}

func getHeaderStyle(file *excelize.File) (style int) {
	headerStyle, _ := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Family: "Arial",
			Size:   10,
			Bold:   true,
			Color:  "FFFFFF",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#183147"},
			Pattern: 1,
		},
	})
	return headerStyle
}

func getEvenCellStyle(file *excelize.File) (style int) {
	evenCellStyle, _ := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Family: "Arial",
			Size:   10,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "E2E5E8", Style: 1},
			{Type: "right", Color: "E2E5E8", Style: 1},
			{Type: "top", Color: "E2E5E8", Style: 1},
			{Type: "bottom", Color: "E2E5E8", Style: 1},
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#F5F7F8"},
			Pattern: 1,
		},
	})
	return evenCellStyle
}

func getOddCellStyle(file *excelize.File) (style int) {
	oddCellStyle, _ := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Family: "Arial",
			Size:   10,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "E2E5E8", Style: 1},
			{Type: "right", Color: "E2E5E8", Style: 1},
			{Type: "top", Color: "E2E5E8", Style: 1},
			{Type: "bottom", Color: "E2E5E8", Style: 1},
		},
	})
	return oddCellStyle
}
