package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/ovumcal/internal/models"
	"github.com/xuri/excelize/v2"
)

// ReadCSV accepts any header-led CSV with a date column and a flow or period
// column, including the day-log export (Date, Period, Flow, ...).
func ReadCSV(path string, reader io.Reader) ([]models.Observation, []error, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	return readTable(path, rows, ParseDay)
}

// ReadXLSX reads the first sheet of a workbook. Date cells may hold either
// text or spreadsheet serial numbers.
func ReadXLSX(path string, reader io.Reader) ([]models.Observation, []error, error) {
	workbook, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer workbook.Close()

	sheet := workbook.GetSheetName(0)
	if sheet == "" {
		return nil, nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := workbook.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q of %s: %w", sheet, path, err)
	}

	date1904 := false
	if props, err := workbook.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}
	return readTable(path, rows, func(raw string) (time.Time, bool) {
		return parseSpreadsheetDay(raw, date1904)
	})
}

func parseSpreadsheetDay(raw string, date1904 bool) (time.Time, bool) {
	if day, ok := ParseDay(raw); ok {
		return day, true
	}
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || serial <= 0 {
		return time.Time{}, false
	}
	converted, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return time.Time{}, false
	}
	return models.DateOnly(converted), true
}
