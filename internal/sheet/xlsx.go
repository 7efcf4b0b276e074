package sheet

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"pensionqa/internal/models"
)

// Built-in number formats that render a serial number as a date or time.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

type xlsxReader struct{}

// workbook wraps an open file with a per-style cache of date detection.
type workbook struct {
	file       *excelize.File
	sheet      string
	date1904   bool
	dateStyles map[int]bool
}

func (xlsxReader) Read(path string) (*models.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	wb := &workbook{
		file:       f,
		sheet:      sheets[0],
		dateStyles: make(map[int]bool),
	}

	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}

	rows, err := f.GetRows(wb.sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", wb.sheet, err)
	}

	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	table := &models.RawTable{
		Header: trimHeader(rows[0]),
		Rows:   make([]models.RawRecord, 0, len(rows)-1),
	}

	for r := 1; r < len(rows); r++ {
		width := max(len(table.Header), len(rows[r]))
		rec := make(models.RawRecord, width)

		for c := 0; c < width; c++ {
			raw := ""
			if c < len(rows[r]) {
				raw = rows[r][c]
			}

			v, err := wb.cell(c+1, r+1, raw)
			if err != nil {
				return nil, err
			}

			rec[c] = v
		}

		table.Rows = append(table.Rows, rec)
	}

	return table, nil
}

// cell types a raw cell string using the stored cell type and number format.
func (wb *workbook) cell(col, row int, raw string) (models.Value, error) {
	if raw == "" {
		return models.Empty(), nil
	}

	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return models.Value{}, err
	}

	typ, err := wb.file.GetCellType(wb.sheet, name)
	if err != nil {
		return models.Value{}, fmt.Errorf("cell %s: %w", name, err)
	}

	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		return models.Text(raw), nil
	case excelize.CellTypeBool:
		return models.Text(strings.ToUpper(strconv.FormatBool(raw == "1" || strings.EqualFold(raw, "true")))), nil
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return models.Date(t), nil
		}

		if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
			return models.Date(t), nil
		}

		return models.Text(raw), nil
	}

	num, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return models.Text(raw), nil
	}

	if wb.isDateCell(name) {
		t, err := excelize.ExcelDateToTime(num, wb.date1904)
		if err == nil {
			return models.Date(t), nil
		}
	}

	return models.Number(num), nil
}

func (wb *workbook) isDateCell(name string) bool {
	idx, err := wb.file.GetCellStyle(wb.sheet, name)
	if err != nil || idx == 0 {
		return false
	}

	if isDate, ok := wb.dateStyles[idx]; ok {
		return isDate
	}

	isDate := false
	if style, err := wb.file.GetStyle(idx); err == nil {
		isDate = builtinDateFormats[style.NumFmt]
		if style.CustomNumFmt != nil {
			isDate = isDateFormatCode(*style.CustomNumFmt)
		}
	}

	wb.dateStyles[idx] = isDate

	return isDate
}

// isDateFormatCode reports whether a custom number format shows a calendar
// date. Quoted literals and bracketed sections are ignored.
func isDateFormatCode(code string) bool {
	var sb strings.Builder

	inQuote, inBracket := false, false

	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			sb.WriteRune(r)
		}
	}

	return strings.ContainsAny(sb.String(), "yd")
}

func trimHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(h)
	}

	return out
}

type xlsxWriter struct{}

func (xlsxWriter) Write(path string, records []models.CanonicalRecord, opts WriteOptions) error {
	f := excelize.NewFile()
	defer f.Close()

	name := opts.sheetName()
	if name != "Sheet1" {
		if err := f.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
	}

	header := make([]any, len(models.CanonicalColumns))
	for i, col := range models.CanonicalColumns {
		header[i] = col
	}

	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		return err
	}

	for i, rec := range records {
		values := rec.Values()
		row := make([]any, len(values))

		for j, v := range values {
			row[j] = v.Any()
		}

		start, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		if err := f.SetSheetRow(name, start, &row); err != nil {
			return fmt.Errorf("row %s: %w", rec.ID, err)
		}

		for j, v := range values {
			if v.Kind() != models.KindDate {
				continue
			}

			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}

			if err := f.SetCellStyle(name, cell, cell, dateStyle); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}
