package sheet

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"pensionqa/internal/models"
)

// Cell texts treated as missing, as spreadsheet exports commonly write them.
var csvMissing = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"n/a":  true,
	"NaN":  true,
	"nan":  true,
	"NULL": true,
	"null": true,
	"#N/A": true,
	"<NA>": true,
	"None": true,
}

type csvReader struct{}

func (csvReader) Read(path string) (*models.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}

	if err != nil {
		return nil, err
	}

	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	table := &models.RawTable{Header: trimHeader(header)}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, err
		}

		rec := make(models.RawRecord, max(len(table.Header), len(row)))
		for i := range rec {
			if i < len(row) {
				rec[i] = inferCSVValue(row[i])
			}
		}

		table.Rows = append(table.Rows, rec)
	}

	return table, nil
}

// inferCSVValue types a CSV cell: missing markers are empty, finite numbers
// are numeric and ISO dates are dates. Everything else stays text, untrimmed.
func inferCSVValue(s string) models.Value {
	if csvMissing[s] {
		return models.Empty()
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return models.Number(f)
	}

	if t, err := time.Parse(models.DateLayout, s); err == nil {
		return models.Date(t)
	}

	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return models.Date(t)
	}

	return models.Text(s)
}

type csvWriter struct{}

func (csvWriter) Write(path string, records []models.CanonicalRecord, _ WriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)

	if err := w.Write(models.CanonicalColumns); err != nil {
		f.Close()
		return err
	}

	for _, rec := range records {
		values := rec.Values()
		row := make([]string, len(values))

		for i, v := range values {
			row[i] = v.String()
		}

		if err := w.Write(row); err != nil {
			f.Close()
			return err
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
