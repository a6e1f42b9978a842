package table

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/notecraft/notecraft/engine/core"
)

// Date layouts recognized at the CSV boundary, most specific first.
var csvDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"01/02/06",
}

// ReadCSV parses CSV content into tagged cell rows. Cell typing happens here,
// at the loader boundary: numbers, TRUE/FALSE, recognized date layouts and
// blanks get their own kind, everything else stays text. Dates are anchored
// in loc.
func ReadCSV(r io.Reader, loc *time.Location) ([][]core.CellValue, error) {
	if loc == nil {
		loc = time.UTC
	}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rawRows, err := reader.ReadAll()
	if err != nil {
		return nil, core.NewError(err, core.ErrCodeInvalidInput, map[string]any{"format": "csv"})
	}
	rows := make([][]core.CellValue, len(rawRows))
	for i, rawRow := range rawRows {
		row := make([]core.CellValue, len(rawRow))
		for j, field := range rawRow {
			row[j] = TypeCell(field, loc)
		}
		rows[i] = row
	}
	return rows, nil
}

// ReadCSVFile loads a CSV source from disk. A missing file is a structural
// MissingSource failure.
func ReadCSVFile(path string, loc *time.Location) ([][]core.CellValue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.NewError(err, core.ErrCodeMissingSource, map[string]any{"path": path})
	}
	defer f.Close()
	return ReadCSV(f, loc)
}

// TypeCell types one raw string field the way the CSV boundary does: number,
// TRUE/FALSE, recognized date layouts, blank, then text. Hosts feeding string
// cells from elsewhere reuse it so typing stays uniform.
func TypeCell(field string, loc *time.Location) core.CellValue {
	if loc == nil {
		loc = time.UTC
	}
	trimmed := strings.TrimSpace(field)
	if trimmed == "" {
		return core.Empty()
	}
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return core.Number(v)
	}
	switch strings.ToUpper(trimmed) {
	case "TRUE":
		return core.Bool(true)
	case "FALSE":
		return core.Bool(false)
	}
	for _, layout := range csvDateLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, loc); err == nil {
			return core.Date(t)
		}
	}
	return core.Text(field)
}
