package core

import (
	"strconv"
	"strings"
	"time"
)

// -----------------------------------------------------------------------------
// Cell Kind
// -----------------------------------------------------------------------------

// CellKind tags the closed set of value shapes a spreadsheet cell can carry.
// Formatting logic dispatches on this tag only, never on runtime types.
type CellKind string

const (
	KindEmpty  CellKind = "empty"
	KindNumber CellKind = "number"
	KindText   CellKind = "text"
	KindBool   CellKind = "bool"
	KindDate   CellKind = "date"
)

// -----------------------------------------------------------------------------
// Cell Value
// -----------------------------------------------------------------------------

// CellValue is the tagged value union {Number, Text, Bool, Date, Empty} used
// at the loader boundary. Values are immutable once constructed.
type CellValue struct {
	Kind CellKind

	num  float64
	text string
	b    bool
	date time.Time
}

func Empty() CellValue {
	return CellValue{Kind: KindEmpty}
}

func Number(v float64) CellValue {
	return CellValue{Kind: KindNumber, num: v}
}

// Text builds a text cell. A blank string collapses to an empty cell so the
// "hide if empty" policy sees one shape of blankness.
func Text(s string) CellValue {
	if strings.TrimSpace(s) == "" {
		return Empty()
	}
	return CellValue{Kind: KindText, text: s}
}

func Bool(v bool) CellValue {
	return CellValue{Kind: KindBool, b: v}
}

func Date(t time.Time) CellValue {
	return CellValue{Kind: KindDate, date: t}
}

// FromAny converts loosely typed input (JSON payloads, host cell values) into
// a tagged cell. Unsupported types collapse to Empty.
func FromAny(v any) CellValue {
	switch t := v.(type) {
	case nil:
		return Empty()
	case CellValue:
		return t
	case string:
		return Text(t)
	case bool:
		return Bool(t)
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case time.Time:
		return Date(t)
	default:
		return Empty()
	}
}

func (c CellValue) IsEmpty() bool {
	return c.Kind == KindEmpty
}

// AsNumber reports the numeric reading of the cell. Number cells convert
// verbatim; text cells convert when the trimmed content parses as a float.
// Bool, date and empty cells have no numeric reading.
func (c CellValue) AsNumber() (float64, bool) {
	switch c.Kind {
	case KindNumber:
		return c.num, true
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(c.text), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// AsDate returns the date reading of the cell, if it has one.
func (c CellValue) AsDate() (time.Time, bool) {
	if c.Kind != KindDate {
		return time.Time{}, false
	}
	return c.date, true
}

// String renders the cell's raw passthrough form, used when a rule carries no
// format type.
func (c CellValue) String() string {
	switch c.Kind {
	case KindNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case KindText:
		return c.text
	case KindBool:
		if c.b {
			return "TRUE"
		}
		return "FALSE"
	case KindDate:
		return c.date.Format("2006-01-02")
	default:
		return ""
	}
}
