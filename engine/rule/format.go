package rule

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/notecraft/notecraft/engine/core"
)

// noteDateLayout renders dates as MM/DD/YY in the configured reference
// timezone.
const noteDateLayout = "01/02/06"

// formatValue renders one resolved cell according to the rule's format type.
// Unrecognized formats and type mismatches fall back to the raw passthrough
// form; formatting must never fail a rule.
func formatValue(cell core.CellValue, format Format, loc *time.Location) string {
	switch format {
	case FormatNumber:
		v, ok := cell.AsNumber()
		if !ok {
			return cell.String()
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "0"
		}
		return decimal.NewFromFloat(v).Round(1).String()
	case FormatPercent:
		v, ok := cell.AsNumber()
		if !ok {
			return cell.String()
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "0%"
		}
		return decimal.NewFromFloat(v).Mul(decimal.NewFromInt(100)).Round(0).String() + "%"
	case FormatDate:
		d, ok := cell.AsDate()
		if !ok {
			return cell.String()
		}
		return d.In(loc).Format(noteDateLayout)
	default:
		return cell.String()
	}
}
