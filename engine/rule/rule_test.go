package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notecraft/notecraft/engine/core"
)

func cells(values ...any) []core.CellValue {
	out := make([]core.CellValue, len(values))
	for i, v := range values {
		out[i] = core.FromAny(v)
	}
	return out
}

func TestParseRows(t *testing.T) {
	t.Run("Should parse the four rule columns", func(t *testing.T) {
		rows := [][]core.CellValue{
			cells("revenue", "number", "Rev: {{val}}", true),
		}
		rules := ParseRows(rows)
		require.Len(t, rules, 1)
		assert.Equal(t, Rule{
			Expression: "revenue",
			Format:     FormatNumber,
			Template:   "Rev: {{val}}",
			BreakAfter: true,
		}, rules[0])
	})

	t.Run("Should discard rows with an empty first cell", func(t *testing.T) {
		rows := [][]core.CellValue{
			cells("", "number", "ghost", true),
			cells("revenue", "number", "", false),
			{},
		}
		rules := ParseRows(rows)
		require.Len(t, rules, 1)
		assert.Equal(t, "revenue", rules[0].Expression)
	})

	t.Run("Should skip a leading header row", func(t *testing.T) {
		rows := [][]core.CellValue{
			cells("Expression", "Format", "Template", "Break After"),
			cells("revenue", "number", "", true),
		}
		rules := ParseRows(rows)
		require.Len(t, rules, 1)
		assert.Equal(t, "revenue", rules[0].Expression)
	})

	t.Run("Should read break-after from checkbox and text forms", func(t *testing.T) {
		rows := [][]core.CellValue{
			cells("a", "", "", true),
			cells("b", "", "", "TRUE"),
			cells("c", "", "", "yes"),
			cells("d", "", "", 1),
			cells("e", "", "", "no"),
			cells("f", "", "", nil),
		}
		rules := ParseRows(rows)
		require.Len(t, rules, 6)
		assert.True(t, rules[0].BreakAfter)
		assert.True(t, rules[1].BreakAfter)
		assert.True(t, rules[2].BreakAfter)
		assert.True(t, rules[3].BreakAfter)
		assert.False(t, rules[4].BreakAfter)
		assert.False(t, rules[5].BreakAfter)
	})

	t.Run("Should lowercase the format column", func(t *testing.T) {
		rules := ParseRows([][]core.CellValue{cells("x", "Percent", "", false)})
		require.Len(t, rules, 1)
		assert.Equal(t, FormatPercent, rules[0].Format)
	})
}

func TestParseYAML(t *testing.T) {
	t.Run("Should decode a rules document", func(t *testing.T) {
		doc := []byte(`
rules:
  - expression: revenue
    format: number
    template: "Rev: {{val}}"
    break_after: true
  - expression: ""
  - expression: "{clicks}/{impressions}"
    format: percent
`)
		rules, err := ParseYAML(doc)
		require.NoError(t, err)
		require.Len(t, rules, 2)
		assert.Equal(t, FormatNumber, rules[0].Format)
		assert.True(t, rules[0].BreakAfter)
		assert.Equal(t, FormatPercent, rules[1].Format)
	})

	t.Run("Should reject malformed YAML with a coded error", func(t *testing.T) {
		_, err := ParseYAML([]byte("rules: ["))
		require.Error(t, err)
		var coded *core.Error
		require.ErrorAs(t, err, &coded)
		assert.Equal(t, core.ErrCodeInvalidInput, coded.Code)
	})

	t.Run("Should fail with MissingSource for an absent file", func(t *testing.T) {
		_, err := LoadYAMLFile("/nonexistent/rules.yaml")
		require.Error(t, err)
		var coded *core.Error
		require.ErrorAs(t, err, &coded)
		assert.Equal(t, core.ErrCodeMissingSource, coded.Code)
	})
}

func TestLint(t *testing.T) {
	t.Run("Should pass a clean rule table", func(t *testing.T) {
		rules := []Rule{
			{Expression: "revenue", Format: FormatNumber, Template: "Rev: {{val}}", BreakAfter: true},
			{Expression: "sep", Format: FormatSeparator},
			{Expression: "{a}/{b}", Format: FormatPercent},
		}
		assert.Empty(t, Lint(rules))
	})

	t.Run("Should flag unknown formats", func(t *testing.T) {
		issues := Lint([]Rule{{Expression: "x", Format: "money"}})
		require.Len(t, issues, 1)
		assert.Contains(t, issues[0].Message, "unrecognized format")
	})

	t.Run("Should flag templates without a value placeholder", func(t *testing.T) {
		issues := Lint([]Rule{{Expression: "x", Template: "static text"}})
		require.Len(t, issues, 1)
		assert.Contains(t, issues[0].Message, "no {{val}}")
	})

	t.Run("Should not require placeholders in separator templates", func(t *testing.T) {
		assert.Empty(t, Lint([]Rule{{Expression: "x", Format: FormatSeparator, Template: "=== KPIs ==="}}))
	})

	t.Run("Should flag unparseable formulas", func(t *testing.T) {
		issues := Lint([]Rule{{Expression: "{a}+*2"}})
		require.Len(t, issues, 1)
		assert.Contains(t, issues[0].Message, "does not parse")
	})

	t.Run("Should not flag formulas that divide by a missing field", func(t *testing.T) {
		assert.Empty(t, Lint([]Rule{{Expression: "{a}/{b}"}}))
	})
}
