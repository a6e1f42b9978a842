// Package rule interprets an ordered rule table against one merged record,
// synthesizing the multi-line annotation text attached to that record.
package rule

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/notecraft/notecraft/engine/core"
	"github.com/notecraft/notecraft/pkg/keynorm"
)

// Format selects how a rule's resolved value is rendered.
type Format string

const (
	FormatRaw       Format = ""
	FormatNumber    Format = "number"
	FormatPercent   Format = "percent"
	FormatDate      Format = "date"
	FormatSeparator Format = "separator"
)

// Rule is one row of the authoritative rule table. Order in the table defines
// both evaluation order and output line order.
type Rule struct {
	// Expression is either a direct field key or an arithmetic formula with
	// {FieldName} placeholders.
	Expression string `yaml:"expression"            json:"expression"`
	Format     Format `yaml:"format,omitempty"      json:"format,omitempty"`
	// Template may contain a single {{val}} placeholder. For separator rules
	// it is the literal separator text.
	Template string `yaml:"template,omitempty"    json:"template,omitempty"`
	// BreakAfter forces the current line buffer to flush after this rule.
	BreakAfter bool `yaml:"break_after,omitempty" json:"break_after,omitempty"`
}

// ParseRows builds the rule list from a 4-column cell table
// (expression, format, template, break-after). Rows with an empty first cell
// are discarded. A leading header row is recognized and skipped.
func ParseRows(rows [][]core.CellValue) []Rule {
	rules := make([]Rule, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		first := strings.TrimSpace(row[0].String())
		if first == "" {
			continue
		}
		if i == 0 && keynorm.Normalize(first) == "expression" {
			continue
		}
		r := Rule{Expression: first}
		if len(row) > 1 {
			r.Format = Format(strings.ToLower(strings.TrimSpace(row[1].String())))
		}
		if len(row) > 2 {
			r.Template = row[2].String()
		}
		if len(row) > 3 {
			r.BreakAfter = cellTruthy(row[3])
		}
		rules = append(rules, r)
	}
	return rules
}

func cellTruthy(c core.CellValue) bool {
	switch c.Kind {
	case core.KindBool:
		return c.String() == "TRUE"
	case core.KindNumber:
		v, _ := c.AsNumber()
		return v != 0
	case core.KindText:
		switch strings.ToLower(strings.TrimSpace(c.String())) {
		case "true", "yes", "y", "1":
			return true
		}
	}
	return false
}

// ruleFile is the YAML document shape for file-authored rule tables.
type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// ParseYAML decodes a rule table from a YAML document with a top-level
// "rules" list. Entries without an expression are discarded, mirroring the
// empty-first-cell policy of tabular rule sources.
func ParseYAML(data []byte) ([]Rule, error) {
	var doc ruleFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, core.NewError(err, core.ErrCodeInvalidInput, map[string]any{"format": "yaml"})
	}
	rules := make([]Rule, 0, len(doc.Rules))
	for _, r := range doc.Rules {
		if strings.TrimSpace(r.Expression) == "" {
			continue
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// LoadYAMLFile reads a YAML rule table from disk.
func LoadYAMLFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewError(err, core.ErrCodeMissingSource, map[string]any{"path": path})
	}
	return ParseYAML(data)
}

var knownFormats = map[Format]struct{}{
	FormatRaw:       {},
	FormatNumber:    {},
	FormatPercent:   {},
	FormatDate:      {},
	FormatSeparator: {},
}

// Issue is one diagnostic produced by Lint, addressed by rule position.
type Issue struct {
	Rule    int
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("rule %d: %s", i.Rule, i.Message)
}

// Lint reports authoring problems in a rule table. The engine itself never
// rejects a malformed rule at run time (it degrades to a blank value); Lint
// exists so authors can hear about it beforehand.
func Lint(rules []Rule) []Issue {
	var issues []Issue
	for i, r := range rules {
		if _, ok := knownFormats[r.Format]; !ok {
			issues = append(issues, Issue{i, fmt.Sprintf("unrecognized format %q, value will pass through raw", r.Format)})
		}
		if r.Format == FormatSeparator {
			continue
		}
		if r.Template != "" && !strings.Contains(r.Template, valuePlaceholder) {
			issues = append(issues, Issue{i, fmt.Sprintf("template has no %s placeholder, value will be dropped", valuePlaceholder)})
		}
		if strings.Count(r.Template, valuePlaceholder) > 1 {
			issues = append(issues, Issue{i, fmt.Sprintf("template has multiple %s placeholders, only the first is substituted", valuePlaceholder)})
		}
		if issue := lintExpression(r.Expression); issue != "" {
			issues = append(issues, Issue{i, issue})
		}
	}
	return issues
}
