// Package expr evaluates bracketed-placeholder arithmetic expressions against
// a record, e.g. "({clicks}+{calls})/{impressions}". Placeholders resolve to
// the record's numeric reading or 0. The remaining string is parsed by a
// closed-form recursive-descent parser over numeric literals, + - * / and
// parentheses; nothing else is ever executed.
package expr

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/notecraft/notecraft/engine/core"
	"github.com/notecraft/notecraft/pkg/keynorm"
)

// ErrNonFinite marks evaluations that arithmetically succeed but produce NaN
// or an infinity (division by zero and friends). Callers treat it as a
// missing value.
var ErrNonFinite = errors.New("expression result is not finite")

var placeholderPattern = regexp.MustCompile(`\{([^{}]*)\}`)

// HasPlaceholder reports whether the expression contains a {Field} token and
// must go through Evaluate rather than a direct field lookup.
func HasPlaceholder(expression string) bool {
	return strings.Contains(expression, "{")
}

// Evaluate resolves every {Field} placeholder against rec and evaluates the
// resulting arithmetic string. Missing or non-numeric fields substitute 0.
func Evaluate(expression string, rec core.Record) (float64, error) {
	resolved := placeholderPattern.ReplaceAllStringFunc(expression, func(tok string) string {
		name := tok[1 : len(tok)-1]
		v, ok := rec.Get(keynorm.Normalize(name)).AsNumber()
		if !ok {
			return "0"
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	})
	p := &parser{input: resolved}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return 0, fmt.Errorf("unexpected character %q at position %d", p.input[p.pos], p.pos)
	}
	if !isFinite(v) {
		return 0, ErrNonFinite
	}
	return v, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// -----------------------------------------------------------------------------
// Recursive-descent parser
// -----------------------------------------------------------------------------

// Grammar:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = [ "-" | "+" ] primary
//	primary = number | "(" expr ")"
type parser struct {
	input string
	pos   int
}

func (p *parser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		switch {
		case p.accept('+'):
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left += right
		case p.accept('-'):
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *parser) parseTerm() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		switch {
		case p.accept('*'):
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			left *= right
		case p.accept('/'):
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			left /= right
		default:
			return left, nil
		}
	}
}

func (p *parser) parseUnary() (float64, error) {
	p.skipSpaces()
	if p.accept('-') {
		v, err := p.parseUnary()
		return -v, err
	}
	if p.accept('+') {
		return p.parseUnary()
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (float64, error) {
	p.skipSpaces()
	if p.accept('(') {
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		p.skipSpaces()
		if !p.accept(')') {
			return 0, fmt.Errorf("missing closing parenthesis at position %d", p.pos)
		}
		return v, nil
	}
	return p.parseNumber()
}

func (p *parser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c >= '0' && c <= '9') || c == '.' {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		if p.pos >= len(p.input) {
			return 0, errors.New("unexpected end of expression")
		}
		return 0, fmt.Errorf("unexpected character %q at position %d", p.input[p.pos], p.pos)
	}
	v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed number %q", p.input[start:p.pos])
	}
	return v, nil
}

func (p *parser) accept(c byte) bool {
	if p.pos < len(p.input) && p.input[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}
