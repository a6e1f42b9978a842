package core

import (
	"fmt"
	"sort"
	"strings"
)

// Error codes surfaced by the annotation engine. Per-rule and per-record
// failures are swallowed inside the engine; only structural failures carry
// these codes out to callers.
const (
	ErrCodeMissingSource  = "MISSING_SOURCE"
	ErrCodeMalformedRule  = "MALFORMED_RULE"
	ErrCodeEmptyTargetSet = "EMPTY_TARGET_SET"
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeWriteFailed    = "WRITE_FAILED"
)

// Error wraps a failure with a stable code and structured details.
type Error struct {
	Err     error          `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// NewError builds a coded error. err may be nil when the code and details
// carry the whole story.
func NewError(err error, code string, details map[string]any) *Error {
	e := &Error{Err: err, Code: code, Details: details}
	if err != nil {
		e.Message = err.Error()
	}
	return e
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Code)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, e.Details[k]))
		}
		b.WriteString(" (")
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString(")")
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}
