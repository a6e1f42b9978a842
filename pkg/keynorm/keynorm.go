// Package keynorm canonicalizes header strings and rule expression keys into
// stable lookup keys. It is the single join point between heterogeneous header
// spellings: "CVR Last Month – Google" and "cvr_last_month_google" normalize
// to the same key.
package keynorm

import "strings"

// Normalize lowercases the input and strips every rune outside [a-z0-9].
// Empty input yields "". Normalize is idempotent.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToLower(raw) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
