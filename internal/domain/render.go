package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Extension is appended to every rendered filename that lacks it
const Extension = ".png"

// EnsureExtension appends .png unless the name already ends with it in any case
func EnsureExtension(name string) string {
	if strings.HasSuffix(strings.ToLower(name), Extension) {
		return name
	}
	return name + Extension
}

// resolution is the outcome of substituting a template without side effects
type resolution struct {
	filename string
	counters []string // distinct counter references in first-appearance order
}

// resolve substitutes every token. It never touches the store.
func resolve(template string, now time.Time, counters *CounterStore) (*resolution, error) {
	parts, err := scanTemplate(template)
	if err != nil {
		return nil, err
	}

	res := &resolution{}
	seen := make(map[string]bool)
	var sb strings.Builder

	for _, p := range parts {
		if !p.token {
			sb.WriteString(p.text)
			continue
		}
		if v, ok := ResolveToken(p.text, now); ok {
			sb.WriteString(v)
			continue
		}
		c, ok := counters.Get(p.text)
		if !ok {
			return nil, &UnresolvedTokenError{Name: p.text}
		}
		sb.WriteString(strconv.Itoa(c.Value))
		if !seen[p.text] {
			seen[p.text] = true
			res.counters = append(res.counters, p.text)
		}
	}

	res.filename = EnsureExtension(sb.String())
	return res, nil
}

// Preview renders the filename a save would produce now, without advancing counters
func Preview(template string, now time.Time, counters *CounterStore) (string, error) {
	res, err := resolve(template, now, counters)
	if err != nil {
		return "", err
	}
	return res.filename, nil
}

// PreviewOrDiagnostic is Preview for display surfaces: failures become a
// readable "invalid pattern" string instead of an error.
func PreviewOrDiagnostic(template string, now time.Time, counters *CounterStore) string {
	name, err := Preview(template, now, counters)
	if err != nil {
		return fmt.Sprintf("invalid pattern: %v", err)
	}
	return name
}

// Commit renders the filename and advances every distinct referenced counter
// exactly once, however often it appears. Counters are only advanced after
// the whole template resolved, so a failure leaves the store untouched.
func Commit(template string, now time.Time, counters *CounterStore) (string, error) {
	res, err := resolve(template, now, counters)
	if err != nil {
		return "", err
	}
	for _, name := range res.counters {
		if _, err := counters.Increment(name); err != nil {
			return "", err
		}
	}
	return res.filename, nil
}

// ReferencedCounters lists the distinct counter names a template uses
func ReferencedCounters(template string, counters *CounterStore) []string {
	parts, err := scanTemplate(template)
	if err != nil {
		return nil
	}
	seen := make(map[string]bool)
	var names []string
	for _, p := range parts {
		if !p.token || IsBuiltinToken(p.text) || seen[p.text] {
			continue
		}
		if counters.Exists(p.text) {
			seen[p.text] = true
			names = append(names, p.text)
		}
	}
	return names
}
