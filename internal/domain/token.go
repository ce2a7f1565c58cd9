package domain

import "time"

// Built-in token names
const (
	TokenDate      = "date"
	TokenTime      = "time"
	TokenTimestamp = "timestamp"
	TokenDateShort = "date_short"
	TokenTime12h   = "time_12h"
	TokenYear      = "year"
)

// TokenSpec describes a built-in time-derived token
type TokenSpec struct {
	Name    string
	Label   string
	Example string // Human-readable format, e.g. YYYY-MM-DD
	layout  string
}

// BuiltinTokens lists the catalog in palette order
var BuiltinTokens = []TokenSpec{
	{Name: TokenDate, Label: "Date", Example: "YYYY-MM-DD", layout: "2006-01-02"},
	{Name: TokenTime, Label: "Time", Example: "HH-MM-SS", layout: "15-04-05"},
	{Name: TokenTimestamp, Label: "Timestamp", Example: "YYYY-MM-DD_HH-MM-SS", layout: "2006-01-02_15-04-05"},
	{Name: TokenDateShort, Label: "Date Short", Example: "YYYYMMDD", layout: "20060102"},
	{Name: TokenTime12h, Label: "Time 12h", Example: "HH-MM-SS AM/PM", layout: "03-04-05 PM"},
	{Name: TokenYear, Label: "Year", Example: "YYYY", layout: "2006"},
}

var tokenLayouts = func() map[string]string {
	m := make(map[string]string, len(BuiltinTokens))
	for _, t := range BuiltinTokens {
		m[t.Name] = t.layout
	}
	return m
}()

// IsBuiltinToken reports whether name is a catalog token
func IsBuiltinToken(name string) bool {
	_, ok := tokenLayouts[name]
	return ok
}

// ResolveToken formats a built-in token against now.
// The second return value is false for names outside the catalog.
func ResolveToken(name string, now time.Time) (string, bool) {
	layout, ok := tokenLayouts[name]
	if !ok {
		return "", false
	}
	return now.Format(layout), true
}
