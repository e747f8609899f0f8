package domain

import (
	"strconv"
	"strings"
	"time"
)

// Record is the canonical, authenticated form of one station report.
// Field values are kept verbatim; typed access goes through the helpers.
type Record struct {
	Fields map[string]string
	Time   time.Time

	// TimeIssue is set when dateutc was missing or unparseable and Time is the
	// receive time instead.
	TimeIssue error
}

// NewRecord copies fields into a new Record.
func NewRecord(fields map[string]string, ts time.Time) *Record {
	cp := make(map[string]string, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return &Record{Fields: cp, Time: ts}
}

// Has reports whether key was present in the report, even with an empty value.
func (r *Record) Has(key string) bool {
	if r == nil {
		return false
	}
	_, ok := r.Fields[key]
	return ok
}

// String returns the raw value of key.
func (r *Record) String(key string) (string, bool) {
	if r == nil {
		return "", false
	}
	v, ok := r.Fields[key]
	return v, ok
}

// Float parses key as a float. Missing, empty and non-numeric values report false.
func (r *Record) Float(key string) (float64, bool) {
	raw, ok := r.String(key)
	if !ok {
		return 0, false
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Fields)
}
