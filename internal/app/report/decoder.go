// Package report turns raw station pushes into canonical records.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/christocomm/homebridge-ecowitt/internal/domain"
)

const (
	// SecretField carries the station passkey in every push.
	SecretField = "PASSKEY"
	// TimeField carries the report time in UTC.
	TimeField = "dateutc"

	timeLayout = "2006-01-02 15:04:05"
)

// Decode authenticates sub against secret and returns its canonical record.
// All fields pass through unchanged; only dateutc is interpreted, and a missing or
// unreadable dateutc falls back to the receive time with Record.TimeIssue set.
func Decode(sub *domain.Submission, secret string) (*domain.Record, error) {
	if sub == nil {
		return nil, &domain.MalformedPayloadError{Reason: "empty payload"}
	}

	key, present := sub.Fields[SecretField]
	got, ok := stringify(key)
	if !present || !ok || got != secret {
		return nil, &domain.AuthenticationError{RemoteAddr: sub.RemoteAddr}
	}

	fields := make(map[string]string, len(sub.Fields))
	for k, v := range sub.Fields {
		s, ok := stringify(v)
		if !ok {
			return nil, &domain.MalformedPayloadError{Field: k, Reason: fmt.Sprintf("unsupported value type %T", v)}
		}
		fields[k] = s
	}

	rec := domain.NewRecord(fields, receiveTime(sub.ReceivedAt))
	raw, ok := fields[TimeField]
	if !ok {
		rec.TimeIssue = fmt.Errorf("%s: missing", TimeField)
		return rec, nil
	}
	ts, err := parseTime(raw, sub.ReceivedAt)
	if err != nil {
		rec.TimeIssue = fmt.Errorf("%s: %w", TimeField, err)
		return rec, nil
	}
	rec.Time = ts
	return rec, nil
}

func receiveTime(received time.Time) time.Time {
	if received.IsZero() {
		return time.Now().UTC()
	}
	return received.UTC()
}

func parseTime(raw string, received time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "now") {
		return receiveTime(received), nil
	}
	// Some firmwares send the space URL-encoded as '+'.
	raw = strings.ReplaceAll(raw, "+", " ")
	ts, err := time.ParseInLocation(timeLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", raw, err)
	}
	return ts, nil
}

func stringify(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case []string:
		if len(val) == 0 {
			return "", true
		}
		return val[0], true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case uint64:
		return strconv.FormatUint(val, 10), true
	case bool:
		return strconv.FormatBool(val), true
	case nil:
		return "", true
	default:
		return "", false
	}
}
