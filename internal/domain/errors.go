package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication marks reports whose PASSKEY does not belong to this station.
	ErrAuthentication = errors.New("report not for this station")
	// ErrMalformedPayload marks reports missing fields required for decoding.
	ErrMalformedPayload = errors.New("malformed report payload")
	// ErrUnknownSensorType marks descriptors without an entity constructor.
	ErrUnknownSensorType = errors.New("unknown sensor type")
)

// AuthenticationError is returned when a report's secret does not match.
type AuthenticationError struct {
	RemoteAddr string
}

func (e *AuthenticationError) Error() string {
	if e.RemoteAddr == "" {
		return ErrAuthentication.Error()
	}
	return fmt.Sprintf("%s (from %s)", ErrAuthentication, e.RemoteAddr)
}

func (e *AuthenticationError) Unwrap() error { return ErrAuthentication }

// MalformedPayloadError names the field that made a report undecodable.
type MalformedPayloadError struct {
	Field  string
	Reason string
}

func (e *MalformedPayloadError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrMalformedPayload, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrMalformedPayload, e.Field, e.Reason)
}

func (e *MalformedPayloadError) Unwrap() error { return ErrMalformedPayload }

// UnknownSensorTypeError is reported for a single descriptor; reconciliation continues.
type UnknownSensorTypeError struct {
	Descriptor Descriptor
}

func (e *UnknownSensorTypeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownSensorType, e.Descriptor)
}

func (e *UnknownSensorTypeError) Unwrap() error { return ErrUnknownSensorType }
