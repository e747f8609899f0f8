package domain

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
)

var firmwarePattern = regexp.MustCompile(`^GW\d+[A-Z]?_(.+)$`)

// StationIdentity describes the base unit reports are authenticated against.
type StationIdentity struct {
	SerialNumber     string `json:"serial_number"`
	Model            string `json:"model"`
	HardwareRevision string `json:"hardware_revision"`
	SoftwareRevision string `json:"software_revision"`
	FirmwareRevision string `json:"firmware_revision"`
	Frequency        string `json:"frequency"`
	Secret           string `json:"-"`
}

// NewStationIdentity derives the identity, including the shared secret, from the
// configured station address.
func NewStationIdentity(mac string) StationIdentity {
	return StationIdentity{
		SerialNumber: mac,
		Secret:       Passkey(mac),
	}
}

// Passkey is the uppercase hex MD5 of the station address. The base unit sends it as
// PASSKEY with every report.
func Passkey(mac string) string {
	sum := md5.Sum([]byte(mac))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// Observe fills the descriptive fields from a report. Secret and SerialNumber are
// never touched.
func (s *StationIdentity) Observe(rec *Record) {
	model, _ := rec.String("model")
	stationType, _ := rec.String("stationtype")
	freq, _ := rec.String("freq")

	s.Model = model
	s.HardwareRevision = model
	if s.HardwareRevision == "" {
		s.HardwareRevision = stationType
	}
	s.SoftwareRevision = stationType
	s.Frequency = freq
	s.FirmwareRevision = FirmwareRevision(s.HardwareRevision)
}

// FirmwareRevision extracts the version suffix of a hardware revision such as
// "GW1000A_V1.6.8". It returns "" when the revision does not follow that pattern.
func FirmwareRevision(hw string) string {
	m := firmwarePattern.FindStringSubmatch(hw)
	if m == nil {
		return ""
	}
	return m[1]
}
