package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christocomm/homebridge-ecowitt"
)

func TestPasskeyCommand(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, passkeyCommand([]string{"-mac", " AA:BB:CC:DD:EE:FF "}, &buf))
	assert.Equal(t, ecowitt.Passkey("AA:BB:CC:DD:EE:FF")+"\n", buf.String())

	assert.Error(t, passkeyCommand(nil, &buf), "missing -mac must fail")
}

func TestScanMetrics(t *testing.T) {
	exposition := `# HELP ecowitt_reports_accepted_total Reports that passed authentication and parsing.
# TYPE ecowitt_reports_accepted_total counter
ecowitt_reports_accepted_total 12
ecowitt_inventory_size 4
ecowitt_queue_length 0
go_goroutines 9
`
	got, err := scanMetrics(strings.NewReader(exposition), statKeys)
	require.NoError(t, err)
	assert.Equal(t, 12.0, got["ecowitt_reports_accepted_total"])
	assert.Equal(t, 4.0, got["ecowitt_inventory_size"])
	assert.NotContains(t, got, "go_goroutines")
}
