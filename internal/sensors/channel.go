package sensors

import (
	"github.com/christocomm/homebridge-ecowitt/internal/domain"
	"github.com/christocomm/homebridge-ecowitt/internal/ports"
)

const (
	KeyPM25         = "pm25_ugm3"
	KeyPM25Avg24h   = "pm25_avg_24h_ugm3"
	KeySoilMoisture = "soil_moisture_pct"
	KeyLeak         = "leak"
)

// WH31 is a multi-channel temperature and humidity probe.
type WH31 struct{ base }

func NewWH31(d domain.Descriptor) *WH31 { return &WH31{base: newBase(d)} }

var wh31Fields = []field{
	{src: "temp%df", dst: KeyTemperature, conv: fahrenheitToCelsius},
	{src: "humidity%d", dst: KeyHumidity},
}

func (w *WH31) Update(rec *domain.Record) {
	changed := w.apply(rec, wh31Fields)
	if w.binaryBattery(rec, "batt%d") {
		changed = true
	}
	w.commit(rec, changed)
}

// WH41 is a PM2.5 air quality sensor.
type WH41 struct{ base }

func NewWH41(d domain.Descriptor) *WH41 { return &WH41{base: newBase(d)} }

var wh41Fields = []field{
	{src: "pm25_ch%d", dst: KeyPM25},
	{src: "pm25_avg_24h_ch%d", dst: KeyPM25Avg24h},
}

func (w *WH41) Update(rec *domain.Record) {
	changed := w.apply(rec, wh41Fields)
	if w.levelBattery(rec, "pm25batt%d") {
		changed = true
	}
	w.commit(rec, changed)
}

// WH51 is a soil moisture probe running on a single AA cell.
type WH51 struct{ base }

func NewWH51(d domain.Descriptor) *WH51 { return &WH51{base: newBase(d)} }

var wh51Fields = []field{
	{src: "soilmoisture%d", dst: KeySoilMoisture},
}

func (w *WH51) Update(rec *domain.Record) {
	changed := w.apply(rec, wh51Fields)
	if w.voltageBattery(rec, "soilbatt%d", 1.2) {
		changed = true
	}
	w.commit(rec, changed)
}

// WH55 is a water leak detector.
type WH55 struct{ base }

func NewWH55(d domain.Descriptor) *WH55 { return &WH55{base: newBase(d)} }

func (w *WH55) Update(rec *domain.Record) {
	changed := false
	if v, ok := w.read(rec, "leak_ch%d"); ok {
		w.set(KeyLeak, boolValue(v != 0))
		changed = true
	}
	if w.levelBattery(rec, "leakbatt%d") {
		changed = true
	}
	w.commit(rec, changed)
}

// Leaking reports the last known leak state.
func (w *WH55) Leaking() bool {
	v, _ := w.Value(KeyLeak)
	return v != 0
}

var (
	_ ports.Entity = (*WH31)(nil)
	_ ports.Entity = (*WH41)(nil)
	_ ports.Entity = (*WH51)(nil)
	_ ports.Entity = (*WH55)(nil)
)
