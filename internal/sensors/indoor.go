package sensors

import (
	"github.com/christocomm/homebridge-ecowitt/internal/domain"
	"github.com/christocomm/homebridge-ecowitt/internal/ports"
)

var indoorFields = []field{
	{src: "tempinf", dst: KeyTemperature, conv: fahrenheitToCelsius},
	{src: "humidityin", dst: KeyHumidity},
	{src: "baromrelin", dst: KeyPressureRel, conv: inHgToHPa},
	{src: "baromabsin", dst: KeyPressureAbs, conv: inHgToHPa},
}

// GW1000 is the base unit itself with its built-in indoor sensor.
type GW1000 struct{ base }

func NewGW1000(d domain.Descriptor) *GW1000 { return &GW1000{base: newBase(d)} }

func (g *GW1000) Update(rec *domain.Record) {
	g.commit(rec, g.apply(rec, indoorFields))
}

// WH25 is the indoor temperature, humidity and pressure sensor.
type WH25 struct{ base }

func NewWH25(d domain.Descriptor) *WH25 { return &WH25{base: newBase(d)} }

func (w *WH25) Update(rec *domain.Record) {
	changed := w.apply(rec, indoorFields)
	if w.binaryBattery(rec, "wh25batt") {
		changed = true
	}
	w.commit(rec, changed)
}

var (
	_ ports.Entity = (*GW1000)(nil)
	_ ports.Entity = (*WH25)(nil)
)
