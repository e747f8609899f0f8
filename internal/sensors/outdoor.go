package sensors

import (
	"github.com/christocomm/homebridge-ecowitt/internal/domain"
	"github.com/christocomm/homebridge-ecowitt/internal/ports"
)

const (
	KeyLightningDistance = "lightning_distance_km"
	KeyLightningCount    = "lightning_count"
	KeyLightningTime     = "lightning_time_unix"

	KeyWindDirection  = "wind_dir_deg"
	KeyWindSpeed      = "wind_speed_ms"
	KeyWindGust       = "wind_gust_ms"
	KeyWindGustMaxDay = "wind_gust_max_daily_ms"
	KeySolarRadiation = "solar_radiation_wm2"
	KeyUVIndex        = "uv_index"
	KeyRainRate       = "rain_rate_mmh"
	KeyRainEvent      = "rain_event_mm"
	KeyRainHourly     = "rain_hourly_mm"
	KeyRainDaily      = "rain_daily_mm"
	KeyRainWeekly     = "rain_weekly_mm"
	KeyRainMonthly    = "rain_monthly_mm"
	KeyRainYearly     = "rain_yearly_mm"
	KeyRainTotal      = "rain_total_mm"
)

// WH57 is the lightning detector. Distance and time are empty until the first strike.
type WH57 struct{ base }

func NewWH57(d domain.Descriptor) *WH57 { return &WH57{base: newBase(d)} }

var wh57Fields = []field{
	{src: "lightning", dst: KeyLightningDistance},
	{src: "lightning_num", dst: KeyLightningCount},
	{src: "lightning_time", dst: KeyLightningTime},
}

func (w *WH57) Update(rec *domain.Record) {
	changed := w.apply(rec, wh57Fields)
	if w.levelBattery(rec, "wh57batt") {
		changed = true
	}
	w.commit(rec, changed)
}

// WH65 is the outdoor 7-in-1 array.
type WH65 struct{ base }

func NewWH65(d domain.Descriptor) *WH65 { return &WH65{base: newBase(d)} }

var wh65Fields = []field{
	{src: "tempf", dst: KeyTemperature, conv: fahrenheitToCelsius},
	{src: "humidity", dst: KeyHumidity},
	{src: "winddir", dst: KeyWindDirection},
	{src: "windspeedmph", dst: KeyWindSpeed, conv: mphToMS},
	{src: "windgustmph", dst: KeyWindGust, conv: mphToMS},
	{src: "maxdailygust", dst: KeyWindGustMaxDay, conv: mphToMS},
	{src: "solarradiation", dst: KeySolarRadiation},
	{src: "uv", dst: KeyUVIndex},
	{src: "rainratein", dst: KeyRainRate, conv: inchToMM},
	{src: "eventrainin", dst: KeyRainEvent, conv: inchToMM},
	{src: "hourlyrainin", dst: KeyRainHourly, conv: inchToMM},
	{src: "dailyrainin", dst: KeyRainDaily, conv: inchToMM},
	{src: "weeklyrainin", dst: KeyRainWeekly, conv: inchToMM},
	{src: "monthlyrainin", dst: KeyRainMonthly, conv: inchToMM},
	{src: "yearlyrainin", dst: KeyRainYearly, conv: inchToMM},
	{src: "totalrainin", dst: KeyRainTotal, conv: inchToMM},
}

func (w *WH65) Update(rec *domain.Record) {
	changed := w.apply(rec, wh65Fields)
	if w.binaryBattery(rec, "wh65batt") {
		changed = true
	}
	w.commit(rec, changed)
}

var (
	_ ports.Entity = (*WH57)(nil)
	_ ports.Entity = (*WH65)(nil)
)
