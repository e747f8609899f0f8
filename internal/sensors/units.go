package sensors

import "math"

func fahrenheitToCelsius(f float64) float64 { return round((f-32)*5/9, 1) }

func inHgToHPa(v float64) float64 { return round(v*33.8639, 1) }

func mphToMS(v float64) float64 { return round(v*0.44704, 2) }

func inchToMM(v float64) float64 { return round(v*25.4, 1) }

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
