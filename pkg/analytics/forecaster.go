package analytics

import "math"

// DefaultHorizonDays forecast window used by all engine instantiations
const DefaultHorizonDays = 7

// Forecast projects future values for one metric by linear extrapolation:
// the average step is the total change over the series divided by the number
// of steps, and each projected day adds one more step to the last observed
// value. Projections are rounded to the nearest integer but deliberately not
// clamped, so a declining series can forecast negative values. Fewer than two
// points yields no forecast.
func Forecast(series []Point, metric string, horizonDays int) []ForecastPoint {
	if len(series) < 2 {
		return []ForecastPoint{}
	}
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	first := series[0].Values[metric]
	last := series[len(series)-1].Values[metric]
	avgStep := (last - first) / float64(len(series)-1)

	lastDate := series[len(series)-1].Date
	points := make([]ForecastPoint, 0, horizonDays)
	for i := 1; i <= horizonDays; i++ {
		points = append(points, ForecastPoint{
			Date:           lastDate.AddDate(0, 0, i),
			PredictedValue: math.Round(last + avgStep*float64(i)),
		})
	}
	return points
}
