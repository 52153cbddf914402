package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForecastRequiresTwoPoints(t *testing.T) {
	assert.Empty(t, Forecast(nil, "productivity_score", DefaultHorizonDays))
	assert.Empty(t, Forecast(seriesOf("productivity_score", 80), "productivity_score", DefaultHorizonDays))
}

func TestForecastLinearExtrapolation(t *testing.T) {
	// values 10,12,14: average step 2, so projections continue 16,18,...
	points := Forecast(seriesOf("completed_tasks", 10, 12, 14), "completed_tasks", 7)
	require.Len(t, points, 7)
	assert.Equal(t, 16.0, points[0].PredictedValue)
	assert.Equal(t, 18.0, points[1].PredictedValue)
	assert.Equal(t, 30.0, points[6].PredictedValue)
}

func TestForecastDatesFollowLastObservation(t *testing.T) {
	series := seriesOf("total_tasks", 3, 6)
	points := Forecast(series, "total_tasks", 7)
	require.Len(t, points, 7)

	last := series[len(series)-1].Date
	for i, p := range points {
		assert.Equal(t, last.AddDate(0, 0, i+1), p.Date)
	}
}

func TestForecastRoundsFractionalSteps(t *testing.T) {
	// step (11-10)/2 = 0.5: projections 11.5, 12, 12.5 round to 12, 12, 13
	points := Forecast(seriesOf("completed_tasks", 10, 10.5, 11), "completed_tasks", 3)
	require.Len(t, points, 3)
	assert.Equal(t, 12.0, points[0].PredictedValue)
	assert.Equal(t, 12.0, points[1].PredictedValue)
	assert.Equal(t, 13.0, points[2].PredictedValue)
}

func TestForecastDecliningSeriesGoesNegative(t *testing.T) {
	// no clamping: a steep decline forecasts below zero
	points := Forecast(seriesOf("productivity_score", 20, 10, 0), "productivity_score", 3)
	require.Len(t, points, 3)
	assert.Equal(t, -10.0, points[0].PredictedValue)
	assert.Equal(t, -30.0, points[2].PredictedValue)
}

func TestForecastDefaultHorizon(t *testing.T) {
	points := Forecast(seriesOf("total_tasks", 1, 2), "total_tasks", 0)
	assert.Len(t, points, DefaultHorizonDays)
}

func TestForecastFlatSeriesStaysFlat(t *testing.T) {
	points := Forecast(seriesOf("completed_tasks", 8, 8, 8, 8), "completed_tasks", 7)
	require.Len(t, points, 7)
	for _, p := range points {
		assert.Equal(t, 8.0, p.PredictedValue)
	}
}

func TestForecastIgnoresIntermediatePoints(t *testing.T) {
	// average slope uses only the endpoints and series length, not the shape
	spiky := seriesOf("completed_tasks", 10, 100, 1, 14)
	smooth := seriesOf("completed_tasks", 10, 11, 13, 14)
	require.Equal(t, Forecast(spiky, "completed_tasks", 7), Forecast(smooth, "completed_tasks", 7))
}
