package analytics

import "time"

// Point is one snapshot in an ordered daily series. Values holds the
// pre-aggregated counters keyed by metric name; the engine never cares which
// scope (department or user) the series belongs to.
type Point struct {
	Date   time.Time
	Values map[string]float64
}

// Anomaly flags an abrupt relative change between two consecutive snapshots.
type Anomaly struct {
	Date     time.Time `json:"date"`
	Metric   string    `json:"metric"`
	Previous float64   `json:"previous"`
	Current  float64   `json:"current"`
	Message  string    `json:"message"`
}

// TrendDirection sign of the change between the first and last snapshot
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// Trend describes the overall direction of one metric across a series.
type Trend struct {
	Metric    string         `json:"metric"`
	Direction TrendDirection `json:"direction"`
	From      float64        `json:"from"`
	To        float64        `json:"to"`
}

// ForecastPoint one projected future value
type ForecastPoint struct {
	Date           time.Time `json:"date"`
	PredictedValue float64   `json:"predicted_value"`
}
