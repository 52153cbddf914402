package analytics

import (
	"fmt"
	"math"
)

// anomalyThreshold relative change between consecutive snapshots above which
// an anomaly is flagged. Fixed policy, strict inequality.
const anomalyThreshold = 0.5

// DetectAnomalies scans an ordered snapshot series for abrupt changes in the
// given metrics. Each adjacent pair is compared; a metric whose relative delta
// exceeds the threshold produces one anomaly. A previous value of zero is
// skipped (relative change undefined). Fewer than two points yields no
// anomalies.
func DetectAnomalies(series []Point, metrics []string) []Anomaly {
	if len(series) < 2 {
		return []Anomaly{}
	}

	anomalies := []Anomaly{}
	for i := 1; i < len(series); i++ {
		prev, curr := series[i-1], series[i]
		for _, metric := range metrics {
			prevVal := prev.Values[metric]
			if prevVal <= 0 {
				continue
			}
			currVal := curr.Values[metric]
			change := math.Abs(currVal-prevVal) / prevVal
			if change > anomalyThreshold {
				anomalies = append(anomalies, Anomaly{
					Date:     curr.Date,
					Metric:   metric,
					Previous: prevVal,
					Current:  currVal,
					Message: fmt.Sprintf("%s changed from %g to %g (%.0f%%)",
						metric, prevVal, currVal, change*100),
				})
			}
		}
	}
	return anomalies
}

// DetectTrend compares the first and last snapshot of a series for one metric.
// The sign of the delta determines the direction; a zero delta is stable.
// Returns false when the series has fewer than two points.
func DetectTrend(series []Point, metric string) (Trend, bool) {
	if len(series) < 2 {
		return Trend{}, false
	}

	from := series[0].Values[metric]
	to := series[len(series)-1].Values[metric]

	direction := TrendStable
	switch {
	case to > from:
		direction = TrendIncreasing
	case to < from:
		direction = TrendDecreasing
	}

	return Trend{
		Metric:    metric,
		Direction: direction,
		From:      from,
		To:        to,
	}, true
}
