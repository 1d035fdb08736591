package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	MatchesRecorded    prometheus.Counter
	MatchesDeleted     prometheus.Counter
	SummariesGenerated prometheus.Counter
	SummariesFailed    prometheus.Counter
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	ProcessingDuration prometheus.Histogram
	StartupTimeSeconds prometheus.Gauge
}

// Keys for the persisted lifetime counters.
const (
	KeyMatchesRecorded = "matches_recorded"
	KeyMatchesDeleted  = "matches_deleted"
)
