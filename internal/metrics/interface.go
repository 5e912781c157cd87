package metrics

// Metrics defines the interface for collecting application metrics.
type Metrics interface {
	IncRecordsSubmitted(matchType string)
	IncRecordsEdited()
	IncRecordsDeleted()
	ObserveLeaderboardDuration(duration float64)
	IncFailedLogins()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// CounterStore keeps lifetime totals in the database so they survive restarts.
type CounterStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
