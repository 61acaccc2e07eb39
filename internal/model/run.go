package model

import "time"

// Run identifies one pipeline execution.
type Run struct {
	ID        string // uuid
	Prefix    string // output file prefix, e.g. 2026_08_30_manha
	Group     string // manha, tarde, noite
	StartedAt time.Time
}

// RunSummary is the outcome persisted when a run completes.
type RunSummary struct {
	Total       int // leads ingested
	Recommended int // leads that reached the dialing files
	Discarded   int
	Files       int // partition files written
	FinishedAt  time.Time
}
