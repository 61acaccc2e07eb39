package model

import "time"

// HistoryEntry is one contact-center disposition record from the external
// ledger. Latest marks the newest treatment of a case; Closed marks a case
// with a final disposition (open cases are still being worked).
type HistoryEntry struct {
	Phone       string // normalized contact phone
	LastContact time.Time
	Disposition string
	Latest      bool
	Closed      bool
	Queue       string
}

// ContactState classifies the most recent retained ledger entry for a phone.
type ContactState string

const (
	ContactInProgress    ContactState = "in-progress"
	ContactRecentSuccess ContactState = "recent-success"
	ContactRecentContact ContactState = "recent-contact"
	ContactReleased      ContactState = "released"
)

// HistoryFlags are the three history-derived discard predicates for a phone.
// A phone absent from the ledger gets the zero value (all false).
type HistoryFlags struct {
	ActiveContact bool
	RecentSuccess bool
	RecentContact bool
}
