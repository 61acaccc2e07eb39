// Package history reconciles the contact-center disposition ledger against
// the lead batch, suppressing leads already in active or recent outreach.
package history

import (
	"time"

	"github.com/people-analytics/mailing-cli/internal/model"
)

// Config tunes the ledger classification. Zero values fall back to the
// production defaults.
type Config struct {
	InboundQueue       string // entries from this queue are ignored
	SuccessDisposition string // disposition code marking a successful contact
	SuccessWindowDays  int    // suppression window after a success
	ContactWindowDays  int    // suppression window after any contact
}

func (c Config) withDefaults() Config {
	if c.InboundQueue == "" {
		c.InboundQueue = "Receptivo"
	}
	if c.SuccessDisposition == "" {
		c.SuccessDisposition = "Contato COM Sucesso"
	}
	if c.SuccessWindowDays == 0 {
		c.SuccessWindowDays = 30
	}
	if c.ContactWindowDays == 0 {
		c.ContactWindowDays = 7
	}
	return c
}

// Classify buckets one retained ledger entry into exactly one contact state.
func Classify(e model.HistoryEntry, now time.Time, cfg Config) model.ContactState {
	cfg = cfg.withDefaults()
	switch {
	case !e.Closed:
		return model.ContactInProgress
	case e.Disposition == cfg.SuccessDisposition &&
		!now.After(e.LastContact.AddDate(0, 0, cfg.SuccessWindowDays)):
		return model.ContactRecentSuccess
	case !now.After(e.LastContact.AddDate(0, 0, cfg.ContactWindowDays)):
		return model.ContactRecentContact
	default:
		return model.ContactReleased
	}
}

// Reconcile reduces the ledger to one flag set per phone. Only entries
// marked as the latest treatment of their case and outside the inbound queue
// are considered; among those, the entry with the newest contact date wins,
// first seen winning ties so the result is deterministic.
func Reconcile(entries []model.HistoryEntry, now time.Time, cfg Config) map[string]model.HistoryFlags {
	cfg = cfg.withDefaults()

	latest := make(map[string]model.HistoryEntry)
	for _, e := range entries {
		if !e.Latest || e.Queue == cfg.InboundQueue || e.Phone == "" {
			continue
		}
		prev, ok := latest[e.Phone]
		if !ok || e.LastContact.After(prev.LastContact) {
			latest[e.Phone] = e
		}
	}

	flags := make(map[string]model.HistoryFlags, len(latest))
	for phone, e := range latest {
		switch Classify(e, now, cfg) {
		case model.ContactInProgress:
			flags[phone] = model.HistoryFlags{ActiveContact: true}
		case model.ContactRecentSuccess:
			flags[phone] = model.HistoryFlags{RecentSuccess: true}
		case model.ContactRecentContact:
			flags[phone] = model.HistoryFlags{RecentContact: true}
		}
	}
	return flags
}

// Merge left-joins the reconciled flags onto the leads by normalized phone.
// Leads without a ledger entry keep all history flags false.
func Merge(leads []*model.Lead, flags map[string]model.HistoryFlags) {
	for _, l := range leads {
		hf, ok := flags[l.Phone]
		if !ok {
			continue
		}
		if l.Flags == nil {
			l.Flags = make(model.DiscardSet)
		}
		if hf.ActiveContact {
			l.Flags.Set(model.DiscardActiveContact)
		}
		if hf.RecentSuccess {
			l.Flags.Set(model.DiscardRecentSuccess)
		}
		if hf.RecentContact {
			l.Flags.Set(model.DiscardRecentContact)
		}
	}
}
