package model

// DiscardFlag names one exclusion predicate. The names are stable: they are
// used in reports and in the persisted dataset.
type DiscardFlag string

const (
	DiscardCity           DiscardFlag = "city"
	DiscardPhoneInvalid   DiscardFlag = "phone-invalid"
	DiscardCPFDuplicate   DiscardFlag = "id-duplicate"
	DiscardPhoneDuplicate DiscardFlag = "phone-duplicate"
	DiscardUnderage       DiscardFlag = "underage"
	DiscardEducation      DiscardFlag = "education-insufficient"
	DiscardActiveContact  DiscardFlag = "active-contact"
	DiscardRecentSuccess  DiscardFlag = "recent-success"
	DiscardRecentContact  DiscardFlag = "recent-contact-7d"
)

// DiscardPriority is the fixed reporting order: when several predicates are
// true, only the first one in this order is attributed.
var DiscardPriority = []DiscardFlag{
	DiscardCity,
	DiscardPhoneInvalid,
	DiscardCPFDuplicate,
	DiscardPhoneDuplicate,
	DiscardUnderage,
	DiscardEducation,
	DiscardActiveContact,
	DiscardRecentSuccess,
	DiscardRecentContact,
}

// DiscardSet holds the true predicates for one lead. Only true flags are
// stored.
type DiscardSet map[DiscardFlag]bool

// Set marks flag as true. A nil set is allocated on first use by the caller.
func (s DiscardSet) Set(flag DiscardFlag) {
	s[flag] = true
}

// Has reports whether flag is set.
func (s DiscardSet) Has(flag DiscardFlag) bool {
	return s[flag]
}

// FirstReason returns the highest-priority true flag, or "" when the lead is
// recommended. Evaluation walks DiscardPriority with early exit so the
// reporting order stays an explicit contract.
func (s DiscardSet) FirstReason() DiscardFlag {
	for _, flag := range DiscardPriority {
		if s[flag] {
			return flag
		}
	}
	return ""
}
