package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/people-analytics/mailing-cli/internal/model"
)

var historyNow = time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

func entry(phone string, daysAgo int, disposition string, closed bool) model.HistoryEntry {
	return model.HistoryEntry{
		Phone:       phone,
		LastContact: historyNow.AddDate(0, 0, -daysAgo),
		Disposition: disposition,
		Closed:      closed,
		Latest:      true,
	}
}

func TestClassify(t *testing.T) {
	cfg := Config{}

	tests := []struct {
		name  string
		entry model.HistoryEntry
		want  model.ContactState
	}{
		{"open case is in progress", entry("p", 1, "qualquer", false), model.ContactInProgress},
		{"success inside 30 days", entry("p", 20, "Contato COM Sucesso", true), model.ContactRecentSuccess},
		{"success outside 30 days falls through", entry("p", 31, "Contato COM Sucesso", true), model.ContactReleased},
		{"any contact inside 7 days", entry("p", 5, "Sem Resposta", true), model.ContactRecentContact},
		{"old contact released", entry("p", 8, "Sem Resposta", true), model.ContactReleased},
		{"success on day 30 still blocks", entry("p", 30, "Contato COM Sucesso", true), model.ContactRecentSuccess},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.entry, historyNow, cfg))
		})
	}
}

func TestReconcileLatestDateWins(t *testing.T) {
	// Two retained entries for one phone: only the newer one decides.
	old := entry("34991234567", 40, "Contato COM Sucesso", true)
	recent := entry("34991234567", 3, "Sem Resposta", true)

	flags := Reconcile([]model.HistoryEntry{old, recent}, historyNow, Config{})
	assert.Equal(t, model.HistoryFlags{RecentContact: true}, flags["34991234567"])

	// Order independence: same result with the slice reversed.
	flags = Reconcile([]model.HistoryEntry{recent, old}, historyNow, Config{})
	assert.Equal(t, model.HistoryFlags{RecentContact: true}, flags["34991234567"])
}

func TestReconcileFilters(t *testing.T) {
	inbound := entry("1111111111", 1, "x", false)
	inbound.Queue = "Receptivo"

	notLatest := entry("2222222222", 1, "x", false)
	notLatest.Latest = false

	released := entry("3333333333", 90, "Sem Resposta", true)

	flags := Reconcile([]model.HistoryEntry{inbound, notLatest, released}, historyNow, Config{})
	assert.Empty(t, flags)
}

func TestMerge(t *testing.T) {
	blocked := &model.Lead{Phone: "34991234567"}
	free := &model.Lead{Phone: "34999999999"}
	noPhone := &model.Lead{}

	flags := map[string]model.HistoryFlags{
		"34991234567": {ActiveContact: true},
	}
	Merge([]*model.Lead{blocked, free, noPhone}, flags)

	assert.True(t, blocked.Flags.Has(model.DiscardActiveContact))
	assert.True(t, free.Recommended())
	assert.True(t, noPhone.Recommended())
}
