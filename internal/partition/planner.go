// Package partition assigns leads to named output buckets and splits each
// bucket into dialing files of bounded size.
package partition

import (
	"sort"
	"strings"

	"github.com/people-analytics/mailing-cli/internal/model"
	"github.com/people-analytics/mailing-cli/internal/normalize"
)

// DefaultBucket is the source-break label for leads whose source matches no
// configured break substring.
const DefaultBucket = "DEMAIS"

// DefaultRowCap is the dialing system's hard limit of rows per import file.
const DefaultRowCap = 100

// Key derives the partition key for one lead: the first configured break
// substring found in the cleaned source tag (or DefaultBucket), joined with
// the upper-cased city tag.
func Key(cityTag, sourceTag string, breaks []string) string {
	label := DefaultBucket
	cleanedSource := normalize.Clean(sourceTag)
	for _, br := range breaks {
		if strings.Contains(cleanedSource, strings.ToLower(br)) {
			label = br
			break
		}
	}
	return label + "_" + strings.ToUpper(normalize.Clean(cityTag))
}

// ChunkSize resolves the tension between the caller's target file count and
// the row cap: aim for ceil(total/target) rows per file, but never exceed
// the cap — when the target would, the file count grows instead.
func ChunkSize(total, target, cap int) (size, files int) {
	if total <= 0 {
		return 0, 0
	}
	if target <= 0 {
		target = 1
	}
	if cap <= 0 {
		cap = DefaultRowCap
	}

	size = ceilDiv(total, target)
	files = target
	if size > cap {
		size = cap
		files = ceilDiv(total, cap)
	}
	return size, files
}

// Plan is one partition with its ordered member leads split into chunks.
type Plan struct {
	Key    string
	Leads  []*model.Lead
	Chunks [][]*model.Lead
}

// Assign stamps every lead with its partition key.
func Assign(leads []*model.Lead, breaks []string) {
	for _, l := range leads {
		l.PartitionKey = Key(l.City, l.SourceTag, breaks)
	}
}

// Build groups the leads by partition key (keys sorted for stable output)
// and chunks each group. target may be overridden per partition key via
// targetOverrides; rowCap applies everywhere.
func Build(leads []*model.Lead, target, rowCap int, targetOverrides map[string]int) []Plan {
	groups := make(map[string][]*model.Lead)
	for _, l := range leads {
		groups[l.PartitionKey] = append(groups[l.PartitionKey], l)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	plans := make([]Plan, 0, len(keys))
	for _, key := range keys {
		members := groups[key]

		t := target
		if override, ok := targetOverrides[key]; ok {
			t = override
		}
		size, files := ChunkSize(len(members), t, rowCap)

		chunks := make([][]*model.Lead, 0, files)
		for start := 0; start < len(members); start += size {
			end := start + size
			if end > len(members) {
				end = len(members)
			}
			chunks = append(chunks, members[start:end])
		}
		plans = append(plans, Plan{Key: key, Leads: members, Chunks: chunks})
	}
	return plans
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
