// Package dedupe computes per-key occurrence ordinals over a fully
// materialized batch.
package dedupe

// Ordinals assigns each key its 1-based occurrence position within the batch,
// in input order. Re-running over the same slice yields the same ordinals.
//
// Absent (empty) keys are deliberately not grouped: every record without a
// key gets ordinal 1. Grouping them would mark all key-less records past the
// first as duplicates of one another, which is never the intent for optional
// columns like the national ID.
func Ordinals(keys []string) []int {
	ordinals := make([]int, len(keys))
	seen := make(map[string]int, len(keys))
	for i, key := range keys {
		if key == "" {
			ordinals[i] = 1
			continue
		}
		seen[key]++
		ordinals[i] = seen[key]
	}
	return ordinals
}
