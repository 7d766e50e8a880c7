package diary

import (
	"sort"
	"strconv"
	"strings"
)

// signatureKey derives the canonical string form of a day signature: the
// active category ids, sorted ascending and joined with commas. An empty set
// (a tracked day with nothing marked) keys to the empty string.
func signatureKey(categoryIDs []int64) string {
	ids := make([]int64, len(categoryIDs))
	copy(ids, categoryIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}

func signatureIDs(key string) []int64 {
	if key == "" {
		return nil
	}
	parts := strings.Split(key, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			// Keys only come from signatureKey, so this cannot happen.
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// rankSignatures orders signature occurrence counts descending and applies
// the limit. Equal counts are broken by the lexicographic order of the
// signature key, so the ranking is deterministic across backends.
func rankSignatures(counts map[string]int, limit int) []Signature {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	result := make([]Signature, 0, len(keys))
	for _, key := range keys {
		result = append(result, Signature{CategoryIDs: signatureIDs(key), Count: counts[key]})
	}
	return result
}
