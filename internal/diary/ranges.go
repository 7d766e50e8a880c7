package diary

import "time"

// DateRange is an inclusive span of consecutive calendar days. Later is the
// more recent bound.
type DateRange struct {
	Later   time.Time
	Earlier time.Time
}

// Contains reports whether the day is inside the range, inclusive on both ends.
func (r DateRange) Contains(date time.Time) bool {
	return !date.Before(r.Earlier) && !date.After(r.Later)
}

// ComputeRanges produces iterations windows of windowSize days each, walking
// backward from fromDate. The windows are descending, contiguous and
// non-overlapping: for ComputeRanges(2000-05-30, 5, 3) the result is
// [(05-30,05-26), (05-25,05-21), (05-20,05-16)].
//
// windowSize or iterations of zero yield an empty result; rejecting such
// input is the caller's job.
func ComputeRanges(fromDate time.Time, windowSize, iterations int) []DateRange {
	fromDate = Day(fromDate)
	ranges := make([]DateRange, 0, iterations)
	for i := 0; i < iterations; i++ {
		later := addDays(fromDate, -i*windowSize)
		ranges = append(ranges, DateRange{
			Later:   later,
			Earlier: addDays(later, -(windowSize - 1)),
		})
	}
	return ranges
}

// missingInSequence merges the sorted stream of existing dates against the
// expected daily sequence [from, until] and collects every expected day not
// present. Both backends report missing dates through this.
func missingInSequence(existing []time.Time, from, until time.Time) []time.Time {
	var missing []time.Time
	current := from
	for _, present := range existing {
		for !current.After(until) {
			day := current
			current = addDays(current, 1)
			if present.Equal(day) {
				break
			}
			missing = append(missing, day)
		}
	}
	// Remaining days past the last existing entry.
	for !current.After(until) {
		missing = append(missing, current)
		current = addDays(current, 1)
	}
	return missing
}
