package output

import "sort"

// SortRecords orders records by sample name, then run ID (for --sort).
func SortRecords(list []Record) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Sample != list[j].Sample {
			return list[i].Sample < list[j].Sample
		}
		return list[i].RunID < list[j].RunID
	})
}
