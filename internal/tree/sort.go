package tree

import (
	"sort"

	"github.com/fvbommel/sortorder"

	"treels/pkg/types"
)

// Sort orders one sibling group in place: first by the configured key,
// then the reverse post-step, then the directories-first stable
// partition. Reversal inverts whatever the key produced, so it composes
// predictably with the partition that follows it.
func Sort(entries []types.Entry, key types.SortKey, reverse, dirsFirst bool) {
	switch key {
	case types.SortTime:
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].ModTime.Equal(entries[j].ModTime) {
				return entries[i].Name < entries[j].Name
			}
			return entries[i].ModTime.Before(entries[j].ModTime)
		})
	case types.SortVersion:
		sort.SliceStable(entries, func(i, j int) bool {
			a, b := entries[i].Name, entries[j].Name
			if !sortorder.NaturalLess(a, b) && !sortorder.NaturalLess(b, a) {
				return a < b
			}
			return sortorder.NaturalLess(a, b)
		})
	default:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Name < entries[j].Name
		})
	}

	if reverse {
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
	}

	if dirsFirst {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].IsDir() && !entries[j].IsDir()
		})
	}
}
