package index

import (
	"sort"
	"strings"
)

// SortEntries returns a new slice holding the listing ordered by style and
// dir; the input slice is left untouched.
//
// Directories are grouped before files regardless of style. Each group is
// sorted by the chosen key in ascending order; descending reverses the
// ordered group as a whole, so entries tied under the key keep their
// relative order instead of being re-compared. The parent-navigation entry
// is pinned first regardless of style and direction.
func SortEntries(entries []Entry, style SortStyle, dir SortDir) []Entry {
	var parent []Entry
	var dirs, files []Entry

	for _, entry := range entries {
		switch {
		case entry.IsParent():
			parent = append(parent, entry)
		case entry.IsDir:
			dirs = append(dirs, entry)
		default:
			files = append(files, entry)
		}
	}

	for _, group := range [][]Entry{dirs, files} {
		group := group
		sort.SliceStable(group, func(i, j int) bool {
			return compareEntries(group[i], group[j], style) < 0
		})
		if dir == Descending {
			reverseEntries(group)
		}
	}

	result := make([]Entry, 0, len(entries))
	result = append(result, parent...)
	result = append(result, dirs...)
	result = append(result, files...)
	return result
}

// compareEntries compares two entries of the same group under the chosen
// key. Size and date ties fall back to natural name order so the full
// ordering is deterministic.
func compareEntries(a, b Entry, style SortStyle) int {
	switch style {
	case SortBySize:
		if a.Size != b.Size {
			if a.Size < b.Size {
				return -1
			}
			return 1
		}
	case SortByDate:
		if !a.ModTime.Equal(b.ModTime) {
			if a.ModTime.Before(b.ModTime) {
				return -1
			}
			return 1
		}
	}
	return CompareNatural(a.Name, b.Name)
}

// CompareNatural compares names treating embedded digit runs as numbers,
// so "file2" sorts before "file10". Non-digit runs compare byte-wise and
// case-insensitively; a full literal comparison breaks remaining ties to
// keep the ordering total.
func CompareNatural(a, b string) int {
	ai, bi := 0, 0
	for ai < len(a) && bi < len(b) {
		adigit := isDigit(a[ai])
		bdigit := isDigit(b[bi])

		if adigit != bdigit {
			// A digit run sorts before any non-digit run, matching
			// byte order of '0'-'9' against letters.
			if adigit {
				return -1
			}
			return 1
		}

		arun, an := takeRun(a, ai, adigit)
		brun, bn := takeRun(b, bi, bdigit)

		var c int
		if adigit {
			c = compareNumeric(arun, brun)
		} else {
			c = strings.Compare(strings.ToLower(arun), strings.ToLower(brun))
		}
		if c != 0 {
			return c
		}

		ai, bi = an, bn
	}

	if len(a)-ai != len(b)-bi {
		if len(a)-ai < len(b)-bi {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// compareNumeric compares two digit runs as unsigned integers of arbitrary
// width: strip leading zeros, shorter is smaller, equal lengths compare
// lexicographically.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func takeRun(s string, start int, digits bool) (string, int) {
	end := start
	for end < len(s) && isDigit(s[end]) == digits {
		end++
	}
	return s[start:end], end
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func reverseEntries(entries []Entry) {
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
}
