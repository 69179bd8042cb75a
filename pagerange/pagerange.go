// Package pagerange translates user-supplied page selectors into zero-based
// page indices. The parser is deliberately permissive: malformed or
// out-of-range entries are dropped, never reported.
package pagerange

import (
	"strconv"
	"strings"
)

// Parse expands a comma-separated selector mixing 1-based single pages and
// inclusive ranges ("1-3,5") into de-duplicated zero-based indices, filtered
// to [0, pageCount). Entries that fail to parse, reversed ranges and indices
// outside the document are silently skipped. Order of first occurrence is
// preserved.
func Parse(expr string, pageCount int) []int {
	out := make([]int, 0, pageCount)
	seen := make(map[int]bool)
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, ok := parseEntry(part)
		if !ok {
			continue
		}
		for p := lo; p <= hi; p++ {
			idx := p - 1
			if idx < 0 || idx >= pageCount || seen[idx] {
				continue
			}
			seen[idx] = true
			out = append(out, idx)
		}
	}
	return out
}

func parseEntry(part string) (lo, hi int, ok bool) {
	if i := strings.IndexByte(part, '-'); i >= 0 {
		a, err1 := strconv.Atoi(strings.TrimSpace(part[:i]))
		b, err2 := strconv.Atoi(strings.TrimSpace(part[i+1:]))
		if err1 != nil || err2 != nil || a > b {
			return 0, 0, false
		}
		return a, b, true
	}
	n, err := strconv.Atoi(part)
	if err != nil {
		return 0, 0, false
	}
	return n, n, true
}

// FromIndices filters a literal list of 1-based page numbers to valid,
// de-duplicated zero-based indices, preserving order of first occurrence.
func FromIndices(pages []int, pageCount int) []int {
	out := make([]int, 0, len(pages))
	seen := make(map[int]bool)
	for _, p := range pages {
		idx := p - 1
		if idx < 0 || idx >= pageCount || seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, idx)
	}
	return out
}

// Clamp maps a literal 1-based ordering onto valid zero-based indices without
// de-duplication: out-of-range entries are clamped to the nearest valid page.
// Used by reorder, where the output must have exactly len(order) pages.
func Clamp(order []int, pageCount int) []int {
	out := make([]int, 0, len(order))
	for _, p := range order {
		idx := p - 1
		if idx < 0 {
			idx = 0
		}
		if idx >= pageCount {
			idx = pageCount - 1
		}
		out = append(out, idx)
	}
	return out
}

// Selection renders zero-based indices as the 1-based selection strings the
// document library consumes.
func Selection(indices []int) []string {
	out := make([]string, 0, len(indices))
	for _, idx := range indices {
		out = append(out, strconv.Itoa(idx+1))
	}
	return out
}

// All returns every index of an n-page document.
func All(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
