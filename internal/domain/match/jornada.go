package match

import (
	"sort"
	"strconv"
	"strings"
)

// JornadaNumber extracts the numeric suffix of a matchday label, e.g.
// "Jornada 10" yields 10. Labels without a trailing number report ok
// false and sort after numbered ones.
func JornadaNumber(label string) (int, bool) {
	fields := strings.Fields(strings.TrimSpace(label))
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// SortJornadas orders matchday labels by numeric suffix ascending, not
// lexically, so "Jornada 2" precedes "Jornada 10". Unnumbered labels
// keep their relative order at the end.
func SortJornadas(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		ni, iok := JornadaNumber(labels[i])
		nj, jok := JornadaNumber(labels[j])
		if iok && jok {
			return ni < nj
		}
		return iok && !jok
	})
}

// JornadaLess compares two matchday labels in numeric-suffix order.
func JornadaLess(a, b string) bool {
	na, aok := JornadaNumber(a)
	nb, bok := JornadaNumber(b)
	if aok && bok {
		return na < nb
	}
	if aok != bok {
		return aok
	}
	return a < b
}
