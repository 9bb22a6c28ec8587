// Package search ranks ref names against an incremental fuzzy query.
package search

import (
	"sort"
	"unicode"

	"github.com/sahilm/fuzzy"
)

// Match is one name accepted by a query.
type Match struct {
	Index     int    // position in the input slice
	Name      string
	Positions []int // rune offsets of the matched characters
	Run       int   // longest contiguous matched run
	Start     int   // rune offset of the first matched character
}

// Rank filters names to those containing query as a case-insensitive
// ordered subsequence. Results are ordered by longest contiguous run, then
// earliest start, then shortest name, then input order.
func Rank(query string, names []string) []Match {
	q := fold(query)
	if len(q) == 0 {
		matches := make([]Match, len(names))
		for i, name := range names {
			matches[i] = Match{Index: i, Name: name}
		}
		return matches
	}

	candidates := fuzzy.FindFromNoSort(query, nameSource(names))
	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		m, ok := score(q, fold(c.Str))
		if !ok {
			continue
		}
		m.Index = c.Index
		m.Name = c.Str
		matches = append(matches, m)
	}
	sort.SliceStable(matches, func(a, b int) bool {
		ma, mb := matches[a], matches[b]
		if ma.Run != mb.Run {
			return ma.Run > mb.Run
		}
		if ma.Start != mb.Start {
			return ma.Start < mb.Start
		}
		return len([]rune(ma.Name)) < len([]rune(mb.Name))
	})
	return matches
}

// nameSource adapts a name slice to fuzzy.Source.
type nameSource []string

func (n nameSource) String(i int) string { return n[i] }

func (n nameSource) Len() int { return len(n) }

func fold(s string) []rune {
	out := []rune(s)
	for i, r := range out {
		out[i] = unicode.ToLower(r)
	}
	return out
}

// score finds the alignment of q in name with the longest contiguous run,
// preferring the earliest start among equally long runs.
func score(q, name []rune) (Match, bool) {
	for k := len(q); k >= 1; k-- {
		best := Match{Start: -1}
		for i := 0; i+k <= len(q); i++ {
			for p := 0; p+k <= len(name); p++ {
				if !equalRunes(q[i:i+k], name[p:p+k]) {
					continue
				}
				prefix, ok := subsequence(q[:i], name[:p], 0)
				if !ok {
					continue
				}
				suffix, ok := subsequence(q[i+k:], name, p+k)
				if !ok {
					continue
				}
				positions := make([]int, 0, len(q))
				positions = append(positions, prefix...)
				for j := 0; j < k; j++ {
					positions = append(positions, p+j)
				}
				positions = append(positions, suffix...)
				if best.Start < 0 || positions[0] < best.Start {
					best = Match{Positions: positions, Run: k, Start: positions[0]}
				}
			}
		}
		if best.Start >= 0 {
			return best, true
		}
	}
	return Match{}, false
}

// subsequence greedily matches q in name starting at offset and returns the
// matched offsets.
func subsequence(q, name []rune, offset int) ([]int, bool) {
	positions := make([]int, 0, len(q))
	j := offset
	for _, r := range q {
		for j < len(name) && name[j] != r {
			j++
		}
		if j >= len(name) {
			return nil, false
		}
		positions = append(positions, j)
		j++
	}
	return positions, true
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
