// Package corpus implements C1: loading a raw (word, count) corpus,
// normalizing and bucketing it by length, and exposing the
// (length, pattern) -> words lookup the solver depends on.
package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// ErrCorpusMissing is returned by LoadFile when a corpus file cannot be
// read or holds no entries. Build never returns it: an index left
// empty by filtering is returned as is.
var ErrCorpusMissing = errors.New("corpus: missing or empty after filtering")

// Entry is one raw (word, count) pair as supplied by the caller, prior
// to normalization.
type Entry struct {
	Raw   string
	Count int
}

// Word is a normalized corpus word with its aggregated count.
type Word struct {
	Text  string
	Count int
}

// Index is the PatternIndex from spec.md §4.1: an immutable,
// process-wide read-only bucket of words by length plus the lookup
// the solver depends on. Rather than eagerly materializing every
// sub-range pattern (O(sum L^2 * |words_L|) space), the all-wildcard
// bucket is kept sorted once and lookup(L, P) filters it on demand —
// the alternative spec.md §4.1 explicitly permits, trading index
// build time for lookup time that stays O(|bucket|).
type Index struct {
	byLength   map[int][]Word // sorted by descending count, ties lexicographic
	totalCount int
	minLen     int
	maxLen     int
}

// MinCountForDifficulty gives the recommended default min_count per
// difficulty tier (spec.md §4.1).
func MinCountForDifficulty(difficulty string) int {
	switch difficulty {
	case "easy":
		return 5
	case "hard":
		return 1
	default: // medium
		return 3
	}
}

// Build normalizes raw entries, aggregates duplicates by max count,
// discards anything shorter than minLen or with count < minCount, and
// returns the resulting Index. Per spec.md §4.1, an index with a
// length bucket that ends up empty still loads successfully — callers
// simply observe empty lookups for that length.
func Build(entries []Entry, minLen, minCount int) *Index {
	agg := make(map[string]int)
	for _, e := range entries {
		w := Normalize(e.Raw)
		if len(w) < minLen {
			continue
		}
		if e.Count > agg[w] {
			agg[w] = e.Count
		}
	}

	idx := &Index{byLength: make(map[int][]Word)}
	for w, count := range agg {
		if count < minCount {
			continue
		}
		idx.byLength[len(w)] = append(idx.byLength[len(w)], Word{Text: w, Count: count})
		idx.totalCount += count
		if idx.minLen == 0 || len(w) < idx.minLen {
			idx.minLen = len(w)
		}
		if len(w) > idx.maxLen {
			idx.maxLen = len(w)
		}
	}

	for l := range idx.byLength {
		sortWords(idx.byLength[l])
	}
	return idx
}

func sortWords(ws []Word) {
	sort.Slice(ws, func(i, j int) bool {
		if ws[i].Count != ws[j].Count {
			return ws[i].Count > ws[j].Count
		}
		return ws[i].Text < ws[j].Text
	})
}

// Normalize uppercases raw and drops every non A-Z rune, matching C1's
// contract: normalize(normalize(r)) == normalize(r).
func Normalize(raw string) string {
	raw = strings.ToUpper(raw)
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Lookup returns every length-L word matching pattern P (over A-Z and
// '.' wildcards), sorted by descending count, ties broken
// lexicographically — stable under re-sort by construction. Returns
// nil (treated as empty) if the length bucket doesn't exist.
func (idx *Index) Lookup(length int, pattern string) []Word {
	bucket, ok := idx.byLength[length]
	if !ok {
		return nil
	}
	if length == 0 {
		return nil
	}
	if isAllWildcard(pattern) {
		return bucket
	}
	out := make([]Word, 0, len(bucket))
	for _, w := range bucket {
		if matches(w.Text, pattern) {
			out = append(out, w)
		}
	}
	return out
}

func isAllWildcard(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '.' {
			return false
		}
	}
	return true
}

func matches(word, pattern string) bool {
	if len(word) != len(pattern) {
		return false
	}
	for i := 0; i < len(word); i++ {
		if pattern[i] != '.' && pattern[i] != word[i] {
			return false
		}
	}
	return true
}

// Freq returns the normalized frequency of a word: its count over the
// total count observed across the whole corpus. A lower value means
// rarer, per spec.md §4.1.
//
// Open question resolved (spec.md §9): the source conflates raw count
// and a normalized ratio under one name. This implementation always
// uses the normalized ratio (count/total_count) for every difficulty
// tier, so CandidateScore's frequency_weights multiply a value in
// [0, 1] uniformly across EASY/MEDIUM/HARD.
func (idx *Index) Freq(w Word) float64 {
	if idx.totalCount == 0 {
		return 0
	}
	return float64(w.Count) / float64(idx.totalCount)
}

// WordsInRange returns every word whose length is within [minLen,
// maxLen] and whose count is >= minCount, unsorted. Used by the theme
// selector (C3) to gather candidates independently of the index's
// own build-time min_count.
func (idx *Index) WordsInRange(minLen, maxLen, minCount int) []Word {
	var out []Word
	for l := minLen; l <= maxLen; l++ {
		for _, w := range idx.byLength[l] {
			if w.Count >= minCount {
				out = append(out, w)
			}
		}
	}
	return out
}

// HasLength reports whether any word of the given length survived
// filtering.
func (idx *Index) HasLength(length int) bool {
	_, ok := idx.byLength[length]
	return ok
}

// WordCount returns the number of distinct words held by the index.
func (idx *Index) WordCount() int {
	n := 0
	for _, b := range idx.byLength {
		n += len(b)
	}
	return n
}

// LoadFile reads a corpus file, one word per line, optionally
// "WORD;COUNT" (Peter Broda format) or bare words (implicit count 1),
// and returns raw entries for Build. Returns ErrCorpusMissing if the
// file cannot be opened.
func LoadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorpusMissing, err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if idx := strings.IndexByte(line, ';'); idx >= 0 {
			word := strings.TrimSpace(line[:idx])
			countStr := strings.TrimSpace(line[idx+1:])
			count, err := strconv.Atoi(countStr)
			if err != nil {
				return nil, fmt.Errorf("corpus: malformed line %d: %w", lineNum, err)
			}
			entries = append(entries, Entry{Raw: word, Count: count})
			continue
		}
		entries = append(entries, Entry{Raw: line, Count: 1})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorpusMissing, err)
	}
	if len(entries) == 0 {
		return nil, ErrCorpusMissing
	}
	return entries, nil
}
