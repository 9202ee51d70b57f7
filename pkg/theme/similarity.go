package theme

import "strings"

// stringSimilarity ports calculate_similarity's STRING mode from
// theme_manager.py: a direct substring match forces 1.0, otherwise the
// base score is a SequenceMatcher-style ratio, raised to the max ratio
// against any theme token longer than two characters.
func stringSimilarity(word, theme string) float64 {
	w := strings.ToLower(word)
	th := strings.ToLower(theme)

	if strings.Contains(th, w) || strings.Contains(w, th) {
		return 1.0
	}

	similarity := sequenceMatchRatio(w, th)
	for _, tok := range strings.Fields(th) {
		if len(tok) > 2 {
			if r := sequenceMatchRatio(w, tok); r > similarity {
				similarity = r
			}
		}
	}
	return similarity
}

// sequenceMatchRatio approximates Python's difflib.SequenceMatcher.ratio():
// 2*M / T, where T is the combined length of both strings and M is the
// total number of matching characters found by recursively taking the
// longest common contiguous block and recursing on the remainders.
func sequenceMatchRatio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	matches := matchingCharacters(a, b)
	return 2.0 * float64(matches) / float64(len(a)+len(b))
}

func matchingCharacters(a, b string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	ai, bi, length := longestCommonBlock(a, b)
	if length == 0 {
		return 0
	}
	return length +
		matchingCharacters(a[:ai], b[:bi]) +
		matchingCharacters(a[ai+length:], b[bi+length:])
}

// longestCommonBlock finds the longest contiguous substring shared by
// a and b (first occurrence on ties), returning its start indices and
// length.
func longestCommonBlock(a, b string) (aStart, bStart, length int) {
	for la := len(a); la > length; la-- {
		for i := 0; i+la <= len(a); i++ {
			sub := a[i : i+la]
			if j := strings.Index(b, sub); j >= 0 {
				return i, j, la
			}
		}
	}
	return 0, 0, 0
}
