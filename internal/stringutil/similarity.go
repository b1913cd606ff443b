package stringutil

import "sort"

// Similarity returns the Ratcliff/Obershelp ratio between a and b: twice the
// number of matching characters divided by the total number of characters.
// The result is in [0, 1] with 1 meaning the strings are identical.
func Similarity(a, b string) float64 {
	if len(a)+len(b) == 0 {
		return 0
	}
	return 2 * float64(matchingChars(a, b)) / float64(len(a)+len(b))
}

// matchingChars counts the characters a and b have in common: the longest
// common substring, plus the matches found by recursing on the pieces to its
// left and right.
func matchingChars(a, b string) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	return size + matchingChars(a[:ai], b[:bi]) + matchingChars(a[ai+size:], b[bi+size:])
}

func longestCommonSubstring(a, b string) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] != b[j-1] {
				cur[j] = 0
				continue
			}
			cur[j] = prev[j-1] + 1
			if cur[j] > size {
				size = cur[j]
				ai = i - size
				bi = j - size
			}
		}
		prev, cur = cur, prev
		for j := range cur {
			cur[j] = 0
		}
	}
	return ai, bi, size
}

// ClosestMatches returns up to n candidates whose similarity to target is at
// least cutoff, best match first. Ties are broken alphabetically so the
// result is stable.
func ClosestMatches(target string, candidates []string, n int, cutoff float64) []string {
	type scored struct {
		value string
		ratio float64
	}
	matches := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if r := Similarity(target, c); r >= cutoff {
			matches = append(matches, scored{value: c, ratio: r})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].ratio != matches[j].ratio {
			return matches[i].ratio > matches[j].ratio
		}
		return matches[i].value < matches[j].value
	})
	if len(matches) > n {
		matches = matches[:n]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.value
	}
	return out
}
