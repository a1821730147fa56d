package match

// Levenshtein computes the edit distance between two strings: the minimum
// number of single-byte insertions, deletions or substitutions needed to
// turn one into the other.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	if len(a) > len(b) {
		a, b = b, a
	}

	if len(a) == 0 {
		return len(b)
	}

	// two rolling rows over the shorter string
	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// LevenshteinNormalized maps the edit distance onto a similarity score in
// [0, 1], where 1 means identical.
func LevenshteinNormalized(a, b string) float64 {
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(Levenshtein(a, b))/float64(maxLen)
}

// NormalizedLevenshteinScore compares two identifiers after NormalizeIdent.
func NormalizedLevenshteinScore(a, b string) float64 {
	return LevenshteinNormalized(NormalizeIdent(a), NormalizeIdent(b))
}

// SuggestionThreshold is the minimum score Closest accepts.
const SuggestionThreshold = 0.6

// Closest returns the candidate most similar to name, or "" when none scores
// at least SuggestionThreshold. Ties keep the earliest candidate.
func Closest(name string, candidates []string) string {
	best, bestScore := "", SuggestionThreshold

	for _, c := range candidates {
		score := NormalizedLevenshteinScore(name, c)
		if score > bestScore || (score == bestScore && best == "") {
			best, bestScore = c, score
		}
	}

	return best
}
