package api

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// suggest returns the candidate closest to input, or "" when nothing is
// close enough to be a plausible typo.
func suggest(input string, candidates []string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return ""
	}

	best, bestDist := "", -1
	for _, cand := range candidates {
		if len(input) >= 3 && strings.HasPrefix(cand, input) {
			return cand
		}
		dist := levenshtein.ComputeDistance(input, cand)
		if dist > distanceLimit(len(cand)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = cand, dist
		}
	}
	return best
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
