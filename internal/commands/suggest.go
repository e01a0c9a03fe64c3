// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// suggest.go - Key suggestion for mistyped commands.
package commands

// Suggest returns the registered key closest to key, or "" when nothing is
// close enough. Keys are compared case-insensitively.
func Suggest(key string, keys []string) string {
	input := []rune(foldCase(key))

	// Don't suggest for very short inputs
	if len(input) < 2 {
		return ""
	}

	// One edit for short keys, two for most, three for long ones
	maxDistance := 1
	if len(input) >= 4 {
		maxDistance = 2
	}
	if len(input) > 8 {
		maxDistance = 3
	}

	bestMatch := ""
	bestDistance := -1
	for _, candidate := range keys {
		distance := levenshteinDistance(input, []rune(foldCase(candidate)))
		if distance == 0 {
			return ""
		}
		if distance <= maxDistance && (bestDistance == -1 || distance < bestDistance) {
			bestDistance = distance
			bestMatch = candidate
		}
	}
	return bestMatch
}

// levenshteinDistance is the minimum number of single-rune insertions,
// deletions or substitutions turning s1 into s2.
func levenshteinDistance(s1, s2 []rune) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	// Two rows instead of the full matrix
	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(s2)]
}
