// Package suggest provides fuzzy matching for CLI flag, pattern name and
// config key suggestions using Levenshtein distance.
package suggest

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestions caps how many close matches are returned.
const maxSuggestions = 3

// closest returns up to three candidates within reach of unknown, best first.
// norm is applied to both sides before measuring.
func closest(unknown string, candidates []string, norm func(string) string) []string {
	type scored struct {
		value string
		score int
	}
	target := norm(unknown)
	var matches []scored

	for _, c := range candidates {
		n := norm(c)
		dist := levenshtein.ComputeDistance(target, n)
		if strings.Contains(n, target) && target != "" {
			// Substrings rank just behind exact matches.
			dist = min(dist, 1)
		}

		// Only suggest if reasonably close (within 3 edits or 50% of length)
		maxDist := max(3, len(target)/2)
		if dist <= maxDist {
			matches = append(matches, scored{c, dist})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score < matches[j].score
	})

	var result []string
	for i := 0; i < len(matches) && i < maxSuggestions; i++ {
		result = append(result, matches[i].value)
	}
	return result
}

// Flag finds similar flags from a list of valid flags
// Returns suggestions sorted by similarity (best first)
func Flag(unknown string, validFlags []string) []string {
	return closest(unknown, validFlags, func(s string) string {
		return strings.TrimLeft(s, "-")
	})
}

// Names finds pattern names (or any other identifiers) close to unknown,
// ignoring case.
func Names(unknown string, candidates []string) []string {
	return closest(unknown, candidates, func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	})
}

// CommonFlagAliases maps commonly attempted flags to their correct names
var CommonFlagAliases = map[string]string{
	// Description aliases
	"note":  "--description, -d",
	"notes": "--description, -d",
	"desc":  "--description, -d",

	// Dimension aliases
	"cards":  "--tablets",
	"cols":   "--tablets",
	"picks":  "--rows",
	"length": "--rows",

	// Direction aliases
	"dir":       "positional: F or B",
	"direction": "positional: F or B",

	// Label aliases
	"label":  "--tags",
	"labels": "--tags",
	"tag":    "--tags",

	// Force/confirm aliases
	"force": "--yes, -y",

	// Version
	"version": "use: tt version",
	"v":       "use: tt version",
}

// GetFlagHint returns a hint for a commonly misused flag
func GetFlagHint(flag string) string {
	// Normalize
	flag = strings.TrimLeft(flag, "-")
	flag = strings.ToLower(flag)

	if hint, ok := CommonFlagAliases[flag]; ok {
		return hint
	}
	return ""
}
