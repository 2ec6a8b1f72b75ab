package retrieval

import (
	"regexp"
	"strings"
)

// incidentNumberRegex matches ServiceNow-style ticket identifiers after
// the query has been uppercased.
var incidentNumberRegex = regexp.MustCompile(`INC\d+`)

// ExtractIncidentNumbers pulls all incident number tokens out of a query,
// deduplicated in order of first appearance.
func ExtractIncidentNumbers(query string) []string {
	matches := incidentNumberRegex.FindAllString(strings.ToUpper(query), -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	numbers := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		numbers = append(numbers, m)
	}
	return numbers
}
