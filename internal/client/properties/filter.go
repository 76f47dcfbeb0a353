package properties

import (
	"strings"

	"github.com/dmitrijs2005/propman/internal/client/models"
)

// Filter returns the items whose title, city, type or address contain query,
// ignoring case and surrounding whitespace. An empty query returns items
// itself. Empty fields never match.
func Filter(items []models.Property, query string) []models.Property {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}

	out := make([]models.Property, 0, len(items))
	for _, p := range items {
		if matches(p, q) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p models.Property, q string) bool {
	for _, field := range []string{p.Title, p.City, p.Type, p.Address} {
		if field != "" && strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
