// Package dedupe holds the id comparison helpers shared by the paging and
// fetch engines. A movie's identity is its id alone.
package dedupe

import (
	"strings"

	"github.com/varoOP/moviefinder/internal/domain"
)

// IDSet returns the set of ids in movies.
func IDSet(movies []domain.Movie) map[string]struct{} {
	set := make(map[string]struct{}, len(movies))
	for _, m := range movies {
		set[m.ID] = struct{}{}
	}
	return set
}

// SameIDs reports whether a and b hold the same ids in the same order.
func SameIDs(a, b []domain.Movie) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

// FilterSeen drops every movie whose id is in one of the seen sets, and
// repeated ids within movies.
func FilterSeen(movies []domain.Movie, seen ...map[string]struct{}) []domain.Movie {
	out := make([]domain.Movie, 0, len(movies))
	kept := make(map[string]struct{}, len(movies))

outer:
	for _, m := range movies {
		if _, ok := kept[m.ID]; ok {
			continue
		}
		for _, s := range seen {
			if _, ok := s[m.ID]; ok {
				continue outer
			}
		}
		kept[m.ID] = struct{}{}
		out = append(out, m)
	}

	return out
}

// AllTitlesContain reports whether every movie title contains keyword,
// ignoring case. It is false for an empty list.
func AllTitlesContain(movies []domain.Movie, keyword string) bool {
	if len(movies) == 0 {
		return false
	}

	k := strings.ToLower(keyword)
	for _, m := range movies {
		if !strings.Contains(strings.ToLower(m.Title), k) {
			return false
		}
	}
	return true
}
