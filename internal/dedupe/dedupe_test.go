package dedupe

import (
	"reflect"
	"testing"

	"github.com/varoOP/moviefinder/internal/domain"
)

func movies(ids ...string) []domain.Movie {
	out := make([]domain.Movie, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Movie{ID: id, Title: "title " + id})
	}
	return out
}

func TestSameIDs(t *testing.T) {
	tests := []struct {
		name string
		a, b []domain.Movie
		want bool
	}{
		{name: "both empty", want: true},
		{name: "equal", a: movies("1", "2"), b: movies("1", "2"), want: true},
		{name: "different order", a: movies("1", "2"), b: movies("2", "1"), want: false},
		{name: "different length", a: movies("1"), b: movies("1", "2"), want: false},
		{name: "other fields ignored", a: []domain.Movie{{ID: "1", Title: "a"}}, b: []domain.Movie{{ID: "1", Title: "b"}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameIDs(tt.a, tt.b); got != tt.want {
				t.Errorf("SameIDs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterSeen(t *testing.T) {
	got := FilterSeen(movies("1", "2", "3", "2", "4"), IDSet(movies("1")), map[string]struct{}{"4": {}})
	want := []string{"2", "3"}
	if ids := domain.IDs(got); !reflect.DeepEqual(ids, want) {
		t.Errorf("FilterSeen() = %v, want %v", ids, want)
	}
}

func TestAllTitlesContain(t *testing.T) {
	tests := []struct {
		name    string
		titles  []string
		keyword string
		want    bool
	}{
		{name: "empty list", keyword: "remote", want: false},
		{name: "all match ignoring case", titles: []string{"Remotea", "REMOTEB"}, keyword: "remote", want: true},
		{name: "one misses", titles: []string{"remotea", "locala"}, keyword: "remote", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var list []domain.Movie
			for i, title := range tt.titles {
				list = append(list, domain.Movie{ID: string(rune('a' + i)), Title: title})
			}
			if got := AllTitlesContain(list, tt.keyword); got != tt.want {
				t.Errorf("AllTitlesContain() = %v, want %v", got, tt.want)
			}
		})
	}
}
