package imdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/varoOP/moviefinder/internal/domain"
)

const titlePage = `<!DOCTYPE html><html><head>
<script type="application/ld+json">{"@type":"Movie","url":"/title/tt0372784/","name":"Batman Begins",
"image":"https://m.media-amazon.com/images/M/bb.jpg","description":"After witnessing his parents' death, Bruce learns the art of fighting.",
"genre":["Action","Crime","Drama"],"datePublished":"2005-06-15","duration":"PT2H20M",
"actor":[{"@type":"Person","name":"Christian Bale"},{"@type":"Person","name":"Michael Caine"}],
"director":[{"@type":"Person","name":"Christopher Nolan"}],
"aggregateRating":{"ratingValue":8.2}}</script>
</head><body></body></html>`

func findPage(n int) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><body><section data-testid="find-results-section-title"><ul class="ipc-metadata-list">`)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, `<li class="ipc-metadata-list-summary-item">
<img class="ipc-image" src="https://m.media-amazon.com/images/M/%d.jpg"/>
<a class="ipc-metadata-list-summary-item__t" href="/title/tt%07d/?ref_=fn_al_tt_%d">Batman %d</a>
<ul class="ipc-inline-list"><li><span class="ipc-metadata-list-summary-item__li">%d</span></li></ul>
</li>`, i, i, i, i, 1990+i)
	}
	// repeated entry
	b.WriteString(`<li class="ipc-metadata-list-summary-item"><a href="/title/tt0000001/">Batman 1</a></li>`)
	b.WriteString(`</ul></section></body></html>`)
	return b.String()
}

func newTestService(t *testing.T, h http.HandlerFunc) domain.CatalogService {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return NewService(zerolog.Nop(), &domain.Config{IMDbBaseURL: ts.URL})
}

func html(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(body))
}

func TestSearchPages(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/find/" || r.URL.Query().Get("q") != "batman" {
			http.NotFound(w, r)
			return
		}
		html(w, findPage(23))
	})

	tests := []struct {
		page    int
		want    int
		firstID string
	}{
		{page: 1, want: 10, firstID: "tt0000001"},
		{page: 2, want: 10, firstID: "tt0000011"},
		{page: 3, want: 3, firstID: "tt0000021"},
		{page: 4, want: 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.page), func(t *testing.T) {
			movies, err := s.Search(context.Background(), "batman", tt.page)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if movies == nil || len(movies) != tt.want {
				t.Fatalf("got %d movies, want %d", len(movies), tt.want)
			}
			if tt.want > 0 && movies[0].ID != tt.firstID {
				t.Errorf("first id = %s, want %s", movies[0].ID, tt.firstID)
			}
		})
	}
}

func TestSearchFields(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		html(w, findPage(1))
	})

	movies, err := s.Search(context.Background(), "batman", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(movies) != 1 {
		t.Fatalf("got %d movies, want 1", len(movies))
	}
	m := movies[0]
	if m.Title != "Batman 1" || m.Year != "1991" || m.Poster != "https://m.media-amazon.com/images/M/1.jpg" {
		t.Errorf("movie = %+v", m)
	}
	if m.Plot != domain.NotAvailable {
		t.Errorf("plot = %q, want %q", m.Plot, domain.NotAvailable)
	}
}

func TestByID(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/title/tt0372784/" {
			http.NotFound(w, r)
			return
		}
		html(w, titlePage)
	})

	m, err := s.ByID(context.Background(), "tt0372784")
	if err != nil {
		t.Fatalf("ByID() error = %v", err)
	}

	want := domain.Movie{
		ID:       "tt0372784",
		Title:    "Batman Begins",
		Poster:   "https://m.media-amazon.com/images/M/bb.jpg",
		Year:     "2005",
		Released: "15 Jun 2005",
		Genre:    "Action, Crime, Drama",
		Plot:     "After witnessing his parents' death, Bruce learns the art of fighting.",
		Actors:   "Christian Bale, Michael Caine",
		Director: "Christopher Nolan",
		Runtime:  "140 min",
		Rating:   "8.2",
	}
	if *m != want {
		t.Fatalf("ByID() = %+v\nwant %+v", *m, want)
	}

	_, err = s.ByID(context.Background(), "tt0000000")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing title error = %v, want ErrNotFound", err)
	}
}

func TestErrors(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusServiceUnavailable)
	})

	_, err := s.Search(context.Background(), "batman", 1)
	var ae *domain.ApplicationError
	if !errors.As(err, &ae) || ae.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("Search() error = %v, want 503 application error", err)
	}

	ts := httptest.NewServer(http.NotFoundHandler())
	base := ts.URL
	ts.Close()

	down := NewService(zerolog.Nop(), &domain.Config{IMDbBaseURL: base})
	_, err = down.ByID(context.Background(), "tt1")
	var te *domain.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("ByID() error = %v, want transport error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Search(ctx, "batman", 1); !errors.As(err, &te) {
		t.Fatalf("cancelled Search() error = %v, want transport error", err)
	}
}

func TestFormatRuntime(t *testing.T) {
	tests := map[string]string{
		"PT2H22M": "142 min",
		"PT45M":   "45 min",
		"PT1H":    "60 min",
		"":        "",
		"P1D":     "",
	}
	for in, want := range tests {
		if got := formatRuntime(in); got != want {
			t.Errorf("formatRuntime(%q) = %q, want %q", in, got, want)
		}
	}
}
