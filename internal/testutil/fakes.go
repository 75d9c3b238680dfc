// Package testutil provides in-memory stand-ins for the cache store and the
// remote catalog.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/varoOP/moviefinder/internal/domain"
)

// Movie builds a movie with the given id and title.
func Movie(id, title string) domain.Movie {
	return domain.Movie{ID: id, Title: title}
}

// Movies builds one movie per letter in [from, to], titled prefix+letter, with
// ids counting up from firstID. Letters run backwards when from > to.
func Movies(prefix string, from, to rune, firstID int) []domain.Movie {
	var out []domain.Movie
	step := rune(1)
	if from > to {
		step = -1
	}
	for c, i := from, firstID; ; c, i = c+step, i+1 {
		out = append(out, Movie(fmt.Sprint(i), prefix+string(c)))
		if c == to {
			break
		}
	}
	return out
}

// MovieRepo is an in-memory domain.MovieRepo ordered by first insertion.
type MovieRepo struct {
	mu     sync.Mutex
	movies []domain.Movie
	Err    error
}

var _ domain.MovieRepo = (*MovieRepo)(nil)

func NewMovieRepo(movies ...domain.Movie) *MovieRepo {
	r := &MovieRepo{}
	for _, m := range movies {
		r.InsertOrReplace(context.Background(), m)
	}
	return r
}

func (r *MovieRepo) InsertOrReplace(_ context.Context, movie domain.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	for i := range r.movies {
		if r.movies[i].ID == movie.ID {
			r.movies[i] = movie
			return nil
		}
	}
	r.movies = append(r.movies, movie)
	return nil
}

func (r *MovieRepo) ByID(_ context.Context, id string) ([]domain.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	for _, m := range r.movies {
		if m.ID == id {
			return []domain.Movie{m}, nil
		}
	}
	return []domain.Movie{}, nil
}

func (r *MovieRepo) BySubstring(_ context.Context, query string, offset, limit int) ([]domain.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	var matched []domain.Movie
	for _, m := range r.movies {
		if strings.Contains(strings.ToLower(m.Title), strings.ToLower(query)) {
			matched = append(matched, m)
		}
	}
	return window(matched, offset, limit), nil
}

func (r *MovieRepo) All(_ context.Context, offset, limit int) ([]domain.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	return window(r.movies, offset, limit), nil
}

func (r *MovieRepo) Count(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.movies), r.Err
}

func (r *MovieRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.movies {
		if r.movies[i].ID == id {
			r.movies = append(r.movies[:i], r.movies[i+1:]...)
			break
		}
	}
	return r.Err
}

func window(movies []domain.Movie, offset, limit int) []domain.Movie {
	if offset < 0 || offset >= len(movies) {
		return []domain.Movie{}
	}
	end := min(offset+limit, len(movies))
	return append([]domain.Movie(nil), movies[offset:end]...)
}

// Catalog is an in-memory domain.CatalogService. Search ignores the keyword
// and pages through the whole catalog, like a remote that matches everything.
type Catalog struct {
	mu       sync.Mutex
	Movies   []domain.Movie
	PageSize int
	// Err, when set, fails every call.
	Err error
	// Fail maps a keyword or id to the error its calls return.
	Fail map[string]error
	// Empty maps an id to the body ByID answers with and no error; a nil
	// entry answers with no movie at all.
	Empty map[string]*domain.Movie

	SearchCalls []int
	ByIDCalls   []string
}

var _ domain.CatalogService = (*Catalog)(nil)

func NewCatalog(movies ...domain.Movie) *Catalog {
	return &Catalog{Movies: movies, PageSize: 10, Fail: map[string]error{}}
}

func (c *Catalog) Search(_ context.Context, keyword string, page int) ([]domain.Movie, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.SearchCalls = append(c.SearchCalls, page)
	if err := c.failure(keyword); err != nil {
		return nil, err
	}
	if page < 1 {
		return nil, &domain.ApplicationError{Message: "invalid page"}
	}
	return window(c.Movies, (page-1)*c.PageSize, c.PageSize), nil
}

func (c *Catalog) ByID(_ context.Context, id string) (*domain.Movie, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ByIDCalls = append(c.ByIDCalls, id)
	if err := c.failure(id); err != nil {
		return nil, err
	}
	if m, ok := c.Empty[id]; ok {
		return m, nil
	}
	for _, m := range c.Movies {
		if m.ID == id {
			found := m
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (c *Catalog) failure(key string) error {
	if c.Err != nil {
		return c.Err
	}
	return c.Fail[key]
}
