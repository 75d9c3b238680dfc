package database

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/moviefinder/internal/domain"
)

var movieColumns = []string{
	"imdb_id", "title", "poster", "year", "released", "genre",
	"plot", "actors", "director", "runtime", "rating",
}

// MovieRepo implements domain.MovieRepo on top of sqlite
type MovieRepo struct {
	log zerolog.Logger
	db  *DB
}

var _ domain.MovieRepo = (*MovieRepo)(nil)

// NewMovieRepo creates a new movie cache repository
func NewMovieRepo(log zerolog.Logger, db *DB) *MovieRepo {
	return &MovieRepo{
		log: log.With().Str("repo", "movie").Logger(),
		db:  db,
	}
}

// InsertOrReplace upserts a movie by id. The row keeps its position in the
// listing order when it already exists.
func (r *MovieRepo) InsertOrReplace(ctx context.Context, movie domain.Movie) error {
	if movie.ID == "" {
		return errors.New("movie id is required")
	}

	m := movie.Normalize()
	now := time.Now().Format(time.RFC3339)

	queryBuilder := r.db.squirrel.
		Insert("movies").
		Columns(append(movieColumns, "cached_at")...).
		Values(m.ID, m.Title, m.Poster, m.Year, m.Released, m.Genre,
			m.Plot, m.Actors, m.Director, m.Runtime, m.Rating, now).
		Suffix(`ON CONFLICT(imdb_id) DO UPDATE SET
			title = excluded.title,
			poster = excluded.poster,
			year = excluded.year,
			released = excluded.released,
			genre = excluded.genre,
			plot = excluded.plot,
			actors = excluded.actors,
			director = excluded.director,
			runtime = excluded.runtime,
			rating = excluded.rating,
			cached_at = excluded.cached_at`)

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("InsertOrReplace")

	r.db.lock.Lock()
	defer r.db.lock.Unlock()

	if _, err = r.db.handler.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "error executing query")
	}

	return nil
}

// ByID returns the cached movie with the given id as a list of zero or one rows
func (r *MovieRepo) ByID(ctx context.Context, id string) ([]domain.Movie, error) {
	queryBuilder := r.db.squirrel.
		Select(movieColumns...).
		From("movies").
		Where(sq.Eq{"imdb_id": id})

	return r.list(ctx, "ByID", queryBuilder)
}

// BySubstring returns one page of movies whose title contains query
func (r *MovieRepo) BySubstring(ctx context.Context, query string, offset, limit int) ([]domain.Movie, error) {
	queryBuilder := r.db.squirrel.
		Select(movieColumns...).
		From("movies").
		Where(sq.Expr(`title LIKE ? ESCAPE '\'`, "%"+escapeLike(query)+"%")).
		OrderBy("rowid").
		Offset(uint64(max(offset, 0))).
		Limit(uint64(max(limit, 0)))

	return r.list(ctx, "BySubstring", queryBuilder)
}

// All returns one page of every cached movie
func (r *MovieRepo) All(ctx context.Context, offset, limit int) ([]domain.Movie, error) {
	queryBuilder := r.db.squirrel.
		Select(movieColumns...).
		From("movies").
		OrderBy("rowid").
		Offset(uint64(max(offset, 0))).
		Limit(uint64(max(limit, 0)))

	return r.list(ctx, "All", queryBuilder)
}

// Count returns the number of cached movies
func (r *MovieRepo) Count(ctx context.Context) (int, error) {
	query, args, err := r.db.squirrel.Select("COUNT(*)").From("movies").ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Count")

	r.db.lock.RLock()
	defer r.db.lock.RUnlock()

	var count int
	if err := r.db.handler.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "error executing query")
	}

	return count, nil
}

// Delete removes a cached movie
func (r *MovieRepo) Delete(ctx context.Context, id string) error {
	queryBuilder := r.db.squirrel.
		Delete("movies").
		Where(sq.Eq{"imdb_id": id})

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return errors.Wrap(err, "error building delete query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Delete")

	r.db.lock.Lock()
	defer r.db.lock.Unlock()

	if _, err = r.db.handler.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "error executing delete query")
	}

	return nil
}

func (r *MovieRepo) list(ctx context.Context, name string, queryBuilder sq.SelectBuilder) ([]domain.Movie, error) {
	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg(name)

	r.db.lock.RLock()
	defer r.db.lock.RUnlock()

	rows, err := r.db.handler.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "error executing query")
	}
	defer rows.Close()

	movies := []domain.Movie{}
	for rows.Next() {
		var m domain.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Poster, &m.Year, &m.Released, &m.Genre,
			&m.Plot, &m.Actors, &m.Director, &m.Runtime, &m.Rating); err != nil {
			return nil, errors.Wrap(err, "error scanning row")
		}
		movies = append(movies, m)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating rows")
	}

	return movies, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
