package paging

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/moviefinder/internal/dedupe"
	"github.com/varoOP/moviefinder/internal/domain"
	"github.com/varoOP/moviefinder/internal/metrics"
)

const DefaultPageSize = 10

type Service interface {
	// Load returns the page at cursor and the session updated by it. The
	// session passed in is never modified, so a failed call can be retried
	// with the same arguments.
	Load(ctx context.Context, session domain.Session, cursor domain.Cursor) (domain.Page, domain.Session, error)
}

type service struct {
	log      zerolog.Logger
	cache    domain.MovieRepo
	remote   domain.CatalogService
	pageSize int
	metrics  *metrics.Metrics
}

func NewService(log zerolog.Logger, cache domain.MovieRepo, remote domain.CatalogService, pageSize int, m *metrics.Metrics) Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &service{
		log:      log.With().Str("module", "paging").Logger(),
		cache:    cache,
		remote:   remote,
		pageSize: pageSize,
		metrics:  m,
	}
}

func (s *service) Load(ctx context.Context, in domain.Session, cursor domain.Cursor) (domain.Page, domain.Session, error) {
	// pages past the addressable offset range have nothing to load
	if cursor.IsEnd() || cursor.N >= math.MaxInt/s.pageSize {
		return domain.Page{Items: []domain.Movie{}, Next: domain.Exhausted()}, in, nil
	}

	session := in.Clone()
	keyword := session.Keyword

	var (
		items      []domain.Movie
		source     = domain.SourceLocal
		next       = domain.Exhausted()
		remotePage = cursor.N
		switched   bool
	)

	if s.probeLocal(session, cursor) {
		rows, err := s.queryLocal(ctx, keyword, cursor.N)
		if err != nil {
			return domain.Page{}, in, errors.Wrap(err, "failed to query movie cache")
		}

		if len(rows) > 0 && !dedupe.SameIDs(session.Local, rows) {
			items = rows
			if keyword != "" {
				if cursor.N == 0 {
					session.Local = nil
				}
				session.Local = append(session.Local, rows...)
			}
		}

		switch {
		case len(items) == 0:
			// nothing new locally, continue from the first remote page
			switched = true
			remotePage = 1
		case len(items) < s.pageSize:
			if keyword != "" {
				next = domain.RemotePage(1)
			}
		default:
			next = domain.LocalOffset(cursor.N + 1)
		}
	}

	if len(items) == 0 && keyword != "" {
		rows, err := s.remote.Search(ctx, keyword, remotePage)
		s.metrics.RemoteRequest("search", err)
		if err != nil {
			s.log.Error().Err(err).Str("keyword", keyword).Int("page", remotePage).Msg("remote search failed")
			return domain.Page{}, in, errors.Wrapf(err, "failed to search catalog page %d", remotePage)
		}

		session.Remote = true
		source = domain.SourceRemote
		items = dedupe.FilterSeen(rows, dedupe.IDSet(session.Local), session.Delivered)

		// Local matches from a carried-over accumulator are kept in front of
		// the first remote page, once per session.
		if switched && len(rows) > 0 && dedupe.AllTitlesContain(session.Local, keyword) {
			if carried := dedupe.FilterSeen(session.Local, session.Delivered); len(carried) > 0 {
				items = append(carried, items...)
				source = domain.SourceMixed
			}
		}

		if len(items) > 0 {
			next = domain.RemotePage(remotePage + 1)
		}
	}

	if items == nil {
		items = []domain.Movie{}
	}
	if len(items) == 0 {
		next = domain.Exhausted()
	}

	for _, m := range items {
		session.Delivered[m.ID] = struct{}{}
	}

	s.metrics.PageServed(string(source))
	s.log.Debug().
		Str("keyword", keyword).
		Str("cursor", cursor.String()).
		Str("next", next.String()).
		Str("source", string(source)).
		Strs("ids", domain.IDs(items)).
		Msg("page loaded")

	return domain.Page{Items: items, Next: next, Source: source}, session, nil
}

// probeLocal decides whether the cache is queried for this call. The empty
// keyword only ever reads the cache; other keywords keep probing while the
// accumulated local rows fill whole pages.
func (s *service) probeLocal(session domain.Session, cursor domain.Cursor) bool {
	if cursor.Kind != domain.CursorLocal {
		return false
	}
	if cursor.N == 0 || session.Keyword == "" {
		return true
	}
	n := len(session.Local)
	return n > 0 && n%s.pageSize == 0 && !session.Remote
}

func (s *service) queryLocal(ctx context.Context, keyword string, page int) ([]domain.Movie, error) {
	offset := page * s.pageSize

	var (
		rows []domain.Movie
		err  error
		op   = "all"
	)
	if keyword == "" {
		rows, err = s.cache.All(ctx, offset, s.pageSize)
	} else {
		op = "by_substring"
		rows, err = s.cache.BySubstring(ctx, keyword, offset, s.pageSize)
	}
	if err != nil {
		return nil, err
	}

	s.metrics.CacheLookup(op, len(rows) > 0)
	return rows, nil
}
