package fetch

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/moviefinder/internal/domain"
	"github.com/varoOP/moviefinder/internal/metrics"
)

var errEmptyResponse = errors.New("empty response from catalog")

type Service interface {
	// Fetch streams Loading, the cached movie if any, then the remote movie
	// or an error. The channel is closed after the last emission.
	Fetch(ctx context.Context, id string) <-chan domain.Resource
}

type service struct {
	log     zerolog.Logger
	cache   domain.MovieRepo
	remote  domain.CatalogService
	metrics *metrics.Metrics
}

func NewService(log zerolog.Logger, cache domain.MovieRepo, remote domain.CatalogService, m *metrics.Metrics) Service {
	return &service{
		log:     log.With().Str("module", "fetch").Logger(),
		cache:   cache,
		remote:  remote,
		metrics: m,
	}
}

func (s *service) Fetch(ctx context.Context, id string) <-chan domain.Resource {
	out := make(chan domain.Resource)

	go func() {
		defer close(out)

		emit := func(r domain.Resource) bool {
			select {
			case out <- r:
				return true
			case <-ctx.Done():
				s.log.Debug().Str("id", id).Msg("fetch abandoned")
				return false
			}
		}

		if !emit(domain.Loading()) {
			return
		}

		cached, err := s.cache.ByID(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).Str("id", id).Msg("cache lookup failed")
			cached = nil
		}
		s.metrics.CacheLookup("by_id", len(cached) > 0)

		if len(cached) > 0 {
			if !emit(domain.Success(cached[0])) {
				return
			}
		}

		movie, err := s.remote.ByID(ctx, id)
		if err == nil && (movie == nil || movie.ID == "") {
			err = errEmptyResponse
		}
		s.metrics.RemoteRequest("by_id", err)

		if err != nil {
			if len(cached) > 0 {
				s.log.Debug().Err(err).Str("id", id).Msg("remote lookup failed, cached movie already delivered")
				return
			}
			s.log.Error().Err(err).Str("id", id).Msg("remote lookup failed")
			emit(domain.Failure(err.Error()))
			return
		}

		if !emit(domain.Success(*movie)) {
			return
		}

		if err := s.cache.InsertOrReplace(ctx, *movie); err != nil {
			s.log.Warn().Err(err).Str("id", id).Msg("failed to update movie cache")
			return
		}
		s.log.Debug().Str("id", id).Msg("Updated movie cache")
	}()

	return out
}

// Collect drains a fetch stream.
func Collect(ch <-chan domain.Resource) []domain.Resource {
	var all []domain.Resource
	for r := range ch {
		all = append(all, r)
	}
	return all
}
