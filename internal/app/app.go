package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/varoOP/moviefinder/internal/database"
	"github.com/varoOP/moviefinder/internal/domain"
	"github.com/varoOP/moviefinder/internal/fetch"
	"github.com/varoOP/moviefinder/internal/imdb"
	"github.com/varoOP/moviefinder/internal/metrics"
	"github.com/varoOP/moviefinder/internal/notification"
	"github.com/varoOP/moviefinder/internal/omdb"
	"github.com/varoOP/moviefinder/internal/paging"
	"github.com/varoOP/moviefinder/internal/repository"
	"github.com/varoOP/moviefinder/internal/server"
)

// batchSize is the number of rows read per query when walking the whole cache.
const batchSize = 100

// App represents the main application with all dependencies initialized
type App struct {
	log                 zerolog.Logger
	config              *domain.Config
	db                  *database.DB
	movieRepo           domain.MovieRepo
	snapshotRepo        domain.SnapshotRepository
	catalog             domain.CatalogService
	fetchService        fetch.Service
	pagingService       paging.Service
	notificationService domain.NotificationService
	metrics             *metrics.Metrics
}

// NewApp opens the cache store and builds every service for cfg.
func NewApp(log zerolog.Logger, cfg *domain.Config) (*App, error) {
	db, err := database.NewDB(cfg.DatabaseDir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var catalog domain.CatalogService
	switch cfg.Provider {
	case domain.ProviderIMDb:
		catalog = imdb.NewService(log, cfg)
	default:
		catalog = omdb.NewService(log, cfg)
	}

	a := newApp(log, cfg,
		database.NewMovieRepo(log, db),
		repository.NewFileRepository(log),
		catalog,
		notification.NewService(log, cfg),
		metrics.New(),
	)
	a.db = db

	log.Debug().Str("provider", string(cfg.Provider)).Str("database", database.Path(cfg.DatabaseDir)).Msg("application initialized")
	return a, nil
}

func newApp(log zerolog.Logger, cfg *domain.Config, movieRepo domain.MovieRepo, snapshotRepo domain.SnapshotRepository, catalog domain.CatalogService, notifier domain.NotificationService, m *metrics.Metrics) *App {
	return &App{
		log:                 log,
		config:              cfg,
		movieRepo:           movieRepo,
		snapshotRepo:        snapshotRepo,
		catalog:             catalog,
		fetchService:        fetch.NewService(log, movieRepo, catalog, m),
		pagingService:       paging.NewService(log, movieRepo, catalog, cfg.PageSize, m),
		notificationService: notifier,
		metrics:             m,
	}
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Fetch streams the detail of one movie.
func (a *App) Fetch(ctx context.Context, id string) <-chan domain.Resource {
	return a.fetchService.Fetch(ctx, id)
}

// Pages walks a fresh session for keyword and calls fn with every page, up
// to limit pages (limit <= 0 means until the listing ends). The empty keyword
// browses the cache.
func (a *App) Pages(ctx context.Context, keyword string, limit int, fn func(domain.Page) error) error {
	session := domain.NewSession(keyword)
	cursor := domain.First()

	for n := 0; !cursor.IsEnd() && (limit <= 0 || n < limit); n++ {
		page, next, err := a.pagingService.Load(ctx, session, cursor)
		if err != nil {
			return fmt.Errorf("failed to load page %d: %w", n+1, err)
		}
		if err := fn(page); err != nil {
			return err
		}
		session, cursor = next, page.Next
	}

	return nil
}

// Serve runs the HTTP API until ctx is done.
func (a *App) Serve(ctx context.Context) error {
	srv := server.New(a.log, a.config.ListenAddr, a.pagingService, a.fetchService, a.metrics)
	return srv.Run(ctx)
}

// Export writes every cached movie to a snapshot file.
func (a *App) Export(ctx context.Context, path string) (int, error) {
	movies, err := a.cachedMovies(ctx)
	if err != nil {
		return 0, err
	}

	if err := a.snapshotRepo.Store(ctx, path, movies); err != nil {
		return 0, fmt.Errorf("failed to store snapshot: %w", err)
	}

	a.log.Info().Str("path", path).Int("count", len(movies)).Msg("Exported cache")
	return len(movies), nil
}

// Import upserts every movie of a snapshot file into the cache. Entries
// without an id are skipped.
func (a *App) Import(ctx context.Context, path string) (int, error) {
	movies, err := a.snapshotRepo.Get(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("failed to read snapshot: %w", err)
	}

	imported := 0
	for _, m := range movies {
		if m.ID == "" {
			a.log.Warn().Str("title", m.Title).Msg("skipping snapshot entry without id")
			continue
		}
		if err := a.movieRepo.InsertOrReplace(ctx, m); err != nil {
			return imported, fmt.Errorf("failed to import %s: %w", m.ID, err)
		}
		imported++
	}

	a.log.Info().Str("path", path).Int("count", imported).Msg("Imported cache")
	return imported, nil
}

// Refresh runs every cached movie through the fetch engine so the cache
// picks up the current catalog values, then reports the outcome.
func (a *App) Refresh(ctx context.Context) (stats domain.Statistics, err error) {
	defer func() {
		if err != nil {
			if notifyErr := a.notificationService.SendError(ctx, err); notifyErr != nil {
				a.log.Warn().Err(notifyErr).Msg("Failed to send error notification")
			}
		}
	}()

	movies, err := a.cachedMovies(ctx)
	if err != nil {
		return stats, err
	}
	stats.TotalCached = len(movies)

	for _, m := range movies {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("refresh interrupted: %w", err)
		}

		successes := 0
		for _, r := range fetch.Collect(a.fetchService.Fetch(ctx, m.ID)) {
			if r.Status == domain.StatusSuccess {
				successes++
			}
		}

		switch {
		case successes >= 2:
			stats.Refreshed++
		case successes == 1:
			stats.CacheOnly++
		default:
			stats.Failed++
		}
	}

	if stats.TotalCached > 0 {
		stats.RefreshedPercent = float64(stats.Refreshed) / float64(stats.TotalCached) * 100
	}

	a.log.Info().
		Int("total_cached", stats.TotalCached).
		Int("refreshed", stats.Refreshed).
		Int("cache_only", stats.CacheOnly).
		Int("failed", stats.Failed).
		Float64("refreshed_pct", stats.RefreshedPercent).
		Msg("=== REFRESH STATISTICS ===")

	if notifyErr := a.notificationService.SendSuccess(ctx, stats); notifyErr != nil {
		a.log.Warn().Err(notifyErr).Msg("Failed to send success notification")
	}

	return stats, nil
}

// CacheSize returns the number of cached movies.
func (a *App) CacheSize(ctx context.Context) (int, error) {
	n, err := a.movieRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count cached movies: %w", err)
	}
	return n, nil
}

// Forget removes one movie from the cache. The next fetch of id goes to the
// remote catalog only.
func (a *App) Forget(ctx context.Context, id string) error {
	rows, err := a.movieRepo.ByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to look up %s: %w", id, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("movie %s is not cached: %w", id, domain.ErrNotFound)
	}

	if err := a.movieRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete %s: %w", id, err)
	}

	a.log.Info().Str("id", id).Msg("Removed movie from cache")
	return nil
}

func (a *App) cachedMovies(ctx context.Context) ([]domain.Movie, error) {
	var all []domain.Movie
	for offset := 0; ; offset += batchSize {
		rows, err := a.movieRepo.All(ctx, offset, batchSize)
		if err != nil {
			return nil, fmt.Errorf("failed to read movie cache: %w", err)
		}
		all = append(all, rows...)
		if len(rows) < batchSize {
			return all, nil
		}
	}
}
