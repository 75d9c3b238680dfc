package imdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	"github.com/gocolly/colly/extensions"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/moviefinder/internal/dedupe"
	"github.com/varoOP/moviefinder/internal/domain"
)

const (
	DefaultBaseURL = "https://www.imdb.com"

	pageSize = 10
)

var (
	titleRe    = regexp.MustCompile(`/title/(tt\d+)`)
	durationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?`)
)

// LinkedData is the schema.org JSON-LD block of a title page.
type LinkedData struct {
	Type            string          `json:"@type"`
	URL             string          `json:"url"`
	Name            string          `json:"name"`
	Image           string          `json:"image"`
	Description     string          `json:"description"`
	Genre           json.RawMessage `json:"genre"`
	DatePublished   string          `json:"datePublished"`
	Duration        string          `json:"duration"`
	Actor           []person        `json:"actor"`
	Director        []person        `json:"director"`
	AggregateRating struct {
		RatingValue float64 `json:"ratingValue"`
	} `json:"aggregateRating"`
}

type person struct {
	Name string `json:"name"`
}

type service struct {
	log     zerolog.Logger
	baseURL string
	timeout time.Duration
}

func NewService(log zerolog.Logger, config *domain.Config) domain.CatalogService {
	base := config.IMDbBaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	timeout := config.HTTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &service{
		log:     log.With().Str("module", "imdb").Logger(),
		baseURL: strings.TrimRight(base, "/"),
		timeout: timeout,
	}
}

func (s *service) newCollector(ctx context.Context) *colly.Collector {
	cc := colly.NewCollector(colly.AllowURLRevisit())
	extensions.RandomUserAgent(cc)
	cc.SetRequestTimeout(s.timeout)
	cc.WithTransport(&contextTransport{ctx: ctx})

	cc.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
		s.log.Debug().Str("url", r.URL.String()).Msg("visiting")
	})

	return cc
}

// Search scrapes the title results of the find page. The page lists every
// match at once, so it is sliced into pages of ten here.
func (s *service) Search(ctx context.Context, keyword string, page int) ([]domain.Movie, error) {
	if page < 1 {
		return nil, &domain.ApplicationError{Message: fmt.Sprintf("invalid page %d", page)}
	}

	cc := s.newCollector(ctx)

	var results []domain.Movie
	cc.OnHTML(`section[data-testid="find-results-section-title"]`, func(e *colly.HTMLElement) {
		e.DOM.Find("li.ipc-metadata-list-summary-item").Each(func(_ int, sel *goquery.Selection) {
			link := sel.Find(`a[href*="/title/tt"]`).First()
			href, _ := link.Attr("href")
			m := titleRe.FindStringSubmatch(href)
			if len(m) < 2 {
				return
			}

			poster, _ := sel.Find("img.ipc-image").First().Attr("src")
			movie := domain.Movie{
				ID:     m[1],
				Title:  strings.TrimSpace(link.Text()),
				Year:   strings.TrimSpace(sel.Find(".ipc-metadata-list-summary-item__li").First().Text()),
				Poster: poster,
			}
			results = append(results, movie.Normalize())
		})
	})

	u := fmt.Sprintf("%s/find/?q=%s&s=tt&ttype=ft", s.baseURL, url.QueryEscape(keyword))
	if err := s.visit(ctx, cc, u); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.Movie{}, nil
		}
		return nil, err
	}

	results = dedupe.FilterSeen(results)

	start := (page - 1) * pageSize
	if start >= len(results) {
		return []domain.Movie{}, nil
	}
	end := min(start+pageSize, len(results))

	s.log.Debug().Str("keyword", keyword).Int("page", page).Int("total", len(results)).Msg("search")
	return results[start:end], nil
}

func (s *service) ByID(ctx context.Context, id string) (*domain.Movie, error) {
	cc := s.newCollector(ctx)

	var (
		ld       *LinkedData
		parseErr error
	)
	cc.OnHTML(`script[type="application/ld+json"]`, func(e *colly.HTMLElement) {
		if ld != nil {
			return
		}
		v := &LinkedData{}
		if err := json.Unmarshal([]byte(e.Text), v); err != nil {
			parseErr = errors.Wrap(err, "failed to unmarshal linked data")
			return
		}
		ld = v
	})

	if err := s.visit(ctx, cc, fmt.Sprintf("%s/title/%s/", s.baseURL, url.PathEscape(id))); err != nil {
		return nil, err
	}

	if ld == nil {
		if parseErr != nil {
			return nil, &domain.ApplicationError{StatusCode: http.StatusOK, Message: parseErr.Error()}
		}
		return nil, domain.ErrNotFound
	}

	movie := toMovie(id, ld)
	return &movie, nil
}

func (s *service) visit(ctx context.Context, cc *colly.Collector, u string) error {
	if err := ctx.Err(); err != nil {
		return &domain.TransportError{Err: err}
	}

	var status int
	cc.OnError(func(r *colly.Response, err error) {
		status = r.StatusCode
		s.log.Debug().Err(err).Int("status", r.StatusCode).Str("url", u).Msg("request failed")
	})

	err := cc.Visit(u)
	if err == nil {
		return nil
	}

	switch {
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case status != 0:
		return &domain.ApplicationError{StatusCode: status, Message: http.StatusText(status)}
	}
	return &domain.TransportError{Err: err}
}

func toMovie(id string, ld *LinkedData) domain.Movie {
	m := domain.Movie{
		ID:       id,
		Title:    ld.Name,
		Poster:   ld.Image,
		Genre:    strings.Join(stringOrList(ld.Genre), ", "),
		Plot:     ld.Description,
		Actors:   joinNames(ld.Actor),
		Director: joinNames(ld.Director),
		Runtime:  formatRuntime(ld.Duration),
	}

	if ld.AggregateRating.RatingValue > 0 {
		m.Rating = strconv.FormatFloat(ld.AggregateRating.RatingValue, 'f', -1, 64)
	}

	if t, err := time.Parse("2006-01-02", ld.DatePublished); err == nil {
		m.Year = strconv.Itoa(t.Year())
		m.Released = t.Format("02 Jan 2006")
	}

	return m.Normalize()
}

func stringOrList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var one string
	if err := json.Unmarshal(raw, &one); err == nil && one != "" {
		return []string{one}
	}
	return nil
}

func joinNames(people []person) string {
	names := make([]string, 0, len(people))
	for _, p := range people {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	return strings.Join(names, ", ")
}

// formatRuntime converts an ISO 8601 duration such as PT2H22M to "142 min".
func formatRuntime(d string) string {
	m := durationRe.FindStringSubmatch(d)
	if m == nil || (m[1] == "" && m[2] == "") {
		return ""
	}

	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return fmt.Sprintf("%d min", hours*60+minutes)
}

// contextTransport binds the requests of one collector to ctx.
type contextTransport struct {
	ctx       context.Context
	Transport http.RoundTripper
}

func (t *contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req.WithContext(t.ctx))
}
