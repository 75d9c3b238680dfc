package omdb

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/moviefinder/internal/domain"
)

const (
	DefaultBaseURL = "https://www.omdbapi.com/"

	// notFound is the message OMDb answers with when a search or lookup
	// matched nothing.
	notFound = "Movie not found!"
)

// SearchResponse is the body of a ?s= request.
type SearchResponse struct {
	Search []struct {
		Title  string `json:"Title"`
		Year   string `json:"Year"`
		ImdbID string `json:"imdbID"`
		Type   string `json:"Type"`
		Poster string `json:"Poster"`
	} `json:"Search"`
	TotalResults string `json:"totalResults"`
	Response     string `json:"Response"`
	Error        string `json:"Error"`
}

// MovieResponse is the body of a ?i= request.
type MovieResponse struct {
	Response   string `json:"Response"`
	Error      string `json:"Error"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	ImdbRating string `json:"imdbRating"`
	ImdbID     string `json:"imdbID"`
}

type apiKeyTransport struct {
	Transport http.RoundTripper
	APIKey    string
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	// RoundTrip must not modify the caller's request
	r := req.Clone(req.Context())
	q := r.URL.Query()
	q.Set("apikey", t.APIKey)
	r.URL.RawQuery = q.Encode()

	return base.RoundTrip(r)
}

type service struct {
	log     zerolog.Logger
	client  *http.Client
	baseURL string
}

func NewService(log zerolog.Logger, config *domain.Config) domain.CatalogService {
	base := config.OMDbBaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	timeout := config.HTTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &service{
		log: log.With().Str("module", "omdb").Logger(),
		client: &http.Client{
			Timeout:   timeout,
			Transport: &apiKeyTransport{APIKey: config.OMDbAPIKey},
		},
		baseURL: base,
	}
}

func (s *service) Search(ctx context.Context, keyword string, page int) ([]domain.Movie, error) {
	params := url.Values{}
	params.Set("s", keyword)
	params.Set("page", strconv.Itoa(page))

	res := &SearchResponse{}
	if err := s.get(ctx, params, res); err != nil {
		return nil, err
	}

	if !strings.EqualFold(res.Response, "True") {
		if res.Error == notFound {
			return []domain.Movie{}, nil
		}
		return nil, &domain.ApplicationError{StatusCode: http.StatusOK, Message: res.Error}
	}

	movies := make([]domain.Movie, 0, len(res.Search))
	for _, v := range res.Search {
		m := domain.Movie{
			ID:     v.ImdbID,
			Title:  v.Title,
			Year:   v.Year,
			Poster: v.Poster,
		}
		movies = append(movies, m.Normalize())
	}

	s.log.Debug().Str("keyword", keyword).Int("page", page).Int("count", len(movies)).Msg("search")
	return movies, nil
}

func (s *service) ByID(ctx context.Context, id string) (*domain.Movie, error) {
	params := url.Values{}
	params.Set("i", id)
	params.Set("plot", "full")

	res := &MovieResponse{}
	if err := s.get(ctx, params, res); err != nil {
		return nil, err
	}

	if !strings.EqualFold(res.Response, "True") {
		if res.Error == notFound || strings.HasPrefix(res.Error, "Incorrect IMDb ID") {
			return nil, domain.ErrNotFound
		}
		return nil, &domain.ApplicationError{StatusCode: http.StatusOK, Message: res.Error}
	}

	m := domain.Movie{
		ID:       res.ImdbID,
		Title:    res.Title,
		Poster:   res.Poster,
		Year:     res.Year,
		Released: res.Released,
		Genre:    res.Genre,
		Plot:     res.Plot,
		Actors:   res.Actors,
		Director: res.Director,
		Runtime:  res.Runtime,
		Rating:   res.ImdbRating,
	}
	m = m.Normalize()

	return &m, nil
}

func (s *service) get(ctx context.Context, params url.Values, v any) error {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return errors.Wrap(err, "invalid omdb base url")
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.TransportError{Err: errors.Wrap(err, "failed to read response body")}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		// OMDb reports e.g. an invalid key as 401 with a JSON error body
		var failure struct {
			Error string `json:"Error"`
		}
		if json.Unmarshal(body, &failure) == nil && failure.Error != "" {
			msg = failure.Error
		}
		return &domain.ApplicationError{StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return &domain.ApplicationError{StatusCode: resp.StatusCode, Message: errors.Wrap(err, "failed to unmarshal response").Error()}
	}

	return nil
}
