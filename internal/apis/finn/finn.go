package finn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"finnparser/internal/apis/finn/endpoints"
	"finnparser/internal/apis/finn/hydration"
	"finnparser/internal/apis/finn/mapper"
	"finnparser/internal/apis/finn/responses"
	"finnparser/internal/client"
	"finnparser/internal/domain/models"
)

const (
	DefaultBaseURL   = "https://www.finn.no"
	DefaultUserAgent = "Mozilla/5.0 (compatible; finnparser/0.1; +https://www.finn.no)"
)

type SearchParams = endpoints.SearchParams

var (
	ErrNotFound = endpoints.ErrNotFound
	ErrNoData   = hydration.ErrNoData
)

// IsMissing reports whether err means the advert does not exist or its page
// carries nothing to parse.
func IsMissing(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoData)
}

type Service interface {
	GetAdvert(ctx context.Context, id string) (models.Advert, error)
	Search(ctx context.Context, params SearchParams) ([]models.SearchResult, error)
	SearchPage(ctx context.Context, params SearchParams) (responses.SearchPage, error)
}

type Options struct {
	BaseURL   string
	SearchID  string
	UserAgent string
	Logger    *slog.Logger
}

type service struct {
	api       *endpoints.Client
	searchID  string
	userAgent string
	log       *slog.Logger
}

func New(transport client.Transport, opts Options) Service {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.SearchID == "" {
		opts.SearchID = endpoints.DefaultSearchID
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &service{
		searchID:  opts.SearchID,
		userAgent: opts.UserAgent,
		log:       opts.Logger,
	}
	s.api = endpoints.New(transport, opts.BaseURL, s.applyDefaultHeaders)
	return s
}

func (s *service) applyDefaultHeaders(req *http.Request) {
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/json;q=0.9,*/*;q=0.8")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
}

func (s *service) GetAdvert(ctx context.Context, id string) (models.Advert, error) {
	page, err := s.api.FetchAdvertPage(ctx, id)
	if err != nil {
		return models.Advert{}, err
	}

	raw, err := hydration.Extract(page)
	if err != nil {
		if errors.Is(err, hydration.ErrNoData) {
			s.log.Debug("advert page without hydration data", "advert_id", id, "bytes", len(page))
		}
		return models.Advert{}, fmt.Errorf("advert %s: %w", id, err)
	}

	a, err := mapper.Advert(raw)
	if err != nil {
		return models.Advert{}, fmt.Errorf("advert %s: %w", id, err)
	}
	return a, nil
}

func (s *service) SearchPage(ctx context.Context, params SearchParams) (responses.SearchPage, error) {
	if _, collisions := params.Values(); len(collisions) > 0 {
		s.log.Debug("search filters override reserved params", "keys", collisions)
	}
	return s.api.FetchSearchPage(ctx, s.searchID, params)
}

func (s *service) Search(ctx context.Context, params SearchParams) ([]models.SearchResult, error) {
	page, err := s.SearchPage(ctx, params)
	if err != nil {
		return nil, err
	}
	return mapper.SearchResults(page.Docs)
}
