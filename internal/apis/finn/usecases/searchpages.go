package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finnparser/internal/apis/finn"
	"finnparser/internal/domain/models"
)

const maxCollected = 200_000

type Searcher interface {
	Search(ctx context.Context, params finn.SearchParams) ([]models.SearchResult, error)
}

type SearchPagesService struct {
	finn     Searcher
	log      *slog.Logger
	maxPages int
}

func NewSearchPagesService(searcher Searcher, logger *slog.Logger, maxPages int) *SearchPagesService {
	if logger == nil {
		logger = slog.Default()
	}
	if maxPages <= 0 {
		maxPages = 50
	}
	return &SearchPagesService{
		finn:     searcher,
		log:      logger,
		maxPages: maxPages,
	}
}

// Collect walks search pages starting at params.Page (or 1) until a page
// comes back empty or pages is reached. Results are de-duplicated by id,
// first occurrence wins. pages <= 0 falls back to the configured maximum.
func (s *SearchPagesService) Collect(ctx context.Context, params finn.SearchParams, pages int) ([]models.SearchResult, error) {
	if pages <= 0 || pages > s.maxPages {
		pages = s.maxPages
	}
	first := params.Page
	if first <= 0 {
		first = 1
	}

	s.log.Info("collect search pages",
		"first_page", first,
		"pages", pages,
		"sort", params.Sort,
	)

	out := make([]models.SearchResult, 0, 128)
	seen := make(map[string]struct{}, 128)

	for page := first; page < first+pages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		params.Page = page
		results, err := s.finn.Search(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("search page=%d: %w", page, err)
		}
		if len(results) == 0 {
			break
		}

		for _, r := range results {
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
			out = append(out, r)
			if len(out) > maxCollected {
				return nil, errors.New("too many search results collected: possible infinite pagination")
			}
		}
	}

	s.log.Info("search pages collected", "count", len(out))
	return out, nil
}
