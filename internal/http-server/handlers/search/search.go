package search

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"finnparser/internal/apis/finn"
	"finnparser/internal/apis/finn/endpoints"
	"finnparser/internal/domain/models"
	"finnparser/internal/http-server/query"
	"finnparser/internal/http-server/respond"
	"finnparser/internal/repository"
)

type Searcher interface {
	Search(ctx context.Context, params finn.SearchParams) ([]models.SearchResult, error)
}

type PagesCollector interface {
	Collect(ctx context.Context, params finn.SearchParams, pages int) ([]models.SearchResult, error)
}

type Options struct {
	Log      *slog.Logger
	Searcher Searcher
	Pages    PagesCollector
	Timeout  time.Duration
}

// keys consumed by the handler itself; everything else is a filter
var ownKeys = map[string]bool{
	"query": true,
	"sort":  true,
	"page":  true,
	"pages": true,
}

func NewGetHandler(opts Options) http.HandlerFunc {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if opts.Searcher == nil {
			log.Error("search handler misconfigured: searcher is nil")
			respond.WriteInternalError(w)
			return
		}

		params := finn.SearchParams{Sort: r.URL.Query().Get("sort")}
		if q, ok := query.String(r, "query"); ok {
			params.Query = q
		}

		page, _, err := query.Int(r, "page")
		if err != nil {
			respond.WriteError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		if page < 0 {
			respond.WriteError(w, http.StatusBadRequest, "bad_request", "page must be >= 0")
			return
		}
		params.Page = page

		pages, _, err := query.Int(r, "pages")
		if err != nil {
			respond.WriteError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		filters := url.Values{}
		for k, vs := range r.URL.Query() {
			if !ownKeys[k] {
				filters[k] = vs
			}
		}
		if len(filters) > 0 {
			params.Filters = filters
		}

		ctx, cancel := context.WithTimeout(r.Context(), opts.Timeout)
		defer cancel()

		var results []models.SearchResult
		if pages > 1 && opts.Pages != nil {
			results, err = opts.Pages.Collect(ctx, params, pages)
		} else {
			results, err = opts.Searcher.Search(ctx, params)
		}
		if err != nil {
			if status := endpoints.StatusOf(err); status != 0 {
				log.Warn("search upstream error", "status", status)
				respond.WriteError(w, http.StatusBadGateway, "upstream_error", err.Error())
				return
			}
			log.Error("search failed", "err", err)
			respond.WriteInternalError(w)
			return
		}

		meta := &repository.SearchMeta{Sort: params.Sort, Filters: filters, Pages: pages}
		if params.Query != nil {
			meta.Query = *params.Query
		}

		respond.WriteJSON(w, http.StatusOK, repository.SearchResult{
			FetchedAt: time.Now().UTC().Format(time.RFC3339),
			Search:    meta,
			Results:   results,
			Count:     len(results),
		})
	}
}
