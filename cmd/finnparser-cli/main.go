package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"finnparser/internal/apis/finn"
	"finnparser/internal/apis/finn/usecases"
	"finnparser/internal/bootstrap"
	"finnparser/internal/config"
	"finnparser/internal/domain/models"
	"finnparser/internal/logger"
	"finnparser/internal/repository"
	jsonfile "finnparser/internal/repository/json"
)

// filterFlag collects repeated -filter key=value pairs.
type filterFlag url.Values

func (f filterFlag) String() string {
	return url.Values(f).Encode()
}

func (f filterFlag) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(k) == "" {
		return fmt.Errorf("filter must look like key=value, got %q", s)
	}
	url.Values(f).Add(strings.TrimSpace(k), v)
	return nil
}

func main() {
	filters := filterFlag{}

	var (
		configPath = flag.String("config", "./config/config.yaml", "path to config.yaml")
		advertID   = flag.String("advert", "", "fetch a single advert by id instead of searching")
		queryText  = flag.String("query", "", "free-text search query")
		sortOrder  = flag.String("sort", "", "sort order (default PUBLISHED_DESC)")
		page       = flag.Int("page", 0, "first result page")
		pages      = flag.Int("pages", 1, "number of pages to collect")
		outputFile = flag.String("out", "", "override output file (optional)")
	)
	flag.Var(filters, "filter", "extra search parameter key=value (repeatable)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
		App:       "finnparser-cli",
	})
	slog.SetDefault(log)

	if *outputFile != "" {
		cfg.CLI.OutputFile = *outputFile
	}
	if cfg.CLI.OutputFile == "" {
		log.Error("output_file must not be empty (set in config.yaml or via -out)")
		os.Exit(1)
	}

	finnSvc, err := bootstrap.BuildFinn(cfg, log, 5)
	if err != nil {
		log.Error("build finn client failed", "err", err)
		os.Exit(1)
	}

	repo := jsonfile.New(cfg.CLI.OutputFile, log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.TimeoutSeconds)*time.Second*time.Duration(max(*pages, 1)))
	defer cancel()

	if *advertID != "" {
		res := repository.AdvertsResult{FetchedAt: time.Now().UTC().Format(time.RFC3339)}

		advert, err := finnSvc.GetAdvert(ctx, *advertID)
		switch {
		case finn.IsMissing(err):
			log.Warn("advert not available", "advert_id", *advertID, "err", err)
			res.Missing = []string{*advertID}
		case err != nil:
			log.Error("get advert failed", "advert_id", *advertID, "err", err)
			os.Exit(1)
		default:
			res.Adverts = []models.Advert{advert}
			fmt.Println(advert.String())
		}
		res.Count = len(res.Adverts)

		if err := repo.SaveAdverts(ctx, res); err != nil {
			log.Error("save json failed", "err", err)
			os.Exit(1)
		}
		return
	}

	params := finn.SearchParams{
		Query: queryText,
		Sort:  *sortOrder,
		Page:  *page,
	}
	if len(filters) > 0 {
		params.Filters = url.Values(filters)
	}

	var results []models.SearchResult
	if *pages > 1 {
		results, err = usecases.NewSearchPagesService(finnSvc, log, cfg.Pagination.MaxPages).Collect(ctx, params, *pages)
	} else {
		results, err = finnSvc.Search(ctx, params)
	}
	if err != nil {
		log.Error("search failed", "err", err)
		os.Exit(1)
	}

	res := repository.SearchResult{
		FetchedAt: time.Now().UTC().Format(time.RFC3339),
		Search: &repository.SearchMeta{
			Query:   *queryText,
			Sort:    *sortOrder,
			Filters: url.Values(filters),
			Pages:   *pages,
		},
		Results: results,
		Count:   len(results),
	}

	if err := repo.SaveSearch(ctx, res); err != nil {
		log.Error("save json failed", "err", err)
		os.Exit(1)
	}

	log.Info("done",
		"env", cfg.Env,
		"query", *queryText,
		"count", len(results),
		"output", cfg.CLI.OutputFile,
	)
}
