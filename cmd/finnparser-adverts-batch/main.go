package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"finnparser/internal/apis/finn"
	"finnparser/internal/bootstrap"
	"finnparser/internal/config"
	"finnparser/internal/domain/models"
	"finnparser/internal/logger"
	"finnparser/internal/repository"
	jsonfile "finnparser/internal/repository/json"
)

// Fetches many adverts at once. Ids come from -ids (comma separated),
// -ids-file (one per line) or the numeric range -from..-to.

func main() {
	var (
		configPath = flag.String("config", "./config/config.yaml", "path to config.yaml")
		idList     = flag.String("ids", "", "comma separated advert ids")
		idsFile    = flag.String("ids-file", "", "file with one advert id per line")
		from       = flag.Int64("from", 0, "start advert id (inclusive)")
		to         = flag.Int64("to", 0, "end advert id (inclusive)")
		workers    = flag.Int("workers", 8, "concurrent workers (goroutines)")
		outPath    = flag.String("out", "./output/adverts.json", "output json file")
	)
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
		Env:       cfg.Env,
		App:       "finnparser-adverts-batch",
	})
	slog.SetDefault(log)

	explicit, err := collectIDs(*idList, *idsFile)
	if err != nil {
		log.Error("read ids failed", "err", err)
		os.Exit(1)
	}
	if len(explicit) == 0 && (*from <= 0 || *to < *from) {
		log.Error("no ids: pass -ids, -ids-file or a valid -from/-to range", "from", *from, "to", *to)
		os.Exit(1)
	}
	if *workers <= 0 {
		*workers = 4
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	finnSvc, err := bootstrap.BuildFinn(cfg, log, *workers)
	if err != nil {
		log.Error("build finn client failed", "err", err)
		os.Exit(1)
	}

	ids := make(chan string, 1024)
	foundCh := make(chan models.Advert, 1024)

	var scanned, found uint64

	var missingMu sync.Mutex
	var missing []string

	adverts := make([]models.Advert, 0, 1024)
	doneAgg := make(chan struct{})
	go func() {
		defer close(doneAgg)
		for a := range foundCh {
			adverts = append(adverts, a)
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range ids {
				atomic.AddUint64(&scanned, 1)

				a, err := finnSvc.GetAdvert(ctx, id)
				if err != nil {
					if finn.IsMissing(err) {
						missingMu.Lock()
						missing = append(missing, id)
						missingMu.Unlock()
						continue
					}
					if ctx.Err() == nil {
						log.Warn("GetAdvert failed", "advert_id", id, "err", err)
					}
					continue
				}

				atomic.AddUint64(&found, 1)
				foundCh <- a
			}
		}()
	}

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	go func() {
		for range ticker.C {
			log.Info("batch progress",
				"scanned", atomic.LoadUint64(&scanned),
				"found", atomic.LoadUint64(&found),
			)
		}
	}()

	feed := func(id string) bool {
		select {
		case ids <- id:
			return true
		case <-ctx.Done():
			return false
		}
	}
	if len(explicit) > 0 {
		for _, id := range explicit {
			if !feed(id) {
				break
			}
		}
	} else {
		for id := *from; id <= *to; id++ {
			if !feed(strconv.FormatInt(id, 10)) {
				break
			}
		}
	}
	close(ids)

	wg.Wait()
	close(foundCh)
	<-doneAgg

	if ctx.Err() != nil {
		log.Warn("interrupted, saving partial result")
	}

	sort.Slice(adverts, func(i, j int) bool { return adverts[i].ID < adverts[j].ID })
	sort.Strings(missing)

	res := repository.AdvertsResult{
		FetchedAt: time.Now().UTC().Format(time.RFC3339),
		Adverts:   adverts,
		Missing:   missing,
		Count:     len(adverts),
	}
	repo := jsonfile.New(*outPath, log)
	if err := repo.SaveAdverts(context.Background(), res); err != nil {
		log.Error("save adverts json failed", "err", err)
		os.Exit(1)
	}

	log.Info("done", "scanned", atomic.LoadUint64(&scanned), "found", len(adverts), "missing", len(missing), "out", *outPath)
}

func collectIDs(list, file string) ([]string, error) {
	var out []string
	for _, s := range strings.Split(list, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if file == "" {
		return out, nil
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}
