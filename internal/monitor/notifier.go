package monitor

import (
	"context"
	"log/slog"

	"finnparser/internal/domain/models"
)

// Notifier receives every advert first seen after the baseline pass.
type Notifier interface {
	Notify(ctx context.Context, r models.SearchResult) error
}

type NotifierFunc func(ctx context.Context, r models.SearchResult) error

func (f NotifierFunc) Notify(ctx context.Context, r models.SearchResult) error {
	return f(ctx, r)
}

type LogNotifier struct {
	Log *slog.Logger
}

func (n LogNotifier) Notify(_ context.Context, r models.SearchResult) error {
	log := n.Log
	if log == nil {
		log = slog.Default()
	}
	log.Info("advert found",
		"title", r.Title,
		"advert_id", r.ID,
		"price", r.Price,
		"currency", r.CurrencyCode,
		"location", r.Location,
		"url", r.URL,
	)
	return nil
}
