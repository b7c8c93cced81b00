package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"finnparser/internal/apis/finn"
	"finnparser/internal/config"
	"finnparser/internal/repository/seen"
)

// BuildFinn wires the transport and the marketplace client from config.
func BuildFinn(profile *config.Config, log *slog.Logger, concurrency int) (finn.Service, error) {
	tr, err := BuildTransport(profile, log, concurrency)
	if err != nil {
		return nil, err
	}

	return finn.New(tr, finn.Options{
		BaseURL:   profile.Finn.BaseURL,
		SearchID:  profile.Finn.SearchID,
		UserAgent: profile.Finn.UserAgent,
		Logger:    log,
	}), nil
}

func OpenSeen(ctx context.Context, profile *config.Config, log *slog.Logger) (seen.Store, func() error, error) {
	return seen.Open(ctx, seen.Config{
		Backend:       profile.Seen.Backend,
		Capacity:      profile.Seen.Capacity,
		RedisAddr:     profile.Seen.RedisAddr,
		RedisPassword: profile.Seen.RedisPassword,
		RedisDB:       profile.Seen.RedisDB,
		RedisKey:      profile.Seen.RedisKey,
		RedisTTL:      time.Duration(profile.Seen.RedisTTLSeconds) * time.Second,
		PostgresDSN:   profile.Seen.PostgresDSN,
	}, log)
}
