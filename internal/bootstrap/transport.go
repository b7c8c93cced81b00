package bootstrap

import (
	"log/slog"
	"time"

	"finnparser/internal/client"
	"finnparser/internal/client/proxy"
	"finnparser/internal/client/transport"
	"finnparser/internal/config"
)

func BuildTransport(profile *config.Config, log *slog.Logger, concurrency int) (transport.Transport, error) {
	log.Info("profile",
		"env", profile.Env,
		"base_url", profile.Finn.BaseURL,
		"proxy_mode", profile.Proxy.Mode,
		"proxy_list_len", len(profile.Proxy.List),
		"retries", profile.HTTP.Retries,
	)

	pvd, failOpen, err := proxy.FromConfig(proxy.Config{
		Mode:               profile.Proxy.Mode,
		List:               profile.Proxy.List,
		RotationURL:        profile.Proxy.RotationURL,
		RotationTTLSeconds: profile.Proxy.RotationTTLSeconds,
		FailOpen:           profile.Proxy.FailOpen,
	}, log)
	if err != nil {
		return nil, err
	}

	proxyFunc := client.ProxyFuncFromProvider(pvd, failOpen, log)

	if proxyFunc == nil {
		log.Debug("proxy OFF", "mode", profile.Proxy.Mode)
	} else {
		log.Info("proxy ON", "mode", profile.Proxy.Mode, "fail_open", profile.Proxy.FailOpen)
	}

	httpClient := client.NewHTTPClientWithProxy(
		time.Duration(profile.HTTP.TimeoutSeconds)*time.Second,
		proxyFunc,
	)

	return client.Build(client.Options{
		HTTPClient:  httpClient,
		Retries:     profile.HTTP.Retries,
		Workers:     concurrency,
		LogRequests: profile.Log.Level == "debug",
		Logger:      log,
	})
}
