// Package client assembles the HTTP stack every marketplace call goes
// through.
package client

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"finnparser/internal/client/httpc"
	"finnparser/internal/client/proxy"
	"finnparser/internal/client/transport"
)

type Transport = transport.Transport

type Options struct {
	HTTPClient  *http.Client
	Retries     int
	Workers     int
	LogRequests bool

	BaseDelay time.Duration
	MaxDelay  time.Duration

	Logger *slog.Logger
}

func Build(opts Options) (Transport, error) {
	return transport.Build(transport.Options{
		HTTPClient:  opts.HTTPClient,
		Retries:     opts.Retries,
		Concurrency: opts.Workers,
		BaseDelay:   opts.BaseDelay,
		MaxDelay:    opts.MaxDelay,
		LogRequests: opts.LogRequests,
		Logger:      opts.Logger,
	})
}

func NewHTTPClient(timeout time.Duration) *http.Client {
	return httpc.New(timeout)
}

func NewHTTPClientWithProxy(timeout time.Duration, proxyFunc func(*http.Request) (*url.URL, error)) *http.Client {
	return httpc.NewWithOptions(httpc.Options{
		Timeout:             timeout,
		Proxy:               proxyFunc,
		MaxIdleConnsPerHost: 32,
	})
}

func ProxyFuncFromProvider(p proxy.Provider, failOpen bool, log *slog.Logger) func(*http.Request) (*url.URL, error) {
	return proxy.FromProvider(p, failOpen, log)
}
