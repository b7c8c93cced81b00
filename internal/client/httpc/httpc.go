package httpc

import (
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

type Options struct {
	// Timeout bounds the whole round-trip including the body read;
	// 0 means no client-side limit.
	Timeout time.Duration
	Proxy   func(*http.Request) (*url.URL, error)

	MaxIdleConnsPerHost int
}

func New(timeout time.Duration) *http.Client {
	return NewWithOptions(Options{Timeout: timeout})
}

func NewWithProxy(timeout time.Duration, proxyFunc func(*http.Request) (*url.URL, error)) *http.Client {
	return NewWithOptions(Options{Timeout: timeout, Proxy: proxyFunc})
}

func NewWithOptions(opts Options) *http.Client {
	// cookiejar.New only fails on a bad PublicSuffixList, nil is fine
	jar, _ := cookiejar.New(nil)

	if opts.MaxIdleConnsPerHost <= 0 {
		opts.MaxIdleConnsPerHost = 20
	}

	tr := &http.Transport{
		Proxy: opts.Proxy,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 20 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxIdleConns:        100,
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		IdleConnTimeout:     90 * time.Second,

		ForceAttemptHTTP2: true,
	}

	return &http.Client{
		Transport: tr,
		Timeout:   opts.Timeout,
		Jar:       jar,
	}
}
