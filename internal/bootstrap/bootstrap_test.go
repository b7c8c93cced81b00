package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"finnparser/internal/apis/finn"
	"finnparser/internal/config"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestBuildFinn(t *testing.T) {
	var ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		fmt.Fprint(w, `{"docs":[]}`)
	}))
	defer srv.Close()

	cfg := &config.Config{}
	cfg.Finn.BaseURL = srv.URL
	cfg.Finn.UserAgent = "bootstrap-test"
	cfg.HTTP.TimeoutSeconds = 5
	cfg.HTTP.Retries = 1
	cfg.Proxy.Mode = "disabled"

	svc, err := BuildFinn(cfg, quiet(), 2)
	if err != nil {
		t.Fatalf("BuildFinn: %v", err)
	}

	res, err := svc.Search(context.Background(), finn.SearchParams{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 0 {
		t.Errorf("results = %v", res)
	}
	if ua != "bootstrap-test" {
		t.Errorf("User-Agent = %q", ua)
	}
}

func TestBuildTransportBadProxy(t *testing.T) {
	cfg := &config.Config{}
	cfg.Proxy.Mode = "list"

	if _, err := BuildTransport(cfg, quiet(), 1); err == nil {
		t.Fatal("empty proxy list: expected error")
	}
}

func TestOpenSeen(t *testing.T) {
	cfg := &config.Config{}
	cfg.Seen.Backend = "lru"
	cfg.Seen.Capacity = 10

	store, closeFn, err := OpenSeen(context.Background(), cfg, quiet())
	if err != nil {
		t.Fatalf("OpenSeen: %v", err)
	}
	defer closeFn()

	if ok, _ := store.Add(context.Background(), "1"); !ok {
		t.Error("first Add should report new")
	}
}
