package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type doFunc func(*http.Request) (*http.Response, error)

func (f doFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }

func resp(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader("")),
	}
}

func TestBuildValidates(t *testing.T) {
	if _, err := Build(Options{}); err == nil {
		t.Error("nil client: expected error")
	}
	if _, err := Build(Options{HTTPClient: http.DefaultClient, Retries: -1}); err == nil {
		t.Error("negative retries: expected error")
	}
	if _, err := Build(Options{HTTPClient: http.DefaultClient, Concurrency: -1}); err == nil {
		t.Error("negative concurrency: expected error")
	}
}

func TestRetryRecoversFrom5xx(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, "ok")
	}))
	defer srv.Close()

	tr, err := Build(Options{
		HTTPClient:  srv.Client(),
		Retries:     3,
		Concurrency: 2,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
		LogRequests: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	res, err := tr.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK || hits != 3 {
		t.Errorf("status = %d after %d hits", res.StatusCode, hits)
	}
}

func TestRetryReturnsLastResponse(t *testing.T) {
	var calls int
	r := &RetryTransport{
		Base: doFunc(func(*http.Request) (*http.Response, error) {
			calls++
			return resp(http.StatusBadGateway), nil
		}),
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
		MaxDelay:   time.Millisecond,
	}

	req, _ := http.NewRequest(http.MethodGet, "http://finn.test/", nil)
	res, err := r.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if res.StatusCode != http.StatusBadGateway || calls != 3 {
		t.Errorf("status = %d after %d calls", res.StatusCode, calls)
	}
}

func TestRetrySkips4xx(t *testing.T) {
	var calls int
	r := &RetryTransport{
		Base: doFunc(func(*http.Request) (*http.Response, error) {
			calls++
			return resp(http.StatusNotFound), nil
		}),
		MaxRetries: 3,
	}

	req, _ := http.NewRequest(http.MethodGet, "http://finn.test/", nil)
	res, err := r.Do(req)
	if err != nil || res.StatusCode != http.StatusNotFound || calls != 1 {
		t.Errorf("status = %v err = %v calls = %d", res, err, calls)
	}
}

func TestRetryNetworkErrors(t *testing.T) {
	netErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

	var calls int
	r := &RetryTransport{
		Base: doFunc(func(*http.Request) (*http.Response, error) {
			calls++
			return nil, netErr
		}),
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
		MaxDelay:   time.Millisecond,
	}

	req, _ := http.NewRequest(http.MethodGet, "http://finn.test/", nil)
	if _, err := r.Do(req); !errors.Is(err, netErr) {
		t.Fatalf("err = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d", calls)
	}

	calls = 0
	plain := errors.New("bad request build")
	r.Base = doFunc(func(*http.Request) (*http.Response, error) {
		calls++
		return nil, plain
	})
	if _, err := r.Do(req); !errors.Is(err, plain) || calls != 1 {
		t.Errorf("err = %v calls = %d", err, calls)
	}
}

func TestRetryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &RetryTransport{
		Base: doFunc(func(*http.Request) (*http.Response, error) {
			cancel()
			return resp(http.StatusTooManyRequests), nil
		}),
		MaxRetries: 5,
		BaseDelay:  time.Second,
		MaxDelay:   time.Second,
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "http://finn.test/", nil)
	if _, err := r.Do(req); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestRetryAfterDelay(t *testing.T) {
	tests := map[string]time.Duration{
		"":     0,
		"abc":  0,
		"-1":   0,
		"2":    2 * time.Second,
		"3600": 60 * time.Second,
	}
	for header, want := range tests {
		r := resp(http.StatusTooManyRequests)
		if header != "" {
			r.Header.Set("Retry-After", header)
		}
		if got := retryAfterDelay(r); got != want {
			t.Errorf("Retry-After %q = %v, want %v", header, got, want)
		}
	}
}

func TestBackoffBounded(t *testing.T) {
	for attempt := 0; attempt < 80; attempt++ {
		d := backoff(100*time.Millisecond, time.Second, attempt)
		if d <= 0 || d > 1500*time.Millisecond {
			t.Fatalf("attempt %d: backoff = %v", attempt, d)
		}
	}
}

func TestConcurrencyLimit(t *testing.T) {
	var inFlight, peak int32
	base := doFunc(func(*http.Request) (*http.Response, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return resp(http.StatusOK), nil
	})
	tr := &ConcurrencyTransport{Base: base, sem: newSemaphore(2)}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, _ := http.NewRequest(http.MethodGet, "http://finn.test/", nil)
			if _, err := tr.Do(req); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if peak > 2 {
		t.Errorf("peak in-flight = %d", peak)
	}
}
