package geocode_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"villagevoice/internal/config"
	"villagevoice/internal/geocode"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newNominatim(t *testing.T, h http.HandlerFunc) *geocode.Nominatim {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return geocode.NewNominatim(config.GeocoderConfig{
		URL:       srv.URL + "/",
		UserAgent: "village-voice-test",
		Timeout:   2 * time.Second,
		RPS:       100,
	}, testLogger())
}

func TestNominatim_Reverse_OK(t *testing.T) {
	t.Parallel()

	n := newNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("lat") != "17.385" || q.Get("lon") != "78.4867" || q.Get("format") != "json" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		if r.Header.Get("User-Agent") != "village-voice-test" {
			t.Errorf("missing user agent")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"display_name":"Charminar, Hyderabad, Telangana, India","lat":"17.38"}`)
	})

	addr, err := n.Reverse(context.Background(), 17.385, 78.4867)
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if addr != "Charminar, Hyderabad, Telangana, India" {
		t.Fatalf("unexpected address %q", addr)
	}
}

func TestNominatim_Reverse_NoAddress(t *testing.T) {
	t.Parallel()

	n := newNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"error":"Unable to geocode"}`)
	})

	if _, err := n.Reverse(context.Background(), 0, 0); !errors.Is(err, geocode.ErrNoAddress) {
		t.Fatalf("expected ErrNoAddress, got %v", err)
	}
}

func TestNominatim_Reverse_UpstreamError(t *testing.T) {
	t.Parallel()

	n := newNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	})

	if _, err := n.Reverse(context.Background(), 1, 1); err == nil {
		t.Fatalf("expected error on 429")
	}
}

func TestNominatim_Reverse_CanceledContext(t *testing.T) {
	t.Parallel()

	n := newNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("request should not be sent")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := n.Reverse(ctx, 1, 1); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}

type mapCache struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *mapCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapCache) Set(_ context.Context, key, address string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = address
	return nil
}

type countingReverser struct {
	calls atomic.Int32
	addr  string
	err   error
}

func (c *countingReverser) Reverse(context.Context, float64, float64) (string, error) {
	c.calls.Add(1)
	return c.addr, c.err
}

func TestCached_HitsUpstreamOnce(t *testing.T) {
	t.Parallel()

	up := &countingReverser{addr: "Ward 3"}
	cache := &mapCache{data: map[string]string{}}
	g := geocode.NewCached(up, cache, time.Hour, testLogger())

	for i := 0; i < 3; i++ {
		addr, err := g.Reverse(context.Background(), 17.3850001, 78.4867)
		if err != nil || addr != "Ward 3" {
			t.Fatalf("Reverse: %q, %v", addr, err)
		}
	}
	if up.calls.Load() != 1 {
		t.Fatalf("expected one upstream call, got %d", up.calls.Load())
	}
	if _, ok := cache.data["17.385000,78.486700"]; !ok {
		t.Fatalf("unexpected cache keys %v", cache.data)
	}
}

func TestCached_DoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	up := &countingReverser{err: errors.New("down")}
	cache := &mapCache{data: map[string]string{}}
	g := geocode.NewCached(up, cache, time.Hour, testLogger())

	if _, err := g.Reverse(context.Background(), 1, 2); err == nil {
		t.Fatalf("expected error")
	}
	if len(cache.data) != 0 {
		t.Fatalf("failure was cached: %v", cache.data)
	}
}
