package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"villagevoice/internal/config"

	"golang.org/x/time/rate"
)

var ErrNoAddress = errors.New("no address for point")

// Nominatim reverse geocodes through an OpenStreetMap Nominatim endpoint.
// Requests are throttled to the configured rate; the public instance allows
// one per second.
type Nominatim struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	logger    *slog.Logger
}

func NewNominatim(cfg config.GeocoderConfig, logger *slog.Logger) *Nominatim {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Nominatim{
		baseURL:   strings.TrimRight(cfg.URL, "/"),
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RPS), 1),
		logger:    logger,
	}
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

func (n *Nominatim) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	const op = "geocode.Nominatim.Reverse"

	if err := n.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%s: rate wait: %w", op, err)
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if n.userAgent != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}

	start := time.Now()
	resp, err := n.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%s: upstream status %s", op, resp.Status)
	}

	var body reverseResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return "", fmt.Errorf("%s: decode: %w", op, err)
	}
	if body.Error != "" || strings.TrimSpace(body.DisplayName) == "" {
		return "", fmt.Errorf("%s: %w", op, ErrNoAddress)
	}

	n.logger.Debug("reverse geocoded",
		slog.Float64("lat", lat),
		slog.Float64("lng", lng),
		slog.Duration("took", time.Since(start)),
	)
	return body.DisplayName, nil
}
