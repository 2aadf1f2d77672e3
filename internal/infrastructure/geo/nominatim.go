package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/astroluna/astroluna/internal/infrastructure/cache"
)

// ErrNotFound reports a place the geocoder has never heard of.
var ErrNotFound = errors.New("geo: place not found")

// Location is one geocoded place.
type Location struct {
	DisplayName string  `json:"display_name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// NominatimConfig configures the geocoder client. The public Nominatim
// service caps clients at one request per second and requires an identifying
// user agent; the defaults respect that.
type NominatimConfig struct {
	BaseURL   string
	UserAgent string
	RPS       float64
	Burst     int
	Timeout   time.Duration
	CacheTTL  time.Duration
}

// DefaultNominatimConfig returns settings for the public service.
func DefaultNominatimConfig() NominatimConfig {
	return NominatimConfig{
		BaseURL:   "https://nominatim.openstreetmap.org",
		UserAgent: "astroluna/1.0",
		RPS:       1,
		Burst:     1,
		Timeout:   10 * time.Second,
		CacheTTL:  24 * time.Hour,
	}
}

// Nominatim geocodes place names against an OSM Nominatim endpoint, with a
// local rate limit, a circuit breaker, and a result cache in front of the
// wire.
type Nominatim struct {
	cfg     NominatimConfig
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	store   cache.Store
}

// NewNominatim builds a client. The store may be nil; lookups then always
// hit the network.
func NewNominatim(cfg NominatimConfig, store cache.Store) *Nominatim {
	if cfg.BaseURL == "" {
		cfg = DefaultNominatimConfig()
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "nominatim",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// An unknown place is a healthy answer from the service.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("geocoder breaker state change")
		},
	})
	return &Nominatim{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		breaker: breaker,
		store:   store,
	}
}

// Geocode resolves a place name to coordinates. Results are cached under
// geo:<place>; ErrNotFound is returned for empty result sets and is not
// cached, so a later map update can still resolve the place.
func (n *Nominatim) Geocode(ctx context.Context, place string) (Location, error) {
	if place == "" {
		return Location{}, ErrNotFound
	}

	key := cache.Key("geo", place)
	if n.store != nil {
		if raw, ok, err := n.store.Get(ctx, key); err == nil && ok {
			var loc Location
			if err := json.Unmarshal([]byte(raw), &loc); err == nil {
				return loc, nil
			}
			log.Debug().Str("place", place).Msg("discarding undecodable geocode cache entry")
		}
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return Location{}, err
	}

	res, err := n.breaker.Execute(func() (interface{}, error) {
		return n.fetch(ctx, place)
	})
	if err != nil {
		return Location{}, err
	}
	loc := res.(Location)

	if n.store != nil {
		if raw, err := json.Marshal(loc); err == nil {
			if err := n.store.Set(ctx, key, string(raw), n.cfg.CacheTTL); err != nil {
				log.Debug().Err(err).Str("place", place).Msg("geocode cache write failed")
			}
		}
	}
	return loc, nil
}

// nominatimResult mirrors the wire format, which carries coordinates as
// strings.
type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

func (n *Nominatim) fetch(ctx context.Context, place string) (Location, error) {
	u := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", n.cfg.BaseURL, url.QueryEscape(place))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Location{}, err
	}
	req.Header.Set("User-Agent", n.cfg.UserAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return Location{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("geo: nominatim status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Location{}, fmt.Errorf("geo: decode response: %w", err)
	}
	if len(results) == 0 {
		return Location{}, ErrNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Location{}, fmt.Errorf("geo: bad latitude %q", results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Location{}, fmt.Errorf("geo: bad longitude %q", results[0].Lon)
	}
	return Location{DisplayName: results[0].DisplayName, Lat: lat, Lon: lon}, nil
}
