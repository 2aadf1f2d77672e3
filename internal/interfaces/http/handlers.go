package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/astroluna/astroluna/internal/application/chart"
	"github.com/astroluna/astroluna/internal/domain/astro"
	"github.com/astroluna/astroluna/internal/domain/birth"
	"github.com/astroluna/astroluna/internal/infrastructure/geo"
	"github.com/astroluna/astroluna/internal/interfaces/render"
	"github.com/astroluna/astroluna/internal/telemetry/metrics"
)

// Locator resolves a place name to coordinates. Optional: without one,
// chart responses simply omit the location block.
type Locator interface {
	Geocode(ctx context.Context, place string) (geo.Location, error)
}

// Handlers holds the request handlers and their dependencies.
type Handlers struct {
	charts  *chart.Service
	wheel   *render.Wheel
	locator Locator
	metrics *metrics.Registry
	started time.Time
}

// NewHandlers wires the handler set. locator and m may be nil.
func NewHandlers(charts *chart.Service, wheel *render.Wheel, locator Locator, m *metrics.Registry) *Handlers {
	return &Handlers{
		charts:  charts,
		wheel:   wheel,
		locator: locator,
		metrics: m,
		started: time.Now(),
	}
}

// Version is reported by /health; the build entrypoint overwrites it.
var Version = "dev"

// chartRequest accepts either one free-form line in input, or the record
// fields spelled out.
type chartRequest struct {
	Input string `json:"input"`
	Name  string `json:"name"`
	Date  string `json:"date"`
	Time  string `json:"time"`
	Place string `json:"place"`
}

type synastryRequest struct {
	A string `json:"a"`
	B string `json:"b"`
}

type positionPayload struct {
	Body        string   `json:"body"`
	BodyRU      string   `json:"body_ru"`
	Resolved    bool     `json:"resolved"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Sign        string   `json:"sign,omitempty"`
	SignRU      string   `json:"sign_ru,omitempty"`
	Description string   `json:"description,omitempty"`
}

type locationPayload struct {
	DisplayName string  `json:"display_name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

type chartPayload struct {
	Name        string            `json:"name"`
	Date        string            `json:"date"`
	Time        string            `json:"time"`
	Place       string            `json:"place"`
	JulianDay   float64           `json:"julian_day"`
	InstantPath string            `json:"instant_path"`
	Positions   []positionPayload `json:"positions"`
	Report      string            `json:"report"`
	Location    *locationPayload  `json:"location,omitempty"`
}

type aspectPayload struct {
	Body       string  `json:"body"`
	BodyRU     string  `json:"body_ru"`
	Separation float64 `json:"separation"`
	Kind       string  `json:"kind"`
	Mood       string  `json:"mood"`
}

type synastryPayload struct {
	A       chartPayload    `json:"a"`
	B       chartPayload    `json:"b"`
	Aspects []aspectPayload `json:"aspects"`
	Report  string          `json:"report"`
}

type errorPayload struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"version":        Version,
		"uptime_seconds": int(time.Since(h.started).Seconds()),
		"time":           time.Now().UTC().Format(time.RFC3339),
	})
}

// Metrics exposes the Prometheus registry.
func (h *Handlers) Metrics() http.Handler {
	if h.metrics == nil {
		return http.NotFoundHandler()
	}
	return h.metrics.Handler()
}

// Chart computes a natal chart from one free-form input line.
func (h *Handlers) Chart(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.decodeRecord(w, r)
	if !ok {
		return
	}
	c, err := h.charts.Compute(r.Context(), rec)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.chartPayload(r.Context(), c, true))
}

// ChartWheel renders a natal chart as a PNG wheel.
func (h *Handlers) ChartWheel(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.decodeRecord(w, r)
	if !ok {
		return
	}
	c, err := h.charts.Compute(r.Context(), rec)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	png, err := h.wheel.Natal(c)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// Synastry computes the pairwise comparison of two input lines.
func (h *Handlers) Synastry(w http.ResponseWriter, r *http.Request) {
	syn, ok := h.decodeSynastry(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, synastryPayload{
		A:       h.chartPayload(r.Context(), syn.A, false),
		B:       h.chartPayload(r.Context(), syn.B, false),
		Aspects: aspectPayloads(syn.Aspects),
		Report:  render.SynastryReport(syn),
	})
}

// SynastryWheel renders the two charts side by side as a PNG.
func (h *Handlers) SynastryWheel(w http.ResponseWriter, r *http.Request) {
	syn, ok := h.decodeSynastry(w, r)
	if !ok {
		return
	}
	png, err := h.wheel.Synastry(syn)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// NotFound is the JSON 404 for unrouted paths.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorPayload{Error: "not found"})
}

func (h *Handlers) decodeRecord(w http.ResponseWriter, r *http.Request) (birth.Record, bool) {
	var req chartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, r, "request body must be JSON with an input field")
		return birth.Record{}, false
	}
	switch {
	case req.Input != "":
		rec, err := birth.Parse(req.Input)
		if err != nil {
			h.badRequest(w, r, err.Error())
			return birth.Record{}, false
		}
		return rec, true
	case req.Date != "" && req.Time != "":
		return birth.Record{Name: req.Name, Date: req.Date, Time: req.Time, Place: req.Place}, true
	default:
		h.badRequest(w, r, "input is required, or date and time fields")
		return birth.Record{}, false
	}
}

func (h *Handlers) decodeSynastry(w http.ResponseWriter, r *http.Request) (*chart.Synastry, bool) {
	var req synastryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, r, "request body must be JSON with a and b fields")
		return nil, false
	}
	if req.A == "" || req.B == "" {
		h.badRequest(w, r, "a and b are both required")
		return nil, false
	}
	recA, err := birth.Parse(req.A)
	if err != nil {
		h.badRequest(w, r, "a: "+err.Error())
		return nil, false
	}
	recB, err := birth.Parse(req.B)
	if err != nil {
		h.badRequest(w, r, "b: "+err.Error())
		return nil, false
	}
	syn, err := h.charts.Synastry(r.Context(), recA, recB)
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	return syn, true
}

// chartPayload flattens a chart for the wire. Location lookup runs only for
// the single-chart endpoint; a geocoder failure never fails the response.
func (h *Handlers) chartPayload(ctx context.Context, c *chart.Chart, locate bool) chartPayload {
	positions := make([]positionPayload, 0, len(astro.Bodies))
	for _, body := range astro.Bodies {
		p := positionPayload{Body: body.String(), BodyRU: render.BodyRU(body)}
		if lon, ok := c.Positions.Longitude(body); ok {
			v := lon
			sign := c.Signs[body]
			p.Resolved = true
			p.Longitude = &v
			p.Sign = sign.String()
			p.SignRU = render.SignRU(sign)
			p.Description = render.Description(sign)
		}
		positions = append(positions, p)
	}

	payload := chartPayload{
		Name:        c.Record.Name,
		Date:        c.Record.Date,
		Time:        c.Record.Time,
		Place:       c.Record.Place,
		JulianDay:   float64(c.JD),
		InstantPath: string(c.Path),
		Positions:   positions,
		Report:      render.NatalReport(c),
	}
	if locate {
		payload.Location = h.locate(ctx, c.Record.Place)
	}
	return payload
}

func (h *Handlers) locate(ctx context.Context, place string) *locationPayload {
	if h.locator == nil || place == "" {
		return nil
	}
	loc, err := h.locator.Geocode(ctx, place)
	switch {
	case err == nil:
		h.metrics.RecordGeocode("ok")
		return &locationPayload{DisplayName: loc.DisplayName, Lat: loc.Lat, Lon: loc.Lon}
	case errors.Is(err, geo.ErrNotFound):
		h.metrics.RecordGeocode("not_found")
	default:
		h.metrics.RecordGeocode("error")
		log.Warn().Err(err).Str("place", place).Msg("geocode enrichment failed")
	}
	return nil
}

func aspectPayloads(aspects []astro.Aspect) []aspectPayload {
	out := make([]aspectPayload, 0, len(aspects))
	for _, a := range aspects {
		out = append(out, aspectPayload{
			Body:       a.Body.String(),
			BodyRU:     render.BodyRU(a.Body),
			Separation: a.Separation,
			Kind:       a.Kind.String(),
			Mood:       render.AspectMood(a.Kind),
		})
	}
	return out
}

func (h *Handlers) badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	writeJSON(w, http.StatusBadRequest, errorPayload{
		Error:     msg,
		RequestID: requestIDFrom(r.Context()),
	})
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, birth.ErrFormat) || errors.Is(err, birth.ErrDateTime):
		status = http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", requestIDFrom(r.Context())).
			Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, status, errorPayload{
		Error:     err.Error(),
		RequestID: requestIDFrom(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encoding response failed")
	}
}
