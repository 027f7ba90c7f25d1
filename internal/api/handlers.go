// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/venuescope/internal/demographics"
	"github.com/tomtom215/venuescope/internal/geo"
)

// Handler serves the ranking API.
type Handler struct {
	engine    *demographics.Engine
	startTime time.Time
}

// NewHandler creates a handler backed by the given engine.
func NewHandler(engine *demographics.Engine) *Handler {
	return &Handler{
		engine:    engine,
		startTime: time.Now(),
	}
}

// Rank handles POST /api/v1/rank. It scores and orders the submitted
// venues for the submitted visitor profile.
func (h *Handler) Rank(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RankRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		rw.ValidationFailed(err.Error())
		return
	}

	ranked, err := h.engine.Rank(r.Context(), req.Venues, req.Profile, req.Context)
	if err != nil {
		rw.ValidationFailed(err.Error())
		return
	}
	rw.SuccessWithCount(ranked, len(ranked))
}

// zoneResponse describes one zone of the service area.
type zoneResponse struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// zonesResponse is the payload of GET /api/v1/zones.
type zonesResponse struct {
	Bounds geo.BoundingBox `json:"bounds"`
	Zones  []zoneResponse  `json:"zones"`
}

// Zones handles GET /api/v1/zones. It returns the service area bounds
// and the zone centroids used for demographic grouping.
func (h *Handler) Zones(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	index := h.engine.Index()
	zones := index.Zones()
	out := make([]zoneResponse, 0, len(zones))
	for _, z := range zones {
		out = append(out, zoneResponse{Name: z.Name, Lat: z.Centroid.Lat, Lon: z.Centroid.Lon})
	}
	rw.SuccessWithCount(zonesResponse{Bounds: index.Bounds(), Zones: out}, len(out))
}

// CacheStats handles GET /api/v1/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	rw.Success(h.engine.Cache().Stats())
}

// healthResponse is the payload of the health endpoints.
type healthResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// HealthLive handles GET /api/v1/health/live.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	rw.Success(healthResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles GET /api/v1/health/ready. The service is ready
// once the engine is wired; there are no external hard dependencies.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.engine == nil {
		rw.Error(http.StatusServiceUnavailable, ErrCodeInternalError, "engine not initialized")
		return
	}
	rw.Success(healthResponse{
		Status:        "ready",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	})
}
