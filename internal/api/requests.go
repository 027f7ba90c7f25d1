// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/venuescope/internal/demographics"
)

// maxRankVenues bounds a single ranking request.
const maxRankVenues = 500

// maxRankEvents bounds the event list in a ranking request.
const maxRankEvents = 100

// RankRequest is the body of POST /api/v1/rank.
type RankRequest struct {
	Profile demographics.Profile     `json:"profile"`
	Venues  []demographics.Venue     `json:"venues"`
	Context demographics.RankContext `json:"context,omitempty"`
}

// Validate checks request limits. Profile semantics are validated by
// the ranking engine.
func (req *RankRequest) Validate() error {
	if len(req.Venues) > maxRankVenues {
		return fmt.Errorf("too many venues: %d exceeds limit of %d", len(req.Venues), maxRankVenues)
	}
	if len(req.Context.Events) > maxRankEvents {
		return fmt.Errorf("too many events: %d exceeds limit of %d", len(req.Context.Events), maxRankEvents)
	}
	for i, v := range req.Venues {
		if v.Key() == "" {
			return fmt.Errorf("venue %d: missing id and name", i)
		}
	}
	return nil
}

// decodeJSON decodes a request body, rejecting unknown fields and
// trailing garbage.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
