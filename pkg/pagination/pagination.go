// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination maps the page and limit query parameters of list
// endpoints onto LIMIT/OFFSET and describes the returned page in the
// response envelope.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the page size when none is given.
	DefaultLimit = 50

	// MaxLimit caps the page size. Larger requests are served MaxLimit rows.
	MaxLimit = 250

	// MaxPage caps the page number, which bounds the OFFSET the database has
	// to skip. Walking the whole tag table is the reindex pipeline's job.
	MaxPage = 1000
)

// Params is a clamped page request. Page is 1-indexed.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the SQL OFFSET of the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta describes the returned page.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// NewMeta describes the page p of a result set holding total rows.
func NewMeta(p Params, total int) Meta {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}

	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
	}
}

// FromRequest reads page and limit. Missing, malformed or non-positive values
// fall back to the defaults. Values above the caps are lowered to them.
func FromRequest(request *http.Request) Params {
	query := request.URL.Query()

	return Params{
		Page:  clamp(query.Get("page"), 1, MaxPage),
		Limit: clamp(query.Get("limit"), DefaultLimit, MaxLimit),
	}
}

func clamp(raw string, fallback, ceiling int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return min(n, ceiling)
}
