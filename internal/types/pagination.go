package types

import "math"

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
	// MaxPage keeps Page*Limit within an int32 offset.
	MaxPage = math.MaxInt32 / MaxPageSize
)

// PageRequest selects a 1-based page of Limit items.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps the request to valid bounds.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

func (p PageRequest) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.Limit
}

// PageResponse is the envelope of paginated listings.
type PageResponse[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
