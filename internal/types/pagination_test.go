package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		in     PageRequest
		want   PageRequest
		offset int
	}{
		{"defaults", PageRequest{}, PageRequest{Page: 1, Limit: DefaultPageSize}, 0},
		{"second page", PageRequest{Page: 2, Limit: 10}, PageRequest{Page: 2, Limit: 10}, 10},
		{"limit capped", PageRequest{Page: 1, Limit: 1000}, PageRequest{Page: 1, Limit: MaxPageSize}, 0},
		{"page capped", PageRequest{Page: math.MaxInt64, Limit: MaxPageSize}, PageRequest{Page: MaxPage, Limit: MaxPageSize}, (MaxPage - 1) * MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
			assert.Equal(t, tt.offset, tt.in.Offset())
			assert.GreaterOrEqual(t, tt.in.Offset(), 0)
		})
	}
}
