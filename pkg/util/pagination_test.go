package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		page, size   int
		offset, limt int
	}{
		{name: "first page", page: 1, size: 10, offset: 0, limt: 10},
		{name: "third page", page: 3, size: 10, offset: 20, limt: 10},
		{name: "page below one", page: -4, size: 5, offset: 0, limt: 5},
		{name: "default size", page: 2, size: 0, offset: DefaultPageSize, limt: DefaultPageSize},
		{name: "size capped", page: 1, size: 1000, offset: 0, limt: MaxPageSize},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			offset, limit := Calculate(tt.page, tt.size)
			assert.Equal(t, tt.offset, offset)
			assert.Equal(t, tt.limt, limit)
		})
	}
}

func TestNewMeta(t *testing.T) {
	t.Parallel()

	m := NewMeta(2, 10, 10, 25)
	assert.Equal(t, int64(3), m.TotalPages)
	assert.True(t, m.HasPrev)
	assert.True(t, m.HasNext)

	last := NewMeta(3, 20, 10, 25)
	assert.False(t, last.HasNext)
	assert.Equal(t, 1, ParseIntDefault("x", 1))
	assert.Equal(t, 7, ParseIntDefault("7", 1))
}
