package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Clamps(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        Params
	}{
		{"defaults", 0, 0, Params{Page: 1, Limit: DefaultLimit, Offset: 0}},
		{"negative page", -3, 10, Params{Page: 1, Limit: 10, Offset: 0}},
		{"over max", 2, 10000, Params{Page: 2, Limit: MaxLimit, Offset: MaxLimit}},
		{"third page", 3, 20, Params{Page: 3, Limit: 20, Offset: 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, &tt.want, New(tt.page, tt.limit))
		})
	}
}

func TestNewPage(t *testing.T) {
	page := NewPage([]int{1, 2}, New(2, 2), 5)
	assert.Equal(t, 3, page.Meta.TotalPages)
	assert.True(t, page.Meta.HasNext)
	assert.True(t, page.Meta.HasPrev)

	last := NewPage([]int{5}, New(3, 2), 5)
	assert.False(t, last.Meta.HasNext)

	empty := NewPage([]int{}, New(1, 10), 0)
	assert.Zero(t, empty.Meta.TotalPages)
	assert.False(t, empty.Meta.HasNext)
	assert.False(t, empty.Meta.HasPrev)
}
