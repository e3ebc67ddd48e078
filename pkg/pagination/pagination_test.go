package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageClampsNumber(t *testing.T) {
	page := NewPage(0, 10, 35)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 4, page.NumPages)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrev)
	assert.Equal(t, 2, page.NextNumber)
	assert.Equal(t, 0, page.Offset())

	last := NewPage(99, 10, 35)
	assert.Equal(t, 4, last.Number)
	assert.False(t, last.HasNext)
	assert.Equal(t, 3, last.PrevNumber)
	assert.Equal(t, 30, last.Offset())
}

func TestNewPageEmptyListingHasOnePage(t *testing.T) {
	page := NewPage(3, 10, 0)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.NumPages)
	assert.Equal(t, []int{1}, page.Range())
}

func TestNormalizeSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, NormalizeSize(0))
	assert.Equal(t, MaxPageSize, NormalizeSize(1000))
	assert.Equal(t, 5, NormalizeSize(5))
}

func TestWindow(t *testing.T) {
	cases := []struct {
		name    string
		current int
		total   int
		want    []int
	}{
		{name: "all pages when few", current: 3, total: 7, want: []int{1, 2, 3, 4, 5, 6, 7}},
		{name: "single page", current: 1, total: 1, want: []int{1}},
		{name: "near start", current: 4, total: 20, want: []int{1, 2, 3, 4, 5, Ellipsis, 20}},
		{name: "first page", current: 1, total: 8, want: []int{1, 2, 3, 4, 5, Ellipsis, 8}},
		{name: "near end", current: 17, total: 20, want: []int{1, Ellipsis, 16, 17, 18, 19, 20}},
		{name: "last page", current: 20, total: 20, want: []int{1, Ellipsis, 16, 17, 18, 19, 20}},
		{name: "middle", current: 10, total: 20, want: []int{1, Ellipsis, 9, 10, 11, Ellipsis, 20}},
		{name: "first middle", current: 5, total: 20, want: []int{1, Ellipsis, 4, 5, 6, Ellipsis, 20}},
		{name: "out of range clamps", current: 50, total: 9, want: []int{1, Ellipsis, 5, 6, 7, 8, 9}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Window(tc.current, tc.total))
		})
	}
}
