package shared

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePageQuery(t *testing.T) {
	q := url.Values{}
	assert.Equal(t, PageQuery{}, ParsePageQuery(q), "absent params mean the full list")

	q.Set("limit", "10")
	assert.Equal(t, PageQuery{Page: 1, Limit: 10}, ParsePageQuery(q))

	q.Set("page", "3")
	assert.Equal(t, PageQuery{Page: 3, Limit: 10}, ParsePageQuery(q))

	q.Set("limit", "-5")
	assert.Equal(t, PageQuery{}, ParsePageQuery(q))

	q.Set("limit", "abc")
	assert.Equal(t, PageQuery{}, ParsePageQuery(q))
}

func TestPageQueryBounds(t *testing.T) {
	lo, hi := PageQuery{}.Bounds(7)
	assert.Equal(t, 0, lo)
	assert.Equal(t, 7, hi)

	lo, hi = PageQuery{Page: 1, Limit: 3}.Bounds(7)
	assert.Equal(t, 0, lo)
	assert.Equal(t, 3, hi)

	lo, hi = PageQuery{Page: 3, Limit: 3}.Bounds(7)
	assert.Equal(t, 6, lo)
	assert.Equal(t, 7, hi)

	lo, hi = PageQuery{Page: 5, Limit: 3}.Bounds(7)
	assert.Equal(t, 7, lo)
	assert.Equal(t, 7, hi)
}
