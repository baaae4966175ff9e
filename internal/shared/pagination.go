package shared

import (
	"net/url"
	"strconv"
)

// PageQuery is the optional page/limit window accepted by list endpoints.
// A zero Limit means "no window": the endpoint returns the full list, which
// is the behavior when the parameters are absent.
type PageQuery struct {
	Page  int
	Limit int
}

// ParsePageQuery reads page and limit from query parameters. Invalid or
// missing values fall back to the unpaged default.
func ParsePageQuery(q url.Values) PageQuery {
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit <= 0 {
		return PageQuery{}
	}
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}
	return PageQuery{Page: page, Limit: limit}
}

// Bounds returns the half-open slice window for a list of the given length.
// Requests past the end yield an empty window.
func (p PageQuery) Bounds(total int) (int, int) {
	if p.Limit <= 0 {
		return 0, total
	}
	lo := (p.Page - 1) * p.Limit
	if lo > total {
		lo = total
	}
	hi := lo + p.Limit
	if hi > total {
		hi = total
	}
	return lo, hi
}
