package api

import (
	"net/url"
	"strconv"
)

const (
	defaultListLimit = 50
	maxListLimit     = 1000
)

type ListParams struct {
	Limit  int
	Offset int
}

// parseListParams reads _limit/_offset (or limit/offset). Values that do not
// parse or fall out of range keep the defaults.
func parseListParams(q url.Values) ListParams {
	return ListParams{
		Limit:  intParam(q, defaultListLimit, maxListLimit, "_limit", "limit"),
		Offset: intParam(q, 0, -1, "_offset", "offset"),
	}
}

// intParam returns the first non-empty key as a non-negative int bounded by
// max (max < 0 means unbounded).
func intParam(q url.Values, fallback, max int, keys ...string) int {
	for _, k := range keys {
		v := q.Get(k)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || (max >= 0 && n > max) {
			return fallback
		}
		return n
	}
	return fallback
}
