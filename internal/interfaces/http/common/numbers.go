package common

import (
	"net/http"
	"strconv"
	"strings"
)

// ParsePositiveInt parses positive integers with fallback.
func ParsePositiveInt(value string, fallback int) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, false
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback, false
	}
	return parsed, true
}

// PageParams reads page and limit from the query string.
func PageParams(r *http.Request) (page, limit int) {
	page, _ = ParsePositiveInt(r.URL.Query().Get("page"), 1)
	limit, _ = ParsePositiveInt(r.URL.Query().Get("limit"), DefaultPageLimit)
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}
