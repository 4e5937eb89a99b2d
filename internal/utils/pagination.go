// Package utils holds small pagination helpers shared by the HTTP, service
// and storage layers.
package utils

import (
	"strconv"
	"strings"
)

// AtoiDefault parses s as a base-10 int after trimming surrounding space.
// Empty or unparseable input yields def.
func AtoiDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// Offset returns the number of rows to skip for a 1-based page.
func Offset(page, perPage int) int {
	if page < 1 || perPage < 1 {
		return 0
	}
	return (page - 1) * perPage
}

// PageCount is ceil(total/perPage); 0 when there are no rows.
func PageCount(total int64, perPage int) int {
	if total <= 0 || perPage < 1 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
