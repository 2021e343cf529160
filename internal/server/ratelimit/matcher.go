package ratelimit

import (
	"strings"
)

// unlimitedPaths are never rate limited.
var unlimitedPaths = []string{"/health", "/metrics"}

// Exempt reports whether a request bypasses rate limiting.
// Paths are matched with or without the /api/v1 prefix.
func Exempt(path string, method string) bool {
	if method != "GET" && method != "HEAD" {
		return false
	}
	path = strings.TrimPrefix(path, "/api/v1")
	for _, p := range unlimitedPaths {
		if path == p {
			return true
		}
	}
	return false
}
