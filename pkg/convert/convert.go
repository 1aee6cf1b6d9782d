// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert parses query-string values leniently.

Malformed input yields the caller's fallback instead of an error. Use strconv
directly when a malformed value must be reported to the client.
*/
package convert

import (
	"strconv"
	"strings"
)

// IntOr parses s as a base-10 int, returning fallback when s is blank or
// malformed.
func IntOr(s string, fallback int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}

	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return fallback
}
