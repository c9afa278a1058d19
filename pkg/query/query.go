// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses loosely formatted flag values from query strings.
package query

import (
	"strconv"
	"strings"
)

// Bool reports whether val is a true flag ("true", "1", "yes"). Anything
// unparsable is false.
func Bool(val string) bool {
	if strings.EqualFold(strings.TrimSpace(val), "yes") {
		return true
	}
	b, err := strconv.ParseBool(strings.TrimSpace(val))
	return err == nil && b
}
