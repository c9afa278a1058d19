// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates URL slugs from tag names.
//
// # Usage
//
// Tag slugs are unique, reversible path segments ("artist-colon-someone"),
// so a tag page URL can be derived from the name without a lookup table.
package slug

import (
	"net/url"
	"strings"
)

var (
	// tagEscapes spells out characters that carry meaning in tag search syntax
	// or URLs. Replacement is single pass, so inserted hyphens are not re-escaped.
	tagEscapes = strings.NewReplacer(
		"-", "-dash-",
		"/", "-fwslash-",
		`\`, "-bwslash-",
		":", "-colon-",
		".", "-dot-",
		"+", "-plus-",
		" ", "+",
	)
)

// Tag converts a normalized tag name into its slug.
//
// Distinct names always map to distinct slugs: every escaped character is
// replaced by a token that cannot appear in an escaped name by itself.
//
//	Tag("artist:tai")       // "artist-colon-tai"
//	Tag("twilight sparkle") // "twilight+sparkle"
func Tag(name string) string {
	return url.PathEscape(tagEscapes.Replace(name))
}
