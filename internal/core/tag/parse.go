// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/tagraph/internal/platform/constants"
	"github.com/taibuivan/tagraph/internal/platform/validate"
	"github.com/taibuivan/tagraph/pkg/slug"
)

// NormalizeName canonicalizes a single tag name: NFC, lowercase, inner
// whitespace collapsed to one space, outer whitespace trimmed.
func NormalizeName(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(norm.NFC.String(raw))), " ")
}

// ParseTagList splits comma-separated input into distinct normalized names,
// in order of first appearance. Empty tokens are dropped.
func ParseTagList(input string) ([]string, error) {
	tokens := strings.Split(input, ",")
	seen := make(map[string]struct{}, len(tokens))
	names := make([]string, 0, len(tokens))

	for _, token := range tokens {
		name := NormalizeName(token)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	if len(names) > constants.TagListMaxTokens {
		return nil, validate.Invalid("tag_input",
			fmt.Sprintf("At most %d tags are allowed, got %d", constants.TagListMaxTokens, len(names)))
	}

	return names, nil
}

// validateName checks a normalized name before a tag is created from it.
func validateName(name string) error {
	validator := &validate.Validator{}
	return validator.
		Required("name", name).
		MaxLen("name", name, constants.TagNameMaxLength).
		Excludes("name", name, ",").
		Custom("name", strings.HasSuffix(name, ":"), "Must not end with a namespace separator").
		Custom("name", len(slug.Tag(name)) > constants.TagSlugMaxLength, "Too long once escaped for URLs").
		Err()
}
