// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tagraph/pkg/slice"
)

func TestMap(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, slice.Map([]string{"a", "bb", "ccc"}, func(s string) int { return len(s) }))
	assert.Nil(t, slice.Map[string, int](nil, func(s string) int { return len(s) }))
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []int64{3, 1, 2}, slice.Unique([]int64{3, 1, 3, 2, 1}))
	assert.Nil(t, slice.Unique[int64](nil))
}

func TestUniqueBy(t *testing.T) {
	names := slice.UniqueBy([]string{"Safe", "safe", "Solo"}, strings.ToLower)
	assert.Equal(t, []string{"Safe", "Solo"}, names)
}

func TestSymmetricDifference(t *testing.T) {
	assert.Equal(t, []int64{1, 4, 5}, slice.SymmetricDifference([]int64{1, 2, 3}, []int64{5, 4, 2, 3, 3}))
	assert.Empty(t, slice.SymmetricDifference([]int64{2}, []int64{2}))
	assert.Equal(t, []int64{7}, slice.SymmetricDifference(nil, []int64{7}))
}
