// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBool(t *testing.T) {
	for _, val := range []string{"true", "TRUE", "1", "yes", " Yes "} {
		assert.True(t, Bool(val), val)
	}
	for _, val := range []string{"", "false", "0", "no", "maybe"} {
		assert.False(t, Bool(val), val)
	}
}
