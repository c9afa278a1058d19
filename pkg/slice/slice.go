// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice complements the standard [slices] package with the generic helpers
the tag graph code leans on: projecting records to ids, order-preserving
de-duplication and set differences.
*/
package slice

import (
	"cmp"
	"slices"
)

// Map maps a slice of type T to a slice of type U using the provided transformation function.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}

	return result
}

// Unique drops repeated values, keeping the first occurrence of each.
func Unique[T comparable](input []T) []T {
	return UniqueBy(input, func(v T) T { return v })
}

// UniqueBy drops elements whose key was already seen, keeping the first one.
func UniqueBy[T any, K comparable](input []T, key func(T) K) []T {
	if input == nil {
		return nil
	}

	seen := make(map[K]struct{}, len(input))
	result := make([]T, 0, len(input))

	for _, v := range input {
		k := key(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, v)
	}

	return result
}

// SymmetricDifference returns the values present in exactly one of a and b,
// sorted ascending. Repeats within one input are ignored.
func SymmetricDifference[T cmp.Ordered](a, b []T) []T {
	count := make(map[T]int, len(a)+len(b))
	for _, v := range Unique(a) {
		count[v]++
	}
	for _, v := range Unique(b) {
		count[v]++
	}

	var diff []T
	for v, n := range count {
		if n == 1 {
			diff = append(diff, v)
		}
	}

	slices.Sort(diff)
	return diff
}
