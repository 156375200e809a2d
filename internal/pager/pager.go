// Package pager slices ordered lists into fixed-size pages.
package pager

import (
	"errors"
	"fmt"
)

// DefaultSize is the page size used when none is configured.
const DefaultSize = 10

// ErrOutOfRange is returned for a page index outside the list or a non-positive size.
var ErrOutOfRange = errors.New("pager: page out of range")

// Page is one slice of a list.
type Page[T any] struct {
	Items   []T
	Index   int
	Total   int
	HasPrev bool
	HasNext bool
}

// Pages returns how many pages a list of n items occupies. An empty list
// still has one (empty) page.
func Pages(n, size int) int {
	if size <= 0 {
		return 0
	}
	if n == 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Slice returns page index of items. It never clamps: callers must not ask
// for a page past either end.
func Slice[T any](items []T, index, size int) (Page[T], error) {
	if size <= 0 {
		return Page[T]{}, fmt.Errorf("%w: size %d", ErrOutOfRange, size)
	}
	if index < 0 || index >= Pages(len(items), size) {
		return Page[T]{}, fmt.Errorf("%w: page %d of %d", ErrOutOfRange, index, Pages(len(items), size))
	}

	start := index * size
	end := min(start+size, len(items))
	return Page[T]{
		Items:   items[start:end],
		Index:   index,
		Total:   Pages(len(items), size),
		HasPrev: index > 0,
		HasNext: (index+1)*size < len(items),
	}, nil
}
