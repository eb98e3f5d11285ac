package store

// Move returns a copy of items with the element at from removed and reinserted at to
// in the remaining list. The result is always a permutation of items.
//
// ok is false, and items is returned as is, when either index is out of range.
func Move[T any](items []T, from, to int) ([]T, bool) {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return items, false
	}

	out := make([]T, 0, len(items))
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)

	moved := items[from]
	out = append(out, moved)
	copy(out[to+1:], out[to:len(out)-1])
	out[to] = moved
	return out, true
}
