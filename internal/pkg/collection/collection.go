// Package collection implements the ordered sub-collection operations shared by
// screenshots and walkthrough steps.
//
// Every function takes the current items and returns a new slice. The input is
// never modified, so a rejected call leaves the caller's aggregate untouched.
// After any successful call the order values are exactly 1..N and the slice is
// sorted by order.
package collection

import (
	"errors"
	"sort"

	"github.com/google/uuid"
)

var (
	ErrItemNotFound       = errors.New("collection: item not found")
	ErrInvalidPermutation = errors.New("collection: ids must be a permutation of the current items")
)

// Item is satisfied by a pointer to an ordered element.
type Item[T any] interface {
	*T
	GetID() string
	SetID(string)
	GetOrder() int
	SetOrder(int)
}

// Guard is a precondition evaluated against the current item count before an
// append, e.g. a plan quota.
type Guard func(count int) error

// Append adds item at the end with a fresh identity and order N+1.
func Append[T any, P Item[T]](items []T, item T, guards ...Guard) ([]T, error) {
	for _, guard := range guards {
		if guard == nil {
			continue
		}
		if err := guard(len(items)); err != nil {
			return items, err
		}
	}

	out := make([]T, len(items), len(items)+1)
	copy(out, items)

	P(&item).SetID(uuid.NewString())
	P(&item).SetOrder(len(items) + 1)
	return append(out, item), nil
}

// Find returns the item with the given id.
func Find[T any, P Item[T]](items []T, id string) (T, bool) {
	if i := indexOf[T, P](items, id); i >= 0 {
		return items[i], true
	}
	var zero T
	return zero, false
}

// Update applies patch to the item with the given id. Identity and order are
// restored after the patch runs.
func Update[T any, P Item[T]](items []T, id string, patch func(P)) ([]T, error) {
	i := indexOf[T, P](items, id)
	if i < 0 {
		return items, ErrItemNotFound
	}

	out := clone(items)
	target := P(&out[i])
	order := target.GetOrder()
	patch(target)
	target.SetID(id)
	target.SetOrder(order)
	return out, nil
}

// Delete removes the item with the given id and renumbers the rest.
func Delete[T any, P Item[T]](items []T, id string) ([]T, error) {
	i := indexOf[T, P](items, id)
	if i < 0 {
		return items, ErrItemNotFound
	}

	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	out = append(out, items[i+1:]...)
	return renumber[T, P](out), nil
}

// Reorder assigns order = position+1 following ids. ids must contain every
// current identity exactly once and nothing else; otherwise nothing changes.
func Reorder[T any, P Item[T]](items []T, ids []string) ([]T, error) {
	if len(ids) != len(items) {
		return items, ErrInvalidPermutation
	}

	position := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, dup := position[id]; dup {
			return items, ErrInvalidPermutation
		}
		position[id] = i
	}

	out := clone(items)
	for i := range out {
		p := P(&out[i])
		pos, ok := position[p.GetID()]
		if !ok {
			return items, ErrInvalidPermutation
		}
		p.SetOrder(pos + 1)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return P(&out[a]).GetOrder() < P(&out[b]).GetOrder()
	})
	return out, nil
}

// Normalize sorts by the stored order and rewrites it as 1..N. Used when
// loading documents written before orders were kept dense.
func Normalize[T any, P Item[T]](items []T) []T {
	return renumber[T, P](clone(items))
}

// Orders lists the order values in slice order.
func Orders[T any, P Item[T]](items []T) []int {
	out := make([]int, len(items))
	for i := range items {
		out[i] = P(&items[i]).GetOrder()
	}
	return out
}

// IDs lists the identities in slice order.
func IDs[T any, P Item[T]](items []T) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = P(&items[i]).GetID()
	}
	return out
}

func indexOf[T any, P Item[T]](items []T, id string) int {
	if id == "" {
		return -1
	}
	for i := range items {
		if P(&items[i]).GetID() == id {
			return i
		}
	}
	return -1
}

func renumber[T any, P Item[T]](items []T) []T {
	sort.SliceStable(items, func(a, b int) bool {
		return P(&items[a]).GetOrder() < P(&items[b]).GetOrder()
	})
	for i := range items {
		P(&items[i]).SetOrder(i + 1)
	}
	return items
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
