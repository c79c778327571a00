// Package bst is an unbalanced binary search tree keyed by any ordered type.
// Every three-way key comparison bumps a counter that callers read back to
// measure search-path length.
package bst

import "cmp"

type node[K cmp.Ordered, V any] struct {
	key         K
	value       V
	left, right *node[K, V]
}

// Tree is not safe for concurrent use.
type Tree[K cmp.Ordered, V any] struct {
	root        *node[K, V]
	size        int
	comparisons int
}

func New[K cmp.Ordered, V any]() *Tree[K, V] {
	return &Tree[K, V]{}
}

func (t *Tree[K, V]) compare(a, b K) int {
	t.comparisons++
	return cmp.Compare(a, b)
}

// Insert adds key, or overwrites its value when the key is already present.
func (t *Tree[K, V]) Insert(key K, value V) {
	link := &t.root
	for *link != nil {
		n := *link
		switch c := t.compare(key, n.key); {
		case c < 0:
			link = &n.left
		case c > 0:
			link = &n.right
		default:
			n.value = value
			return
		}
	}
	*link = &node[K, V]{key: key, value: value}
	t.size++
}

// Find returns a pointer to the stored value so callers can mutate it in place.
func (t *Tree[K, V]) Find(key K) (*V, bool) {
	n := t.root
	for n != nil {
		switch c := t.compare(key, n.key); {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return &n.value, true
		}
	}
	return nil, false
}

func (t *Tree[K, V]) Erase(key K) bool {
	link := &t.root
	for *link != nil {
		c := t.compare(key, (*link).key)
		if c == 0 {
			break
		}
		if c < 0 {
			link = &(*link).left
		} else {
			link = &(*link).right
		}
	}
	n := *link
	if n == nil {
		return false
	}

	switch {
	case n.left == nil:
		*link = n.right
	case n.right == nil:
		*link = n.left
	default:
		// splice the in-order successor into n's place
		succLink := &n.right
		for (*succLink).left != nil {
			succLink = &(*succLink).left
		}
		succ := *succLink
		*succLink = succ.right
		succ.left, succ.right = n.left, n.right
		*link = succ
	}
	t.size--
	return true
}

// RangeApply calls fn for every key in [lo, hi], ascending. Subtrees that
// cannot hold keys inside the window are pruned. fn must not insert or erase.
func (t *Tree[K, V]) RangeApply(lo, hi K, fn func(key K, value *V)) {
	t.rangeApply(t.root, lo, hi, fn)
}

func (t *Tree[K, V]) rangeApply(n *node[K, V], lo, hi K, fn func(key K, value *V)) {
	if n == nil {
		return
	}
	cLo := t.compare(lo, n.key)
	if cLo < 0 {
		t.rangeApply(n.left, lo, hi, fn)
	}
	cHi := t.compare(n.key, hi)
	if cLo <= 0 && cHi <= 0 {
		fn(n.key, &n.value)
	}
	if cHi < 0 {
		t.rangeApply(n.right, lo, hi, fn)
	}
}

// Ascend walks every key in order until fn returns false. It performs no
// key comparisons.
func (t *Tree[K, V]) Ascend(fn func(key K, value *V) bool) {
	ascend(t.root, fn)
}

func ascend[K cmp.Ordered, V any](n *node[K, V], fn func(key K, value *V) bool) bool {
	if n == nil {
		return true
	}
	if !ascend(n.left, fn) {
		return false
	}
	if !fn(n.key, &n.value) {
		return false
	}
	return ascend(n.right, fn)
}

// Height is the number of nodes on the longest root-to-leaf path.
func (t *Tree[K, V]) Height() int {
	return height(t.root)
}

func height[K cmp.Ordered, V any](n *node[K, V]) int {
	if n == nil {
		return 0
	}
	return 1 + max(height(n.left), height(n.right))
}

func (t *Tree[K, V]) ResetMetrics()    { t.comparisons = 0 }
func (t *Tree[K, V]) Comparisons() int { return t.comparisons }
func (t *Tree[K, V]) Len() int         { return t.size }
func (t *Tree[K, V]) Type() string     { return "BST" }
