package memory

import (
	"cmp"

	"github.com/google/btree"
)

type Item[K cmp.Ordered, V any] struct {
	Key K
	Val V
}

// BTreeIndex is an ordered index on top of google/btree. The less function
// handed to the tree counts every call, so Comparisons reports the same kind
// of cost as the BST backend.
type BTreeIndex[K cmp.Ordered, V any] struct {
	tree        *btree.BTreeG[*Item[K, V]]
	comparisons int
}

func NewBTreeIndex[K cmp.Ordered, V any](degree int) *BTreeIndex[K, V] {
	if degree < 2 {
		degree = 2
	}
	idx := &BTreeIndex[K, V]{}
	idx.tree = btree.NewG(degree, idx.less)
	return idx
}

func (b *BTreeIndex[K, V]) less(a, c *Item[K, V]) bool {
	b.comparisons++
	return cmp.Less(a.Key, c.Key)
}

func (b *BTreeIndex[K, V]) Insert(key K, value V) {
	b.tree.ReplaceOrInsert(&Item[K, V]{Key: key, Val: value})
}

func (b *BTreeIndex[K, V]) Find(key K) (*V, bool) {
	it, ok := b.tree.Get(&Item[K, V]{Key: key})
	if !ok {
		return nil, false
	}
	return &it.Val, true
}

func (b *BTreeIndex[K, V]) Erase(key K) bool {
	_, ok := b.tree.Delete(&Item[K, V]{Key: key})
	return ok
}

// RangeApply visits [lo, hi] inclusive. btree's AscendRange is half-open, so
// the upper bound is checked by hand and counted like any other comparison.
func (b *BTreeIndex[K, V]) RangeApply(lo, hi K, fn func(key K, value *V)) {
	upper := &Item[K, V]{Key: hi}
	b.tree.AscendGreaterOrEqual(&Item[K, V]{Key: lo}, func(it *Item[K, V]) bool {
		if b.less(upper, it) {
			return false
		}
		fn(it.Key, &it.Val)
		return true
	})
}

func (b *BTreeIndex[K, V]) Ascend(fn func(key K, value *V) bool) {
	b.tree.Ascend(func(it *Item[K, V]) bool {
		return fn(it.Key, &it.Val)
	})
}

func (b *BTreeIndex[K, V]) ResetMetrics()    { b.comparisons = 0 }
func (b *BTreeIndex[K, V]) Comparisons() int { return b.comparisons }
func (b *BTreeIndex[K, V]) Len() int         { return b.tree.Len() }
func (b *BTreeIndex[K, V]) Type() string     { return "BTree" }
