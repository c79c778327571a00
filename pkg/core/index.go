package core

import (
	"cmp"
	"strings"

	"indexdb/pkg/core/bst"
	"indexdb/pkg/core/memory"
)

// Index 抽象接口，屏蔽 BST 与 B-Tree 的差异
//
// Index is an ordered key→value map instrumented with a comparison counter.
// Handles returned by Find and passed to RangeApply/Ascend stay valid only
// until the next Insert or Erase on the same index.
type Index[K cmp.Ordered, V any] interface {
	Insert(key K, value V)
	Find(key K) (*V, bool)
	Erase(key K) bool
	RangeApply(lo, hi K, fn func(key K, value *V))
	Ascend(fn func(key K, value *V) bool)
	ResetMetrics()
	Comparisons() int
	Len() int
	Type() string // "BST", "BTree"
}

// Kind selects an Index implementation.
type Kind string

const (
	KindBST   Kind = "bst"
	KindBTree Kind = "btree"
)

// ParseKind maps a config string onto a Kind. Unknown values fall back to BST.
func ParseKind(s string) Kind {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindBTree:
		return KindBTree
	default:
		return KindBST
	}
}

// NewIndex builds an empty index of the given kind. degree is only used by
// the B-tree backend.
func NewIndex[K cmp.Ordered, V any](kind Kind, degree int) Index[K, V] {
	switch kind {
	case KindBTree:
		return memory.NewBTreeIndex[K, V](degree)
	default:
		return bst.New[K, V]()
	}
}
