package kv

import (
	"github.com/benz9527/xrbtree/lib/tree"
)

type KeyFilterFunc[K any] func(key K) bool

func defaultAllKeysFilter[K any](key K) bool {
	return true
}

// SortedMapReader is the read side of a persistent map ordered by key.
// Updates are methods of the concrete types and return new values.
type SortedMapReader[K any, V any] interface {
	Len() int64
	Get(key K) (V, bool)
	Has(key K) bool
	Min() (tree.Entry[K, V], bool)
	Max() (tree.Entry[K, V], bool)
	Entries() []tree.Entry[K, V]
	Keys(filters ...KeyFilterFunc[K]) []K
	Values() []V
	Foreach(action func(idx int64, key K, val V) bool)
}

// SortedSetReader is the read side of a persistent set ordered by element.
type SortedSetReader[K any] interface {
	Len() int64
	Contains(elem K) bool
	Min() (K, bool)
	Max() (K, bool)
	ToList() []K
	Foreach(action func(idx int64, elem K) bool)
}
