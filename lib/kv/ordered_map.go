package kv

import (
	"github.com/benz9527/xrbtree/lib/infra"
	"github.com/benz9527/xrbtree/lib/tree"
)

// OrderedMap is a persistent sorted map backed by the red-black tree.
// It is a small value, copies share all nodes and every update
// returns a new map.
type OrderedMap[K any, V any] struct {
	tree  tree.RBTree[K, V]
	count int64
}

var _ SortedMapReader[string, int] = OrderedMap[string, int]{}

func NewOrderedMap[K infra.OrderedKey, V any](entries ...tree.Entry[K, V]) OrderedMap[K, V] {
	return newOrderedMap(tree.NewRBTree[K, V](), entries...)
}

// NewOrderedMapFunc builds a map ordered by cmp. Later entries win
// over earlier ones comparing equal.
func NewOrderedMapFunc[K any, V any](cmp infra.Comparator[K], entries ...tree.Entry[K, V]) OrderedMap[K, V] {
	return newOrderedMap(tree.NewRBTreeFunc[K, V](cmp), entries...)
}

func newOrderedMap[K any, V any](t tree.RBTree[K, V], entries ...tree.Entry[K, V]) OrderedMap[K, V] {
	m := OrderedMap[K, V]{tree: t}
	for _, e := range entries {
		m = m.Put(e.Key, e.Val)
	}
	return m
}

func (m OrderedMap[K, V]) Len() int64 {
	return m.count
}

func (m OrderedMap[K, V]) Tree() tree.RBTree[K, V] {
	return m.tree
}

func (m OrderedMap[K, V]) Put(key K, val V) OrderedMap[K, V] {
	res, t := m.tree.Insert(key, val)
	count := m.count
	if res.IsNew() {
		count++
	}
	return OrderedMap[K, V]{tree: t, count: count}
}

func (m OrderedMap[K, V]) Get(key K) (V, bool) {
	return m.tree.Fetch(key)
}

func (m OrderedMap[K, V]) Has(key K) bool {
	return m.tree.Has(key)
}

// Delete returns the removed value and the map without key.
// On tree.ErrKeyNotFound the receiver is returned.
func (m OrderedMap[K, V]) Delete(key K) (V, OrderedMap[K, V], error) {
	val, t, err := m.tree.Pop(key)
	if err != nil {
		return val, m, err
	}
	return val, OrderedMap[K, V]{tree: t, count: m.count - 1}, nil
}

func (m OrderedMap[K, V]) PopMin() (tree.Entry[K, V], OrderedMap[K, V], error) {
	e, t, err := m.tree.PopMin()
	if err != nil {
		return e, m, err
	}
	return e, OrderedMap[K, V]{tree: t, count: m.count - 1}, nil
}

func (m OrderedMap[K, V]) PopMax() (tree.Entry[K, V], OrderedMap[K, V], error) {
	e, t, err := m.tree.PopMax()
	if err != nil {
		return e, m, err
	}
	return e, OrderedMap[K, V]{tree: t, count: m.count - 1}, nil
}

func (m OrderedMap[K, V]) Min() (tree.Entry[K, V], bool) {
	return m.tree.Min()
}

func (m OrderedMap[K, V]) Max() (tree.Entry[K, V], bool) {
	return m.tree.Max()
}

func (m OrderedMap[K, V]) Entries() []tree.Entry[K, V] {
	return m.tree.ToList()
}

// Keys lists the keys in order which pass all filters.
func (m OrderedMap[K, V]) Keys(filters ...KeyFilterFunc[K]) []K {
	realFilters := make([]KeyFilterFunc[K], 0, len(filters))
	for _, filter := range filters {
		if filter != nil {
			realFilters = append(realFilters, filter)
		}
	}
	if len(realFilters) == 0 {
		realFilters = append(realFilters, defaultAllKeysFilter[K])
	}

	keys := make([]K, 0, m.count)
	m.tree.Foreach(func(_ int64, _ tree.RBColor, key K, _ V) bool {
		for _, filter := range realFilters {
			if !filter(key) {
				return true
			}
		}
		keys = append(keys, key)
		return true
	})
	return keys
}

func (m OrderedMap[K, V]) Values() []V {
	return m.tree.Values()
}

func (m OrderedMap[K, V]) Iterator() tree.Iterator[K, V] {
	return m.tree.Iterator()
}

func (m OrderedMap[K, V]) Foreach(action func(idx int64, key K, val V) bool) {
	m.tree.Foreach(func(idx int64, _ tree.RBColor, key K, val V) bool {
		return action(idx, key, val)
	})
}
