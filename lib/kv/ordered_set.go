package kv

import (
	"github.com/benz9527/xrbtree/lib/infra"
	"github.com/benz9527/xrbtree/lib/tree"
)

// OrderedSet is a persistent sorted set. Elements comparing equal
// collapse into one, the last added representation is kept.
type OrderedSet[K any] struct {
	tree  tree.RBTree[K, struct{}]
	count int64
}

var _ SortedSetReader[int] = OrderedSet[int]{}

func NewOrderedSet[K infra.OrderedKey](elems ...K) OrderedSet[K] {
	return newOrderedSet(tree.NewRBTree[K, struct{}](), elems...)
}

func NewOrderedSetFunc[K any](cmp infra.Comparator[K], elems ...K) OrderedSet[K] {
	return newOrderedSet(tree.NewRBTreeFunc[K, struct{}](cmp), elems...)
}

func newOrderedSet[K any](t tree.RBTree[K, struct{}], elems ...K) OrderedSet[K] {
	s := OrderedSet[K]{tree: t}
	for _, e := range elems {
		s = s.Add(e)
	}
	return s
}

func (s OrderedSet[K]) Len() int64 {
	return s.count
}

func (s OrderedSet[K]) Add(elem K) OrderedSet[K] {
	res, t := s.tree.Insert(elem, struct{}{})
	count := s.count
	if res.IsNew() {
		count++
	}
	return OrderedSet[K]{tree: t, count: count}
}

func (s OrderedSet[K]) Contains(elem K) bool {
	return s.tree.Has(elem)
}

// Delete returns the set without elem, or the receiver and
// tree.ErrKeyNotFound.
func (s OrderedSet[K]) Delete(elem K) (OrderedSet[K], error) {
	_, t, err := s.tree.Pop(elem)
	if err != nil {
		return s, err
	}
	return OrderedSet[K]{tree: t, count: s.count - 1}, nil
}

func (s OrderedSet[K]) Min() (K, bool) {
	e, ok := s.tree.Min()
	return e.Key, ok
}

func (s OrderedSet[K]) Max() (K, bool) {
	e, ok := s.tree.Max()
	return e.Key, ok
}

func (s OrderedSet[K]) ToList() []K {
	return s.tree.Keys()
}

func (s OrderedSet[K]) Foreach(action func(idx int64, elem K) bool) {
	s.tree.Foreach(func(idx int64, _ tree.RBColor, key K, _ struct{}) bool {
		return action(idx, key)
	})
}
