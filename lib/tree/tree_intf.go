package tree

import (
	"errors"
)

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
	// Deletion only. A node or an empty leaf missing one unit
	// of black-height. Never observable through the public API.
	doubleBlack
	doubleBlackNil
)

//go:generate stringer -type=InsertKind
type InsertKind uint8

const (
	New InsertKind = iota
	Overwrite
)

var (
	ErrKeyNotFound = errors.New("[rbtree] key not found")
	ErrEmptyTree   = errors.New("[rbtree] empty element to remove")
)

// InsertResult reports whether an insertion added a new key or
// replaced an existing one, in which case Prev holds the old value.
type InsertResult[V any] struct {
	Kind InsertKind
	Prev V
}

func (res InsertResult[V]) IsNew() bool {
	return res.Kind == New
}

type Entry[K any, V any] struct {
	Key K
	Val V
}

// RBNode is a read-only view of a persistent tree node.
// Nil leaves are returned as nil interfaces.
type RBNode[K any, V any] interface {
	Key() K
	Val() V
	Color() RBColor
	Left() RBNode[K, V]
	Right() RBNode[K, V]
}

// SortedTree is the persistent tree surface consumed by the map and set adapters.
// Every mutating method returns a new tree and leaves the receiver untouched.
type SortedTree[K any, V any] interface {
	Root() RBNode[K, V]
	IsEmpty() bool
	Insert(key K, val V) (InsertResult[V], RBTree[K, V])
	Fetch(key K) (V, bool)
	Has(key K) bool
	Pop(key K) (V, RBTree[K, V], error)
	PopMin() (Entry[K, V], RBTree[K, V], error)
	PopMax() (Entry[K, V], RBTree[K, V], error)
	Min() (Entry[K, V], bool)
	Max() (Entry[K, V], bool)
	ToList() []Entry[K, V]
	Keys() []K
	Values() []V
	Iterator() Iterator[K, V]
	Foreach(action func(idx int64, color RBColor, key K, val V) bool)
}
