package tree

import (
	"github.com/benz9527/xrbtree/lib/infra"
)

// rbNode is immutable once built. Every update allocates new nodes
// along the touched path and shares the rest with older versions.
type rbNode[K any, V any] struct {
	left  *rbNode[K, V]
	right *rbNode[K, V]
	key   K
	val   V
	color RBColor
}

func (node *rbNode[K, V]) Color() RBColor {
	return node.color
}

func (node *rbNode[K, V]) Key() K {
	return node.key
}

func (node *rbNode[K, V]) Val() V {
	return node.val
}

func (node *rbNode[K, V]) Left() RBNode[K, V] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *rbNode[K, V]) Right() RBNode[K, V] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *rbNode[K, V]) isLeaf() bool {
	return node != nil && node.left == nil && node.right == nil
}

func newNode[K any, V any](color RBColor, l *rbNode[K, V], key K, val V, r *rbNode[K, V]) *rbNode[K, V] {
	return &rbNode[K, V]{
		left:  l,
		right: r,
		key:   key,
		val:   val,
		color: color,
	}
}

func isNilLeaf[K any, V any](node *rbNode[K, V]) bool {
	return node == nil
}

func isRed[K any, V any](node *rbNode[K, V]) bool {
	return node != nil && node.color == Red
}

// Real black node, the nil leaf is not matched.
func isBlackNode[K any, V any](node *rbNode[K, V]) bool {
	return node != nil && node.color == Black
}

func isRedLeaf[K any, V any](node *rbNode[K, V]) bool {
	return isRed(node) && node.isLeaf()
}

// RBTree is a persistent red-black tree value. The zero value is not
// usable, build one with NewRBTree or NewRBTreeFunc.
// Copying an RBTree is cheap and all copies share the same nodes.
type RBTree[K any, V any] struct {
	root   *rbNode[K, V]
	cmp    infra.Comparator[K]
	isDesc bool
}

var _ SortedTree[int, int] = RBTree[int, int]{}

func (tree RBTree[K, V]) keyCompare(k1, k2 K) int64 {
	return tree.cmp(k1, k2)
}

func (tree RBTree[K, V]) withRoot(root *rbNode[K, V]) RBTree[K, V] {
	return RBTree[K, V]{
		root:   root,
		cmp:    tree.cmp,
		isDesc: tree.isDesc,
	}
}

func (tree RBTree[K, V]) Root() RBNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

func (tree RBTree[K, V]) IsEmpty() bool {
	return tree.root == nil
}

// References:
// Chris Okasaki, "Red-Black Trees in a Functional Setting", JFP 1999.
// rbtree properties:
// p1. No red node has a red child. (red-violation)
// p2. Every path from a node to its nil leaves goes through the same
//   number of black nodes. (black-violation)
// p3. The root is black.

// Insert returns the insertion result and a new tree holding key.
// A key comparing equal to a stored key replaces both the stored key
// and its value, the shape of the tree is unchanged in that case.
func (tree RBTree[K, V]) Insert(key K, val V) (InsertResult[V], RBTree[K, V]) {
	root, res := tree.ins(tree.root, key, val)
	return res, tree.withRoot(makeBlack(root))
}

func (tree RBTree[K, V]) ins(node *rbNode[K, V], key K, val V) (*rbNode[K, V], InsertResult[V]) {
	if isNilLeaf(node) {
		return newNode[K, V](Red, nil, key, val, nil), InsertResult[V]{Kind: New}
	}

	res := tree.keyCompare(key, node.key)
	if /* less */ res < 0 {
		l, ir := tree.ins(node.left, key, val)
		return balanceLeft(node.color, l, node.key, node.val, node.right), ir
	} else /* greater */ if res > 0 {
		r, ir := tree.ins(node.right, key, val)
		return balanceRight(node.color, node.left, node.key, node.val, r), ir
	}
	/* equal */
	return newNode(node.color, node.left, key, val, node.right), InsertResult[V]{Kind: Overwrite, Prev: node.val}
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

b1: Red-red on the outside of the left child.

	      [z]
	      / \                 <y>
	    <y>  d               /   \
	    / \       ====>    [x]   [z]
	  <x>  c               / \   / \
	  / \                 a   b c   d
	 a   b

b2: Red-red on the inside of the left child.

	    [z]
	    / \                   <y>
	  <x>  d                 /   \
	  / \         ====>    [x]   [z]
	 a  <y>                / \   / \
	    / \               a   b c   d
	   b   c

b3 and b4 mirror b2 and b1 on the right child.
Each rewrite is local and pushes the red node up by one level.
*/
func balanceLeft[K any, V any](color RBColor, l *rbNode[K, V], key K, val V, r *rbNode[K, V]) *rbNode[K, V] {
	if color == Black {
		if res, ok := rebalanceLeft(Red, l, key, val, r); ok {
			return res
		}
	}
	return newNode(color, l, key, val, r)
}

func balanceRight[K any, V any](color RBColor, l *rbNode[K, V], key K, val V, r *rbNode[K, V]) *rbNode[K, V] {
	if color == Black {
		if res, ok := rebalanceRight(Red, l, key, val, r); ok {
			return res
		}
	}
	return newNode(color, l, key, val, r)
}

// rebalanceLeft rewrites b1 and b2 into a top node painted with color.
func rebalanceLeft[K any, V any](color RBColor, l *rbNode[K, V], key K, val V, r *rbNode[K, V]) (*rbNode[K, V], bool) {
	if !isRed(l) {
		return nil, false
	}
	if /* b1 */ isRed(l.left) {
		ll := l.left
		return newNode(color,
			newNode(Black, ll.left, ll.key, ll.val, ll.right),
			l.key, l.val,
			newNode(Black, l.right, key, val, r),
		), true
	}
	if /* b2 */ isRed(l.right) {
		lr := l.right
		return newNode(color,
			newNode(Black, l.left, l.key, l.val, lr.left),
			lr.key, lr.val,
			newNode(Black, lr.right, key, val, r),
		), true
	}
	return nil, false
}

// rebalanceRight rewrites b3 and b4 into a top node painted with color.
func rebalanceRight[K any, V any](color RBColor, l *rbNode[K, V], key K, val V, r *rbNode[K, V]) (*rbNode[K, V], bool) {
	if !isRed(r) {
		return nil, false
	}
	if /* b3 */ isRed(r.left) {
		rl := r.left
		return newNode(color,
			newNode(Black, l, key, val, rl.left),
			rl.key, rl.val,
			newNode(Black, rl.right, r.key, r.val, r.right),
		), true
	}
	if /* b4 */ isRed(r.right) {
		rr := r.right
		return newNode(color,
			newNode(Black, l, key, val, r.left),
			r.key, r.val,
			newNode(Black, rr.left, rr.key, rr.val, rr.right),
		), true
	}
	return nil, false
}

// makeBlack paints the root black. A deficit which bubbled up to the
// root is dropped, every path loses the same black node.
func makeBlack[K any, V any](node *rbNode[K, V]) *rbNode[K, V] {
	if isNilLeaf(node) {
		return nil
	}
	switch node.color {
	case Black:
		return node
	case doubleBlackNil:
		return nil
	default:
	}
	return newNode(Black, node.left, node.key, node.val, node.right)
}

func (tree RBTree[K, V]) search(key K) *rbNode[K, V] {
	for aux := tree.root; aux != nil; {
		res := tree.keyCompare(key, aux.key)
		if res == 0 {
			return aux
		} else if res > 0 {
			aux = aux.right
		} else {
			aux = aux.left
		}
	}
	return nil
}

func (tree RBTree[K, V]) Fetch(key K) (V, bool) {
	if node := tree.search(key); node != nil {
		return node.val, true
	}
	var zero V
	return zero, false
}

func (tree RBTree[K, V]) Has(key K) bool {
	return tree.search(key) != nil
}

type RBTreeOpt[K any, V any] func(*RBTree[K, V])

// WithRBTreeDesc reverses the key order of the tree.
func WithRBTreeDesc[K any, V any]() RBTreeOpt[K, V] {
	return func(tree *RBTree[K, V]) {
		tree.isDesc = true
	}
}

// NewRBTree returns the empty tree ordered by the natural key order.
func NewRBTree[K infra.OrderedKey, V any](opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	return NewRBTreeFunc[K, V](infra.OrderedCompare[K], opts...)
}

// NewRBTreeFunc returns the empty tree ordered by cmp.
// cmp has to be a total order, the tree is undefined otherwise.
func NewRBTreeFunc[K any, V any](cmp infra.Comparator[K], opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	if cmp == nil {
		panic( /* debug assertion */ "[rbtree] nil key comparator")
	}
	tree := RBTree[K, V]{
		cmp:    cmp,
		isDesc: false,
	}
	for _, o := range opts {
		o(&tree)
	}
	if tree.isDesc {
		tree.cmp = func(i, j K) int64 {
			return cmp(j, i)
		}
	}
	return tree
}
