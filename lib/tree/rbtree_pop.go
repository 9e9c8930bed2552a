package tree

// References:
// Kimball Germane, Matthew Might, "Deletion: The curse of the red-black tree", JFP 2014.
//
// Removal never walks the tree twice. A black node removed from the bottom
// leaves its path one black node short; the shortfall is carried upward as
// a transient color (doubleBlack on a node, doubleBlackNil on an empty leaf)
// and every level on the way back either absorbs it or hands it one level up.
//
// <X> is a RED node.
// [X] is a BLACK node.
// [[X]] is a DOUBLE BLACK node, [[]] is the double black nil leaf.
// () is the nil leaf.

// Pop returns the value stored under key and a new tree without it.
// If key is absent ErrKeyNotFound is returned together with the receiver itself.
func (tree RBTree[K, V]) Pop(key K) (V, RBTree[K, V], error) {
	var zero V
	if tree.IsEmpty() {
		return zero, tree, ErrKeyNotFound
	}
	root, val, ok := tree.doPop(redden(tree.root), key)
	if !ok {
		return zero, tree, ErrKeyNotFound
	}
	return val, tree.withRoot(makeBlack(root)), nil
}

// PopMin removes the smallest entry.
func (tree RBTree[K, V]) PopMin() (Entry[K, V], RBTree[K, V], error) {
	if tree.IsEmpty() {
		return Entry[K, V]{}, tree, ErrEmptyTree
	}
	key, val, root := minDel(redden(tree.root))
	return Entry[K, V]{Key: key, Val: val}, tree.withRoot(makeBlack(root)), nil
}

// PopMax removes the largest entry.
func (tree RBTree[K, V]) PopMax() (Entry[K, V], RBTree[K, V], error) {
	if tree.IsEmpty() {
		return Entry[K, V]{}, tree, ErrEmptyTree
	}
	key, val, root := maxDel(redden(tree.root))
	return Entry[K, V]{Key: key, Val: val}, tree.withRoot(makeBlack(root)), nil
}

/*
redden paints the root red if both children are black nodes.

	  [y]             <y>
	  / \    ====>    / \
	[x] [z]         [x] [z]

A red root lets the removal below it borrow a black node without
creating a deficit at the top.
*/
func redden[K any, V any](node *rbNode[K, V]) *rbNode[K, V] {
	if isBlackNode(node) && isBlackNode(node.left) && isBlackNode(node.right) {
		return newNode(Red, node.left, node.key, node.val, node.right)
	}
	return node
}

/*
d1: A red leaf matches, remove it. No black node is lost.

	<x>  ====>  ()

d2: A black leaf matches, remove it and leave a deficit.

	[x]  ====>  [[]]

d3: A leaf does not match, key not found.

d4: A black node with a single red leaf on the left. Either node may
match, the survivor is painted black.

	    [y]                           [y]
	    /      del(x)       del(y)    /
	  <x>      =====> [y]   =====> [x]
*/
func (tree RBTree[K, V]) doPop(node *rbNode[K, V], key K) (*rbNode[K, V], V, bool) {
	var zero V
	if isNilLeaf(node) {
		return nil, zero, false
	}

	if node.isLeaf() {
		if /* d3 */ tree.keyCompare(key, node.key) != 0 {
			return nil, zero, false
		}
		if /* d1 */ node.color == Red {
			return nil, node.val, true
		}
		/* d2 */
		return newDoubleBlackNil[K, V](), node.val, true
	}

	if /* d4 */ node.color == Black && isNilLeaf(node.right) && isRedLeaf(node.left) {
		l := node.left
		res := tree.keyCompare(key, node.key)
		if res < 0 && tree.keyCompare(key, l.key) == 0 {
			return newNode[K, V](Black, nil, node.key, node.val, nil), l.val, true
		} else if res == 0 {
			return newNode[K, V](Black, nil, l.key, l.val, nil), node.val, true
		}
		return nil, zero, false
	}

	res := tree.keyCompare(key, node.key)
	if /* less */ res < 0 {
		l, val, ok := tree.doPop(node.left, key)
		if !ok {
			return nil, zero, false
		}
		return rotate(node.color, l, node.key, node.val, node.right), val, true
	} else /* greater */ if res > 0 {
		r, val, ok := tree.doPop(node.right, key)
		if !ok {
			return nil, zero, false
		}
		return rotate(node.color, node.left, node.key, node.val, r), val, true
	}

	/* equal, borrow the successor */
	if isNilLeaf(node.right) {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] remove an inner node without right child")
	}
	succKey, succVal, r := minDel(node.right)
	return rotate(node.color, node.left, succKey, succVal, r), node.val, true
}

/*
minDel detaches the minimum of a subtree.

m1: <x> ====> ()
m2: [x] ====> [[]]
m3: A black node with a single red leaf on the right.

	[x]                 [y]
	  \     ====>
	  <y>
*/
func minDel[K any, V any](node *rbNode[K, V]) (K, V, *rbNode[K, V]) {
	if node.isLeaf() {
		if /* m1 */ node.color == Red {
			return node.key, node.val, nil
		}
		/* m2 */
		return node.key, node.val, newDoubleBlackNil[K, V]()
	}
	if /* m3 */ node.color == Black && isNilLeaf(node.left) && isRedLeaf(node.right) {
		r := node.right
		return node.key, node.val, newNode[K, V](Black, nil, r.key, r.val, nil)
	}
	if isNilLeaf(node.left) {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] min removal reach to an invalid shape")
	}
	key, val, l := minDel(node.left)
	return key, val, rotate(node.color, l, node.key, node.val, node.right)
}

// maxDel mirrors minDel along the right spine.
func maxDel[K any, V any](node *rbNode[K, V]) (K, V, *rbNode[K, V]) {
	if node.isLeaf() {
		if node.color == Red {
			return node.key, node.val, nil
		}
		return node.key, node.val, newDoubleBlackNil[K, V]()
	}
	if node.color == Black && isNilLeaf(node.right) && isRedLeaf(node.left) {
		l := node.left
		return node.key, node.val, newNode[K, V](Black, nil, l.key, l.val, nil)
	}
	if isNilLeaf(node.right) {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] max removal reach to an invalid shape")
	}
	key, val, r := maxDel(node.right)
	return key, val, rotate(node.color, node.left, node.key, node.val, r)
}

func newDoubleBlackNil[K any, V any]() *rbNode[K, V] {
	return &rbNode[K, V]{color: doubleBlackNil}
}

func isDoubleBlack[K any, V any](node *rbNode[K, V]) bool {
	return node != nil && (node.color == doubleBlack || node.color == doubleBlackNil)
}

// discharge removes the deficit, [[x]] becomes [x] and [[]] becomes ().
func discharge[K any, V any](node *rbNode[K, V]) *rbNode[K, V] {
	if node.color == doubleBlackNil {
		return nil
	}
	return newNode(Black, node.left, node.key, node.val, node.right)
}

/*
rotate absorbs a deficit coming up from one child. D is either [[x]] or [[]],
D' is D discharged. Every rewrite below has a mirrored form for a deficit on
the right child.

rt1: Red parent, black sibling. The parent pays for the missing black node.

	    <y>                        [z]
	   /   \       balance        /   \
	  D    [z]     =======>     <y>    d
	       / \                  / \
	      c   d                D'  c

rt2: Black parent, black sibling. The sibling is reddened and the parent
turns double black unless balance finds a red nephew to borrow.

	    [y]                       [[z]]
	   /   \       balance        /   \
	  D    [z]     =======>     <y>    d
	       / \                  / \
	      c   d                D'  c

rt3: Black parent, red sibling. The red sibling is rotated up, the deficit
is pushed one level down below it and resolved by rt1 there.

	    [x]                              [z]
	   /   \                            /   \
	  D    <z>          ====>      bal([y])  e
	       / \                        / \
	     [y]  e                     <x>  d
	     / \                        / \
	    c   d                      D'  c

Any other shape carries no deficit and is rebuilt as is.
*/
func rotate[K any, V any](color RBColor, l *rbNode[K, V], key K, val V, r *rbNode[K, V]) *rbNode[K, V] {
	switch color {
	case Red:
		if /* rt1 left */ isDoubleBlack(l) && isBlackNode(r) {
			return balance(Black, newNode(Red, discharge(l), key, val, r.left), r.key, r.val, r.right)
		}
		if /* rt1 right */ isBlackNode(l) && isDoubleBlack(r) {
			return balance(Black, l.left, l.key, l.val, newNode(Red, l.right, key, val, discharge(r)))
		}
	case Black:
		if /* rt2 left */ isDoubleBlack(l) && isBlackNode(r) {
			return balance(doubleBlack, newNode(Red, discharge(l), key, val, r.left), r.key, r.val, r.right)
		}
		if /* rt2 right */ isBlackNode(l) && isDoubleBlack(r) {
			return balance(doubleBlack, l.left, l.key, l.val, newNode(Red, l.right, key, val, discharge(r)))
		}
		if /* rt3 left */ isDoubleBlack(l) && isRed(r) && isBlackNode(r.left) {
			rl := r.left
			return newNode(Black,
				balance(Black, newNode(Red, discharge(l), key, val, rl.left), rl.key, rl.val, rl.right),
				r.key, r.val,
				r.right,
			)
		}
		if /* rt3 right */ isRed(l) && isBlackNode(l.right) && isDoubleBlack(r) {
			lr := l.right
			return newNode(Black,
				l.left,
				l.key, l.val,
				balance(Black, lr.left, lr.key, lr.val, newNode(Red, lr.right, key, val, discharge(r))),
			)
		}
	default:
	}
	return newNode(color, l, key, val, r)
}

/*
balance extends the insertion patterns b1-b4 with two patterns for a
double black top whose red child has a red inner child.

bb1:
	  [[z]]                   [y]
	   / \                   /   \
	 <x>  d       ====>    [x]   [z]
	 / \                   / \   / \
	a  <y>                a   b c   d
	   / \
	  b   c

bb2 mirrors bb1 on the right child. The borrowed red node absorbs
the deficit and the top becomes a plain black node.
*/
func balance[K any, V any](color RBColor, l *rbNode[K, V], key K, val V, r *rbNode[K, V]) *rbNode[K, V] {
	switch color {
	case Black:
		if res, ok := rebalanceLeft(Red, l, key, val, r); ok {
			return res
		}
		if res, ok := rebalanceRight(Red, l, key, val, r); ok {
			return res
		}
	case doubleBlack:
		if /* bb1 */ isRed(l) && isRed(l.right) {
			lr := l.right
			return newNode(Black,
				newNode(Black, l.left, l.key, l.val, lr.left),
				lr.key, lr.val,
				newNode(Black, lr.right, key, val, r),
			)
		}
		if /* bb2 */ isRed(r) && isRed(r.left) {
			rl := r.left
			return newNode(Black,
				newNode(Black, l, key, val, rl.left),
				rl.key, rl.val,
				newNode(Black, rl.right, r.key, r.val, r.right),
			)
		}
	default:
	}
	return newNode(color, l, key, val, r)
}
