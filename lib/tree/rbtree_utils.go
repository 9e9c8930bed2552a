package tree

import (
	"errors"
	"fmt"
)

var (
	ErrRedRoot        = errors.New("[rbtree] red root")
	ErrRedViolation   = errors.New("[rbtree] red violation")
	ErrBlackViolation = errors.New("[rbtree] black violation")
	ErrTransientColor = errors.New("[rbtree] transient color escaped")
)

// rbtree rule validation utilities.

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	         [13]
	         /  \
	      <8>    <15>
	      / \    /  \
	    [6] [11] [14] [17]
	    /              /
	  <1>            <16>

Each nil leaf to root black depth is 2, so CheckInvariant returns 2.
*/

// CheckInvariant recomputes the black-height bottom up. It returns the
// black-height of the root or the first violation found: a red root,
// a red node with a red child, then a black-height mismatch between
// two siblings. The nil leaf has black-height 0.
func CheckInvariant[K any, V any](tree RBTree[K, V]) (int, error) {
	if isRed(tree.root) {
		return 0, ErrRedRoot
	}
	return checkNode(tree.root)
}

func checkNode[K any, V any](node *rbNode[K, V]) (int, error) {
	if isNilLeaf(node) {
		return 0, nil
	}
	if node.color != Red && node.color != Black {
		return 0, fmt.Errorf("%w: %s at key %v", ErrTransientColor, node.color, node.key)
	}

	lh, err := checkNode(node.left)
	if err != nil {
		return 0, err
	}
	rh, err := checkNode(node.right)
	if err != nil {
		return 0, err
	}

	if node.color == Red && (isRed(node.left) || isRed(node.right)) {
		return 0, fmt.Errorf("%w: red node with red child at key %v", ErrRedViolation, node.key)
	}
	if lh != rh {
		return 0, fmt.Errorf("%w: black-height %d != %d at key %v", ErrBlackViolation, lh, rh, node.key)
	}
	if node.color == Black {
		return lh + 1, nil
	}
	return lh, nil
}

// RedViolationValidate reports only red root and red-red violations.
func RedViolationValidate[K any, V any](tree RBTree[K, V]) error {
	if _, err := CheckInvariant(tree); errors.Is(err, ErrRedRoot) || errors.Is(err, ErrRedViolation) {
		return err
	}
	return nil
}

// BlackViolationValidate reports only black-height mismatches.
func BlackViolationValidate[K any, V any](tree RBTree[K, V]) error {
	if _, err := CheckInvariant(tree); errors.Is(err, ErrBlackViolation) {
		return err
	}
	return nil
}

// Height is the number of nodes on the longest root to leaf path.
func Height[K any, V any](tree RBTree[K, V]) int {
	return nodeHeight(tree.root)
}

func nodeHeight[K any, V any](node *rbNode[K, V]) int {
	if isNilLeaf(node) {
		return 0
	}
	return 1 + max(nodeHeight(node.left), nodeHeight(node.right))
}

// BlackHeight counts the black nodes along the left spine. It equals
// the black-height of every path only for a valid tree.
func BlackHeight[K any, V any](tree RBTree[K, V]) int {
	height := 0
	for aux := tree.root; aux != nil; aux = aux.left {
		if aux.color == Black {
			height++
		}
	}
	return height
}
