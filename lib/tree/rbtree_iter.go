package tree

// iterFrame is a cell of an immutable stack of pending nodes.
type iterFrame[K any, V any] struct {
	node *rbNode[K, V]
	next *iterFrame[K, V]
}

// Iterator walks a tree in ascending key order. It is a value, Next
// never changes the receiver, so keeping an older iterator resumes
// the walk from where that iterator was taken.
// The stack depth is bounded by the tree height.
type Iterator[K any, V any] struct {
	top *iterFrame[K, V]
}

func pushLeftSpine[K any, V any](node *rbNode[K, V], top *iterFrame[K, V]) *iterFrame[K, V] {
	for aux := node; aux != nil; aux = aux.left {
		top = &iterFrame[K, V]{node: aux, next: top}
	}
	return top
}

func (tree RBTree[K, V]) Iterator() Iterator[K, V] {
	return Iterator[K, V]{top: pushLeftSpine(tree.root, nil)}
}

func (it Iterator[K, V]) Done() bool {
	return it.top == nil
}

// Next returns the current entry and the iterator positioned after it.
// The bool is false once the walk is exhausted.
func (it Iterator[K, V]) Next() (Entry[K, V], Iterator[K, V], bool) {
	if it.top == nil {
		return Entry[K, V]{}, it, false
	}
	node := it.top.node
	next := Iterator[K, V]{top: pushLeftSpine(node.right, it.top.next)}
	return Entry[K, V]{Key: node.key, Val: node.val}, next, true
}

// Foldl folds the entries in ascending key order.
func Foldl[K any, V any, A any](tree RBTree[K, V], acc A, fn func(key K, val V, acc A) A) A {
	return foldl(tree.root, acc, fn)
}

func foldl[K any, V any, A any](node *rbNode[K, V], acc A, fn func(key K, val V, acc A) A) A {
	if isNilLeaf(node) {
		return acc
	}
	acc = foldl(node.left, acc, fn)
	acc = fn(node.key, node.val, acc)
	return foldl(node.right, acc, fn)
}

// Foldr folds the entries in descending key order.
func Foldr[K any, V any, A any](tree RBTree[K, V], acc A, fn func(key K, val V, acc A) A) A {
	return foldr(tree.root, acc, fn)
}

func foldr[K any, V any, A any](node *rbNode[K, V], acc A, fn func(key K, val V, acc A) A) A {
	if isNilLeaf(node) {
		return acc
	}
	acc = foldr(node.right, acc, fn)
	acc = fn(node.key, node.val, acc)
	return foldr(node.left, acc, fn)
}

func (tree RBTree[K, V]) ToList() []Entry[K, V] {
	return Foldl(tree, []Entry[K, V](nil), func(key K, val V, acc []Entry[K, V]) []Entry[K, V] {
		return append(acc, Entry[K, V]{Key: key, Val: val})
	})
}

func (tree RBTree[K, V]) Keys() []K {
	return Foldl(tree, []K(nil), func(key K, _ V, acc []K) []K {
		return append(acc, key)
	})
}

func (tree RBTree[K, V]) Values() []V {
	return Foldl(tree, []V(nil), func(_ K, val V, acc []V) []V {
		return append(acc, val)
	})
}

// Min follows the left spine only.
func (tree RBTree[K, V]) Min() (Entry[K, V], bool) {
	if tree.IsEmpty() {
		return Entry[K, V]{}, false
	}
	aux := tree.root
	for ; aux.left != nil; aux = aux.left {
	}
	return Entry[K, V]{Key: aux.key, Val: aux.val}, true
}

// Max follows the right spine only.
func (tree RBTree[K, V]) Max() (Entry[K, V], bool) {
	if tree.IsEmpty() {
		return Entry[K, V]{}, false
	}
	aux := tree.root
	for ; aux.right != nil; aux = aux.right {
	}
	return Entry[K, V]{Key: aux.key, Val: aux.val}, true
}

// Inorder traversal to implement the DFS.
// The walk stops as soon as action returns false.
func (tree RBTree[K, V]) Foreach(action func(idx int64, color RBColor, key K, val V) bool) {
	aux := tree.root
	if aux == nil {
		return
	}

	stack := make([]*rbNode[K, V], 0, 32)
	defer func() {
		clear(stack)
	}()

	for ; !isNilLeaf(aux); aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; !action(idx, aux.color, aux.key, aux.val) {
			return
		}
		idx++
		stack = stack[:size-1]
		for aux = aux.right; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}
