package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildIntTree(keys ...int) RBTree[int, int] {
	tree := NewRBTree[int, int]()
	for _, k := range keys {
		_, tree = tree.Insert(k, k*k)
	}
	return tree
}

func TestIterator_PauseAndResume(t *testing.T) {
	tree := buildIntTree(8, 3, 10, 1, 6, 14, 4, 7, 13)
	it := tree.Iterator()
	require.False(t, it.Done())

	got := make([]int, 0, 9)
	var paused Iterator[int, int]
	for i := 0; ; i++ {
		e, next, ok := it.Next()
		if !ok {
			break
		}
		if i == 3 {
			paused = it
		}
		got = append(got, e.Key)
		require.Equal(t, e.Key*e.Key, e.Val)
		it = next
	}
	require.True(t, it.Done())
	require.Equal(t, []int{1, 3, 4, 6, 7, 8, 10, 13, 14}, got)

	// Resume from the iterator held before the 4th element.
	resumed := make([]int, 0, 6)
	for e, next, ok := paused.Next(); ok; e, next, ok = next.Next() {
		resumed = append(resumed, e.Key)
	}
	require.Equal(t, []int{6, 7, 8, 10, 13, 14}, resumed)

	_, next, ok := it.Next()
	require.False(t, ok)
	require.True(t, next.Done())
}

func TestIterator_Empty(t *testing.T) {
	it := NewRBTree[int, int]().Iterator()
	require.True(t, it.Done())
	_, _, ok := it.Next()
	require.False(t, ok)
}

func TestIterator_SurvivesNewVersions(t *testing.T) {
	tree := buildIntTree(1, 2, 3, 4, 5)
	it := tree.Iterator()
	_, it, _ = it.Next()

	// Updates build new trees, the iterator still walks the old one.
	_, _, err := tree.Pop(3)
	require.NoError(t, err)
	_, _ = tree.Insert(100, 0)

	keys := make([]int, 0, 4)
	for e, next, ok := it.Next(); ok; e, next, ok = next.Next() {
		keys = append(keys, e.Key)
	}
	require.Equal(t, []int{2, 3, 4, 5}, keys)
}

func TestFoldlFoldr(t *testing.T) {
	tree := buildIntTree(5, 2, 8, 1, 9, 3)

	asc := Foldl(tree, []int{}, func(key int, _ int, acc []int) []int {
		return append(acc, key)
	})
	require.Equal(t, []int{1, 2, 3, 5, 8, 9}, asc)

	desc := Foldr(tree, []int{}, func(key int, _ int, acc []int) []int {
		return append(acc, key)
	})
	require.Equal(t, []int{9, 8, 5, 3, 2, 1}, desc)

	sum := Foldl(tree, 0, func(_ int, val int, acc int) int {
		return acc + val
	})
	require.Equal(t, 25+4+64+1+81+9, sum)

	require.Equal(t, 7, Foldr(NewRBTree[int, int](), 7, func(_ int, _ int, acc int) int {
		return acc + 1
	}))
}

func TestToListKeysValues(t *testing.T) {
	tree := buildIntTree(3, 1, 2)
	require.Equal(t, []Entry[int, int]{{1, 1}, {2, 4}, {3, 9}}, tree.ToList())
	require.Equal(t, []int{1, 2, 3}, tree.Keys())
	require.Equal(t, []int{1, 4, 9}, tree.Values())
	require.Empty(t, NewRBTree[int, int]().ToList())
}

func TestForeach_Stop(t *testing.T) {
	tree := buildIntTree(1, 2, 3, 4, 5, 6)
	visited := 0
	tree.Foreach(func(idx int64, color RBColor, key int, val int) bool {
		visited++
		return key < 3
	})
	require.Equal(t, 3, visited)
}

func TestCheckInvariant_Violations(t *testing.T) {
	leaf := func(color RBColor, key int) *rbNode[int, int] {
		return newNode[int, int](color, nil, key, key, nil)
	}
	withRoot := func(root *rbNode[int, int]) RBTree[int, int] {
		return NewRBTree[int, int]().withRoot(root)
	}

	testcases := []struct {
		name string
		root *rbNode[int, int]
		err  error
	}{
		{
			name: "red root",
			root: leaf(Red, 1),
			err:  ErrRedRoot,
		},
		{
			name: "red red on the left",
			root: newNode(Black, newNode(Red, leaf(Red, 1), 2, 2, nil), 3, 3, leaf(Black, 4)),
			err:  ErrRedViolation,
		},
		{
			name: "red red on the right",
			root: newNode(Black, leaf(Black, 1), 2, 2, newNode(Red, nil, 3, 3, leaf(Red, 4))),
			err:  ErrRedViolation,
		},
		{
			name: "black height mismatch",
			root: newNode(Black, leaf(Black, 1), 2, 2, nil),
			err:  ErrBlackViolation,
		},
		{
			name: "double black escaped",
			root: newNode(Black, leaf(doubleBlack, 1), 2, 2, leaf(Black, 3)),
			err:  ErrTransientColor,
		},
		{
			name: "double black nil escaped",
			root: newNode(Black, newDoubleBlackNil[int, int](), 2, 2, nil),
			err:  ErrTransientColor,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			_, err := CheckInvariant(withRoot(tc.root))
			require.ErrorIs(tt, err, tc.err)
		})
	}

	require.ErrorIs(t, RedViolationValidate(withRoot(testcases[1].root)), ErrRedViolation)
	require.NoError(t, RedViolationValidate(withRoot(testcases[3].root)))
	require.ErrorIs(t, BlackViolationValidate(withRoot(testcases[3].root)), ErrBlackViolation)
	require.NoError(t, BlackViolationValidate(withRoot(testcases[1].root)))
}

func TestCheckInvariant_BlackHeight(t *testing.T) {
	bh, err := CheckInvariant(NewRBTree[int, int]())
	require.NoError(t, err)
	require.Equal(t, 0, bh)
	require.Equal(t, 0, Height(NewRBTree[int, int]()))

	tree := buildIntTree(1, 2, 3)
	bh, err = CheckInvariant(tree)
	require.NoError(t, err)
	require.Equal(t, 2, bh)
	require.Equal(t, 2, BlackHeight(tree))
	require.Equal(t, 2, Height(tree))
}

func TestColorString(t *testing.T) {
	require.Equal(t, "Black", Black.String())
	require.Equal(t, "Red", Red.String())
	require.Equal(t, "doubleBlack", doubleBlack.String())
	require.Equal(t, "Overwrite", Overwrite.String())
}

func TestCheckInvariant_SampleTree(t *testing.T) {
	leaf := func(color RBColor, key int) *rbNode[int, int] {
		return newNode[int, int](color, nil, key, key, nil)
	}
	root := newNode(Black,
		newNode(Red, newNode(Black, leaf(Red, 1), 6, 6, nil), 8, 8, leaf(Black, 11)),
		13, 13,
		newNode(Red, leaf(Black, 14), 15, 15, newNode(Black, leaf(Red, 16), 17, 17, nil)),
	)
	tree := NewRBTree[int, int]().withRoot(root)
	bh, err := CheckInvariant(tree)
	require.NoError(t, err)
	require.Equal(t, 2, bh)
	require.Equal(t, 2, BlackHeight(tree))
	require.Equal(t, 4, Height(tree))
	require.Equal(t, []int{1, 6, 8, 11, 13, 14, 15, 16, 17}, tree.Keys())
}
