package tree

import (
	"math"
	randv2 "math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benz9527/xrbtree/lib/infra"
)

type checkData struct {
	color RBColor
	key   uint64
}

func requireColorsAndKeys(t *testing.T, tree RBTree[uint64, uint64], expected []checkData) {
	t.Helper()
	count := 0
	tree.Foreach(func(idx int64, color RBColor, key uint64, val uint64) bool {
		require.Less(t, int(idx), len(expected))
		require.Equal(t, expected[idx].color, color, "key %d", key)
		require.Equal(t, expected[idx].key, key)
		count++
		return true
	})
	require.Equal(t, len(expected), count)
	_, err := CheckInvariant(tree)
	require.NoError(t, err)
}

func TestNilNode(t *testing.T) {
	tree := NewRBTree[uint64, uint64]()
	require.True(t, tree.IsEmpty())
	require.Nil(t, tree.Root())

	_, tree = tree.Insert(1, 1)
	require.NotNil(t, tree.Root())
	require.Nil(t, tree.Root().Left())
	require.Nil(t, tree.Root().Right())
}

func TestRBTree_InsertThreeKeys(t *testing.T) {
	tree := NewRBTree[int, string]()
	_, tree = tree.Insert(1, "A")
	_, tree = tree.Insert(3, "C")
	res, tree := tree.Insert(2, "B")
	require.True(t, res.IsNew())

	require.Equal(t, []Entry[int, string]{{1, "A"}, {2, "B"}, {3, "C"}}, tree.ToList())
	root := tree.Root()
	require.Equal(t, Black, root.Color())
	require.Equal(t, 2, root.Key())
	require.Equal(t, Black, root.Left().Color())
	require.Equal(t, Black, root.Right().Color())
}

func TestRBTree_InsertOverwrite(t *testing.T) {
	v1 := NewRBTree[string, int]()
	_, v1 = v1.Insert("a", 1)
	_, v1 = v1.Insert("b", 2)

	res, v2 := v1.Insert("a", 10)
	require.Equal(t, Overwrite, res.Kind)
	require.Equal(t, 1, res.Prev)
	require.False(t, res.IsNew())

	val, ok := v2.Fetch("a")
	require.True(t, ok)
	require.Equal(t, 10, val)

	// The older version is untouched.
	val, ok = v1.Fetch("a")
	require.True(t, ok)
	require.Equal(t, 1, val)

	_, ok = v2.Fetch("c")
	require.False(t, ok)
	require.False(t, v2.Has("c"))
	require.True(t, v2.Has("b"))
}

func TestRBTree_LargeIntegerAndFloatKeys(t *testing.T) {
	a, b, c := int64(1<<53), int64(1<<53+1), float64(1<<53)
	tree := NewRBTreeFunc[any, string](infra.CompareAny)
	_, tree = tree.Insert(a, "a")
	_, tree = tree.Insert(b, "b")
	res, tree := tree.Insert(c, "c")
	require.Equal(t, Overwrite, res.Kind)
	require.Equal(t, "a", res.Prev)

	list := tree.ToList()
	require.Len(t, list, 2)
	require.Equal(t, c, list[0].Key)
	require.Equal(t, "c", list[0].Val)
	require.Equal(t, b, list[1].Key)
	require.Equal(t, "b", list[1].Val)

	val, ok := tree.Fetch(b)
	require.True(t, ok)
	require.Equal(t, "b", val)
	val, ok = tree.Fetch(a)
	require.True(t, ok)
	require.Equal(t, "c", val)
	_, err := CheckInvariant(tree)
	require.NoError(t, err)
}

func TestRBTree_NumericKeyCollapse(t *testing.T) {
	tree := NewRBTreeFunc[any, string](infra.CompareAny)
	res, tree := tree.Insert(1, "int")
	require.Equal(t, New, res.Kind)
	res, tree = tree.Insert(1.0, "float")
	require.Equal(t, Overwrite, res.Kind)
	require.Equal(t, "int", res.Prev)

	list := tree.ToList()
	require.Len(t, list, 1)
	require.IsType(t, float64(0), list[0].Key)
	require.Equal(t, 1.0, list[0].Key)
	require.Equal(t, "float", list[0].Val)

	val, ok := tree.Fetch(int8(1))
	require.True(t, ok)
	require.Equal(t, "float", val)
}

func TestRBTree_PopInnerKey(t *testing.T) {
	tree := NewRBTree[string, string]()
	for _, e := range []Entry[string, string]{{"a", "A"}, {"b", "B"}, {"c", "C"}} {
		_, tree = tree.Insert(e.Key, e.Val)
	}

	val, after, err := tree.Pop("b")
	require.NoError(t, err)
	require.Equal(t, "B", val)
	require.Equal(t, []Entry[string, string]{{"a", "A"}, {"c", "C"}}, after.ToList())

	root := after.Root()
	require.Equal(t, Black, root.Color())
	require.Equal(t, "a", root.Key())
	require.Nil(t, root.Left())
	require.Equal(t, Red, root.Right().Color())
	require.Equal(t, "c", root.Right().Key())
	require.Nil(t, root.Right().Left())
	require.Nil(t, root.Right().Right())

	require.Len(t, tree.ToList(), 3)
}

func TestRBTree_PopAbsentKey(t *testing.T) {
	tree := NewRBTree[int, int]()
	for _, k := range []int{10, 20, 30, 40} {
		_, tree = tree.Insert(k, k)
	}
	testcases := []struct {
		name string
		key  int
	}{
		{"before min", 1},
		{"between", 25},
		{"after max", 99},
		{"next to leaf", 35},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			_, after, err := tree.Pop(tc.key)
			require.ErrorIs(tt, err, ErrKeyNotFound)
			require.True(tt, after.root == tree.root)
		})
	}

	_, _, err := NewRBTree[int, int]().Pop(1)
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRBTree_PopTwice(t *testing.T) {
	tree := NewRBTree[int, string]()
	for i := 0; i < 16; i++ {
		_, tree = tree.Insert(i, "x")
	}
	_, tree = tree.Insert(7, "seven")
	val, tree, err := tree.Pop(7)
	require.NoError(t, err)
	require.Equal(t, "seven", val)
	_, ok := tree.Fetch(7)
	require.False(t, ok)
	_, _, err = tree.Pop(7)
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRBTree_PopThreeNodeShape(t *testing.T) {
	// Black node with a single red leaf on the left.
	tree := NewRBTree[int, int]()
	_, tree = tree.Insert(2, 2)
	_, tree = tree.Insert(1, 1)

	_, left, err := tree.Pop(1)
	require.NoError(t, err)
	require.Equal(t, []int{2}, left.Keys())
	require.Equal(t, Black, left.Root().Color())

	_, right, err := tree.Pop(2)
	require.NoError(t, err)
	require.Equal(t, []int{1}, right.Keys())
	require.Equal(t, Black, right.Root().Color())

	_, _, err = tree.Pop(0)
	require.ErrorIs(t, err, ErrKeyNotFound)
	_, _, err = tree.Pop(3)
	require.ErrorIs(t, err, ErrKeyNotFound)

	_, empty, err := right.Pop(1)
	require.NoError(t, err)
	require.True(t, empty.IsEmpty())
}

func TestRbtreeInsertAndPop_Colors(t *testing.T) {
	tree := NewRBTree[uint64, uint64]()

	_, tree = tree.Insert(52, 1)
	requireColorsAndKeys(t, tree, []checkData{{Black, 52}})

	_, tree = tree.Insert(47, 1)
	requireColorsAndKeys(t, tree, []checkData{{Red, 47}, {Black, 52}})

	_, tree = tree.Insert(3, 1)
	requireColorsAndKeys(t, tree, []checkData{{Black, 3}, {Black, 47}, {Black, 52}})

	_, tree = tree.Insert(35, 1)
	requireColorsAndKeys(t, tree, []checkData{{Black, 3}, {Red, 35}, {Black, 47}, {Black, 52}})

	_, tree = tree.Insert(24, 1)
	full := tree
	requireColorsAndKeys(t, tree, []checkData{{Black, 3}, {Red, 24}, {Black, 35}, {Black, 47}, {Black, 52}})

	// pop

	_, tree, err := tree.Pop(24)
	require.NoError(t, err)
	requireColorsAndKeys(t, tree, []checkData{{Black, 3}, {Red, 35}, {Black, 47}, {Black, 52}})

	_, tree, err = tree.Pop(47)
	require.NoError(t, err)
	requireColorsAndKeys(t, tree, []checkData{{Black, 3}, {Black, 35}, {Black, 52}})

	_, tree, err = tree.Pop(52)
	require.NoError(t, err)
	requireColorsAndKeys(t, tree, []checkData{{Black, 3}, {Red, 35}})

	_, tree, err = tree.Pop(3)
	require.NoError(t, err)
	requireColorsAndKeys(t, tree, []checkData{{Black, 35}})

	_, tree, err = tree.Pop(35)
	require.NoError(t, err)
	require.True(t, tree.IsEmpty())

	requireColorsAndKeys(t, full, []checkData{{Black, 3}, {Red, 24}, {Black, 35}, {Black, 47}, {Black, 52}})
}

func TestRbtree_PopMin(t *testing.T) {
	tree := NewRBTree[uint64, uint64]()
	for _, k := range []uint64{52, 47, 3, 35, 24} {
		_, tree = tree.Insert(k, k*10)
	}

	e, tree, err := tree.PopMin()
	require.NoError(t, err)
	require.Equal(t, Entry[uint64, uint64]{3, 30}, e)
	requireColorsAndKeys(t, tree, []checkData{{Red, 24}, {Black, 35}, {Black, 47}, {Black, 52}})

	e, tree, err = tree.PopMin()
	require.NoError(t, err)
	require.Equal(t, uint64(24), e.Key)
	requireColorsAndKeys(t, tree, []checkData{{Black, 35}, {Black, 47}, {Black, 52}})

	e, tree, err = tree.PopMin()
	require.NoError(t, err)
	require.Equal(t, uint64(35), e.Key)
	requireColorsAndKeys(t, tree, []checkData{{Red, 47}, {Black, 52}})

	e, tree, err = tree.PopMin()
	require.NoError(t, err)
	require.Equal(t, uint64(47), e.Key)
	requireColorsAndKeys(t, tree, []checkData{{Black, 52}})

	e, tree, err = tree.PopMin()
	require.NoError(t, err)
	require.Equal(t, uint64(52), e.Key)
	require.True(t, tree.IsEmpty())

	_, _, err = tree.PopMin()
	require.ErrorIs(t, err, ErrEmptyTree)
}

func TestRbtree_PopMax(t *testing.T) {
	tree := NewRBTree[int, int]()
	keys := randv2.Perm(500)
	for _, k := range keys {
		_, tree = tree.Insert(k, -k)
	}
	for expected := 499; expected >= 0; expected-- {
		e, next, err := tree.PopMax()
		require.NoError(t, err)
		require.Equal(t, expected, e.Key)
		require.Equal(t, -expected, e.Val)
		_, err = CheckInvariant(next)
		require.NoError(t, err)
		tree = next
	}
	require.True(t, tree.IsEmpty())
	_, _, err := tree.PopMax()
	require.ErrorIs(t, err, ErrEmptyTree)
}

func TestRBTree_MinMax(t *testing.T) {
	tree := NewRBTree[int, string]()
	_, ok := tree.Min()
	require.False(t, ok)
	_, ok = tree.Max()
	require.False(t, ok)

	for _, k := range []int{5, 1, 9, 3, 7} {
		_, tree = tree.Insert(k, "v")
	}
	e, ok := tree.Min()
	require.True(t, ok)
	require.Equal(t, 1, e.Key)
	e, ok = tree.Max()
	require.True(t, ok)
	require.Equal(t, 9, e.Key)
}

func TestRBTree_Desc(t *testing.T) {
	tree := NewRBTree[int, int](WithRBTreeDesc[int, int]())
	for _, k := range []int{3, 1, 4, 1, 5, 9, 2, 6} {
		_, tree = tree.Insert(k, k)
	}
	require.Equal(t, []int{9, 6, 5, 4, 3, 2, 1}, tree.Keys())
	e, _ := tree.Min()
	require.Equal(t, 9, e.Key)
	_, tree, err := tree.Pop(4)
	require.NoError(t, err)
	require.Equal(t, []int{9, 6, 5, 3, 2, 1}, tree.Keys())
}

func TestRBTree_NilComparator(t *testing.T) {
	require.Panics(t, func() {
		NewRBTreeFunc[int, int](nil)
	})
}

func TestRbtreeRandomInsertAndPop(t *testing.T) {
	type testcase struct {
		name     string
		keySpace int
		ops      int
	}
	testcases := []testcase{
		{name: "dense 64", keySpace: 64, ops: 5000},
		{name: "sparse 10000", keySpace: 10000, ops: 20000},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			rng := randv2.New(randv2.NewPCG(uint64(tc.keySpace), uint64(tc.ops)))
			tree := NewRBTree[int, int]()
			ref := make(map[int]int)

			type snapshot struct {
				tree RBTree[int, int]
				keys []int
			}
			snapshots := make([]snapshot, 0, 16)

			for i := 0; i < tc.ops; i++ {
				key := rng.IntN(tc.keySpace)
				if rng.IntN(3) == 0 {
					val, next, err := tree.Pop(key)
					if expected, ok := ref[key]; ok {
						require.NoError(tt, err)
						require.Equal(tt, expected, val)
						delete(ref, key)
					} else {
						require.ErrorIs(tt, err, ErrKeyNotFound)
						require.True(tt, next.root == tree.root)
					}
					tree = next
				} else {
					res, next := tree.Insert(key, i)
					if prev, ok := ref[key]; ok {
						require.Equal(tt, Overwrite, res.Kind)
						require.Equal(tt, prev, res.Prev)
					} else {
						require.Equal(tt, New, res.Kind)
					}
					ref[key] = i
					tree = next
				}

				_, err := CheckInvariant(tree)
				require.NoError(tt, err)
				if i%(tc.ops/8) == 0 {
					snapshots = append(snapshots, snapshot{tree: tree, keys: tree.Keys()})
				}
			}

			keys := make([]int, 0, len(ref))
			for k, v := range ref {
				keys = append(keys, k)
				got, ok := tree.Fetch(k)
				require.True(tt, ok)
				require.Equal(tt, v, got)
			}
			sort.Ints(keys)
			require.Equal(tt, len(keys), len(tree.Keys()))
			if len(keys) > 0 {
				require.Equal(tt, keys, tree.Keys())
			}

			for _, s := range snapshots {
				require.Equal(tt, s.keys, s.tree.Keys())
			}
		})
	}
}

func TestRBTree_ShuffledHundredThousand(t *testing.T) {
	n := 100_000
	tree := NewRBTree[int, struct{}]()
	for _, k := range randv2.Perm(n) {
		_, tree = tree.Insert(k, struct{}{})
	}
	bh, err := CheckInvariant(tree)
	require.NoError(t, err)
	require.Equal(t, bh, BlackHeight(tree))

	height := Height(tree)
	bound := 2 * math.Log2(float64(n+1))
	require.LessOrEqual(t, float64(height), bound)
	require.GreaterOrEqual(t, 2*bh, height)
	require.GreaterOrEqual(t, height, int(math.Log2(float64(n))))

	prev := -1
	tree.Foreach(func(idx int64, color RBColor, key int, _ struct{}) bool {
		require.Equal(t, prev+1, key)
		prev = key
		return true
	})
	require.Equal(t, n-1, prev)
}

func TestRbtreeSequentialPopAll(t *testing.T) {
	tree := NewRBTree[uint64, uint64]()
	total := uint64(2000)
	for i := uint64(0); i < total; i++ {
		_, tree = tree.Insert(i, i)
	}
	for i := uint64(0); i < total; i += 2 {
		val, next, err := tree.Pop(i)
		require.NoError(t, err)
		require.Equal(t, i, val)
		require.NoError(t, RedViolationValidate(next))
		require.NoError(t, BlackViolationValidate(next))
		tree = next
	}
	tree.Foreach(func(idx int64, color RBColor, key uint64, val uint64) bool {
		require.Equal(t, uint64(idx)*2+1, key)
		return true
	})
}

func BenchmarkRBTree_Random(b *testing.B) {
	testByBytes := []byte(`abc`)

	b.StopTimer()
	tree := NewRBTree[int, []byte]()

	rngArr := make([]int, 0, b.N)
	for i := 0; i < b.N; i++ {
		rngArr = append(rngArr, randv2.Int())
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		_, tree = tree.Insert(rngArr[i], testByBytes)
	}
}

func BenchmarkRBTree_Serial(b *testing.B) {
	testByBytes := []byte(`abc`)

	b.StopTimer()
	tree := NewRBTree[int, []byte]()

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		_, tree = tree.Insert(i, testByBytes)
	}
}
