package verify

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xrbtree/lib/tree"
	"github.com/benz9527/xrbtree/lib/xlog"
)

// Report summarises a verification run. Shape maxima only cover
// the trials that passed.
type Report struct {
	Seed           uint64
	Trials         int
	Passed         int
	Ops            int64
	Failures       int64
	MaxHeight      int
	MaxBlackHeight int
}

type trialResult struct {
	err         error
	ops         int64
	failures    int64
	height      int
	blackHeight int
}

type intTree = tree.RBTree[int, int]

type snapshot struct {
	op   int
	tree intTree
	ref  map[int]int
}

type trialRunner struct {
	id          int
	seed        uint64
	opsPerTrial int
	keySpace    int
	readers     int
	popRatio    float64
	readerPool  *ants.Pool
}

// Run applies random workloads to fresh trees and checks every version
// against a map model. The returned error aggregates all failed trials,
// the report is returned whenever the options are valid.
func Run(ctx context.Context, opts ...Option) (*Report, error) {
	opt := newOption()
	for _, o := range opts {
		if err := o(opt); err != nil {
			return nil, err
		}
	}
	seed := rand.Uint64()
	if opt.seed != nil {
		seed = *opt.seed
	}
	logger := opt.getLogger().Named("Verify")
	stats := newVerifyStats(opt.getMeterProvider())

	trialPool, err := ants.NewPool(opt.getWorkers(),
		ants.WithLogger(xlog.NewAntsXLogger(logger)),
	)
	if err != nil {
		return nil, err
	}
	defer trialPool.Release()
	// Readers run on their own pool, a trial waiting on its readers
	// must never hold the slot they need.
	readerPool, err := ants.NewPool(opt.getWorkers()*opt.getReaders(),
		ants.WithLogger(xlog.NewAntsXLogger(logger)),
	)
	if err != nil {
		return nil, err
	}
	defer readerPool.Release()

	trials := opt.getTrials()
	results := make([]trialResult, trials)
	wg := sync.WaitGroup{}
	for _, i := range lo.Range(trials) {
		runner := &trialRunner{
			id:          i,
			seed:        seed,
			opsPerTrial: opt.getOpsPerTrial(),
			keySpace:    opt.getKeySpace(),
			readers:     opt.getReaders(),
			popRatio:    opt.popRatio,
			readerPool:  readerPool,
		}
		wg.Add(1)
		if err := trialPool.Submit(func() {
			defer wg.Done()
			results[i] = runner.run(ctx)
		}); err != nil {
			wg.Done()
			results[i] = trialResult{err: fmt.Errorf("trial %d: %w", i, err)}
		}
	}
	wg.Wait()

	statsCtx := context.WithoutCancel(ctx)
	report := &Report{Seed: seed, Trials: trials}
	var errs error
	for i, res := range results {
		report.Ops += res.ops
		report.Failures += res.failures
		stats.RecordOps(statsCtx, res.ops)
		stats.IncreaseFailures(statsCtx, res.failures)
		stats.IncreaseTrials(statsCtx, res.err == nil)
		if res.err != nil {
			logger.Error(res.err, "trial failed", zap.Int("trial", i), zap.Uint64("seed", seed))
			errs = multierr.Append(errs, res.err)
			continue
		}
		report.Passed++
		report.MaxHeight = max(report.MaxHeight, res.height)
		report.MaxBlackHeight = max(report.MaxBlackHeight, res.blackHeight)
		stats.RecordShape(statsCtx, res.height, res.blackHeight)
	}
	logger.Info("verification finished",
		zap.Uint64("seed", seed),
		zap.Int("trials", report.Trials),
		zap.Int("passed", report.Passed),
		zap.Int64("ops", report.Ops),
		zap.Int64("failures", report.Failures),
		zap.Int("maxHeight", report.MaxHeight),
		zap.Int("maxBlackHeight", report.MaxBlackHeight),
	)
	return report, errs
}

func (r *trialRunner) run(ctx context.Context) (res trialResult) {
	defer func() {
		if p := recover(); p != nil {
			res.err = multierr.Append(res.err, fmt.Errorf("trial %d: panic: %v", r.id, p))
			res.failures++
		}
	}()

	rng := rand.New(rand.NewPCG(r.seed, uint64(r.id)))
	t := tree.NewRBTree[int, int]()
	ref := make(map[int]int, r.keySpace)
	snapshots := make([]snapshot, 0, r.opsPerTrial/defaultSnapshotEvery+1)
	for op := 0; op < r.opsPerTrial; op++ {
		if err := ctx.Err(); err != nil {
			res.err = fmt.Errorf("trial %d: %w", r.id, err)
			return res
		}
		next, err := r.step(rng, t, ref)
		res.ops++
		if err == nil {
			err = checkTree(next, ref)
		}
		if err != nil {
			res.err = fmt.Errorf("trial %d op %d: %w", r.id, op, err)
			res.failures++
			return res
		}
		t = next
		if op%defaultSnapshotEvery == 0 {
			snapshots = append(snapshots, snapshot{op: op, tree: t, ref: maps.Clone(ref)})
		}
	}

	// Later versions must not have touched earlier ones.
	for _, snap := range snapshots {
		if err := checkTree(snap.tree, snap.ref); err != nil {
			res.err = multierr.Append(res.err, fmt.Errorf("trial %d snapshot %d: %w", r.id, snap.op, err))
			res.failures++
		}
	}
	if err := r.readConcurrently(t, len(ref)); err != nil {
		res.err = multierr.Append(res.err, fmt.Errorf("trial %d: %w", r.id, err))
		res.failures += int64(len(multierr.Errors(err)))
	}
	res.height = tree.Height(t)
	res.blackHeight = tree.BlackHeight(t)
	return res
}

func (r *trialRunner) step(rng *rand.Rand, t intTree, ref map[int]int) (intTree, error) {
	key := rng.IntN(r.keySpace)
	dice := rng.Float64()
	switch {
	case dice < r.popRatio/2:
		return popKey(t, ref, key)
	case dice < r.popRatio*3/4:
		return popEdge(t, ref, t.PopMin, lo.Min[int], "pop min")
	case dice < r.popRatio:
		return popEdge(t, ref, t.PopMax, lo.Max[int], "pop max")
	default:
	}

	val := rng.Int()
	res, next := t.Insert(key, val)
	prev, existed := ref[key]
	if res.IsNew() == existed {
		return t, fmt.Errorf("insert %d: reported %s, key existed %v", key, res.Kind, existed)
	}
	if existed && res.Prev != prev {
		return t, fmt.Errorf("insert %d: previous value %d, want %d", key, res.Prev, prev)
	}
	ref[key] = val
	return next, nil
}

func popKey(t intTree, ref map[int]int, key int) (intTree, error) {
	val, next, err := t.Pop(key)
	expected, ok := ref[key]
	if !ok {
		if !errors.Is(err, tree.ErrKeyNotFound) {
			return t, fmt.Errorf("pop absent %d: unexpected error %v", key, err)
		}
		if next.Root() != t.Root() {
			return t, fmt.Errorf("pop absent %d: tree was rebuilt", key)
		}
		return next, nil
	}
	if err != nil {
		return t, fmt.Errorf("pop %d: %w", key, err)
	}
	if val != expected {
		return t, fmt.Errorf("pop %d: value %d, want %d", key, val, expected)
	}
	if next.Has(key) {
		return t, fmt.Errorf("pop %d: key still present", key)
	}
	delete(ref, key)
	return next, nil
}

func popEdge(
	t intTree,
	ref map[int]int,
	pop func() (tree.Entry[int, int], intTree, error),
	pick func([]int) int,
	name string,
) (intTree, error) {
	e, next, err := pop()
	if len(ref) == 0 {
		if !errors.Is(err, tree.ErrEmptyTree) {
			return t, fmt.Errorf("%s on empty tree: unexpected error %v", name, err)
		}
		return next, nil
	}
	if err != nil {
		return t, fmt.Errorf("%s: %w", name, err)
	}
	want := pick(lo.Keys(ref))
	if e.Key != want || e.Val != ref[want] {
		return t, fmt.Errorf("%s: got (%d, %d), want (%d, %d)", name, e.Key, e.Val, want, ref[want])
	}
	delete(ref, want)
	return next, nil
}

func checkTree(t intTree, ref map[int]int) error {
	if _, err := tree.CheckInvariant(t); err != nil {
		return err
	}
	entries := t.ToList()
	if len(entries) != len(ref) {
		return fmt.Errorf("size %d, want %d", len(entries), len(ref))
	}
	for i, e := range entries {
		if i > 0 && entries[i-1].Key >= e.Key {
			return fmt.Errorf("keys out of order at %d: %d then %d", i, entries[i-1].Key, e.Key)
		}
		if want, ok := ref[e.Key]; !ok || want != e.Val {
			return fmt.Errorf("entry (%d, %d) not in model", e.Key, e.Val)
		}
	}
	return nil
}

func (r *trialRunner) readConcurrently(t intTree, size int) error {
	var (
		wg   sync.WaitGroup
		lock sync.Mutex
		errs error
	)
	sum := func(_ int, val int, acc int) int {
		return acc + val
	}
	wantSum := tree.Foldl(t, 0, sum)
	appendErr := func(err error) {
		lock.Lock()
		defer lock.Unlock()
		errs = multierr.Append(errs, err)
	}
	for _, reader := range lo.Range(r.readers) {
		wg.Add(1)
		if err := r.readerPool.Submit(func() {
			defer wg.Done()
			if err := readOnce(t, size, wantSum, sum); err != nil {
				appendErr(fmt.Errorf("reader %d: %w", reader, err))
			}
		}); err != nil {
			wg.Done()
			appendErr(fmt.Errorf("reader %d: %w", reader, err))
		}
	}
	wg.Wait()
	return errs
}

func readOnce(t intTree, size, wantSum int, sum func(int, int, int) int) error {
	keys := make([]int, 0, size)
	it := t.Iterator()
	for e, next, ok := it.Next(); ok; e, next, ok = next.Next() {
		keys = append(keys, e.Key)
	}
	if len(keys) != size {
		return fmt.Errorf("iterated %d keys, want %d", len(keys), size)
	}
	if len(lo.Uniq(keys)) != len(keys) {
		return errors.New("duplicate keys")
	}
	if !slices.IsSorted(keys) {
		return errors.New("iteration out of order")
	}
	if !slices.Equal(keys, t.Keys()) {
		return errors.New("iterator and key list disagree")
	}
	if got := tree.Foldr(t, 0, sum); got != wantSum {
		return fmt.Errorf("right fold %d, left fold %d", got, wantSum)
	}
	return nil
}
