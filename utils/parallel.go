package utils

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/multierr"
	"go.viam.com/utils"
)

// ParallelFactor controls the max level of parallelization. This might be useful
// to set in tests where too much parallelism actually slows tests down in
// aggregate.
var ParallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
	quarterProcs := float64(ParallelFactor) * .25
	if quarterProcs > 8 {
		ParallelFactor = int(quarterProcs)
	}
}

// RangeWorkFunc handles the half-open work range [from, to).
type RangeWorkFunc func(ctx context.Context, from, to int) error

// ParallelForEachRange splits [0, totalSize) into at most ParallelFactor contiguous ranges
// and runs work on each of them concurrently. The last range absorbs the remainder. Errors
// and panics from every range are combined; the context passed to the remaining ranges is
// canceled after the first failure.
func ParallelForEachRange(ctx context.Context, totalSize int, work RangeWorkFunc) error {
	if totalSize <= 0 {
		return nil
	}
	numGroups := ParallelFactor
	if totalSize < numGroups {
		numGroups = totalSize
	}
	groupSize := totalSize / numGroups

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wait    sync.WaitGroup
		errMu   sync.Mutex
		allErrs error
	)
	storeError := func(err error) {
		errMu.Lock()
		allErrs = multierr.Combine(allErrs, err)
		errMu.Unlock()
		cancel()
	}

	wait.Add(numGroups)
	for groupNum := 0; groupNum < numGroups; groupNum++ {
		from := groupSize * groupNum
		to := from + groupSize
		if groupNum == numGroups-1 {
			to = totalSize
		}
		utils.PanicCapturingGo(func() {
			defer wait.Done()
			defer func() {
				if thePanic := recover(); thePanic != nil {
					storeError(fmt.Errorf("got panic working on range [%d, %d): %v", from, to, thePanic))
				}
			}()
			if err := ctx.Err(); err != nil {
				return
			}
			if err := work(ctx, from, to); err != nil {
				storeError(err)
			}
		})
	}
	wait.Wait()

	if allErrs == nil {
		// surfaces a cancellation of the parent context.
		return ctx.Err()
	}
	return allErrs
}
