// Copyright 2021 mamezou-tech. All rights reserved.

package sampleclient

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/gammazero/workerpool"
	"github.com/pkg/errors"
)

const maxBurstWorkers = 16

// BurstResult reports the value of 'SampleVariable' after a burst of calls.
type BurstResult struct {
	Before, Expected, Actual int32
	Failed                   int
}

// Burst calls 'IncreaseVariable' with delta the given number of times on
// concurrent workers, then reads 'SampleVariable'. No other client may change
// the variable during the burst, or Actual differs from Expected.
func Burst(ctx context.Context, acc SampleAccessor, calls int, delta int32) (BurstResult, error) {
	before, err := acc.ReadSampleVariable(ctx)
	if err != nil {
		return BurstResult{}, errors.Wrap(err, "Error reading SampleVariable before burst")
	}

	var failed int64
	wp := workerpool.New(min(calls, maxBurstWorkers))
	for i := 0; i < calls; i++ {
		wp.Submit(func() {
			if _, err := acc.IncreaseVariable(ctx, delta); err != nil {
				atomic.AddInt64(&failed, 1)
			}
		})
	}
	wp.StopWait()

	after, err := acc.ReadSampleVariable(ctx)
	if err != nil {
		return BurstResult{}, errors.Wrap(err, "Error reading SampleVariable after burst")
	}
	succeeded := int32(calls - int(failed))
	return BurstResult{
		Before:   before,
		Expected: before + succeeded*delta,
		Actual:   after,
		Failed:   int(failed),
	}, nil
}

// Print writes the result to w.
func (r BurstResult) Print(w io.Writer) {
	fmt.Fprintf(w, "the value of SampleVariable before: %d\n", r.Before)
	if r.Failed > 0 {
		fmt.Fprintf(w, "%d method calls were unsuccessful.\n", r.Failed)
	}
	fmt.Fprintf(w, "expected: %d, actual: %d\n", r.Expected, r.Actual)
}
