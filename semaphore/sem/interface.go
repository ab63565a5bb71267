/*
 * MIT License
 *
 * Copyright (c) 2019 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package sem provides a counting semaphore used to bound the number of
// concurrently in-flight worker goroutines. A non-positive size switches the
// implementation to an unbounded WaitGroup-based variant.
package sem

import (
	"context"
	"runtime"
)

// Semaphore bounds concurrent worker admission and embeds context.Context so
// callers can select on cancellation the same way they would on any context.
type Semaphore interface {
	context.Context

	// Weighted returns the configured concurrency limit, or -1 for the
	// unbounded WaitGroup variant.
	Weighted() int64

	// NewWorker blocks until a slot is available or the context is done.
	NewWorker() error
	// NewWorkerTry acquires a slot without blocking; returns false if none
	// is immediately available.
	NewWorkerTry() bool
	// DeferWorker releases a slot acquired by NewWorker/NewWorkerTry.
	DeferWorker()

	// WaitAll blocks until every currently-acquired worker has called
	// DeferWorker, or the context is done.
	WaitAll() error

	// DeferMain cancels the semaphore's own context. Safe to call more
	// than once.
	DeferMain()

	// New returns an independent semaphore with the same limit, whose
	// context is derived from this one.
	New() Semaphore
}

// MaxSimultaneous returns the default concurrency limit used when New is
// called with nbrSimultaneous == 0: the runtime's GOMAXPROCS value.
func MaxSimultaneous() int {
	return runtime.GOMAXPROCS(0)
}

// SetSimultaneous clamps n into [1, MaxSimultaneous()], returning
// MaxSimultaneous() for any n outside that range.
func SetSimultaneous(n int64) int64 {
	max := int64(MaxSimultaneous())
	if n < 1 || n > max {
		return max
	}
	return n
}

// New returns a Semaphore bound to ctx.
//
//   - nbrSimultaneous == 0 uses MaxSimultaneous() as the limit.
//   - nbrSimultaneous > 0 uses that value as the limit.
//   - nbrSimultaneous < 0 returns an unbounded WaitGroup-based semaphore
//     whose Weighted() reports -1.
func New(ctx context.Context, nbrSimultaneous int64) Semaphore {
	if nbrSimultaneous < 0 {
		return newWaitGroupSemaphore(ctx)
	}

	n := nbrSimultaneous
	if n == 0 {
		n = int64(MaxSimultaneous())
	}

	return newWeightedSemaphore(ctx, n)
}
