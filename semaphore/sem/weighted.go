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

package sem

import (
	"context"
	"sync"
)

type weighted struct {
	context.Context
	cancel context.CancelFunc

	n    int64
	slot chan struct{}

	mu      sync.Mutex
	inFlush int64
	wait    chan struct{}
}

func newWeightedSemaphore(ctx context.Context, n int64) Semaphore {
	c, cancel := context.WithCancel(ctx)
	return &weighted{
		Context: c,
		cancel:  cancel,
		n:       n,
		slot:    make(chan struct{}, n),
	}
}

func (w *weighted) Weighted() int64 {
	return w.n
}

func (w *weighted) NewWorker() error {
	select {
	case w.slot <- struct{}{}:
		w.incr()
		return nil
	case <-w.Context.Done():
		return w.Context.Err()
	}
}

func (w *weighted) NewWorkerTry() bool {
	select {
	case w.slot <- struct{}{}:
		w.incr()
		return true
	default:
		return false
	}
}

func (w *weighted) DeferWorker() {
	select {
	case <-w.slot:
	default:
	}
	w.decr()
}

func (w *weighted) incr() {
	w.mu.Lock()
	w.inFlush++
	w.mu.Unlock()
}

func (w *weighted) decr() {
	w.mu.Lock()
	w.inFlush--
	done := w.inFlush <= 0
	var ch chan struct{}
	if done && w.wait != nil {
		ch = w.wait
		w.wait = nil
	}
	w.mu.Unlock()

	if ch != nil {
		close(ch)
	}
}

func (w *weighted) WaitAll() error {
	w.mu.Lock()
	if w.inFlush <= 0 {
		w.mu.Unlock()
		return nil
	}
	if w.wait == nil {
		w.wait = make(chan struct{})
	}
	ch := w.wait
	w.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-w.Context.Done():
		return w.Context.Err()
	}
}

func (w *weighted) DeferMain() {
	w.cancel()
}

func (w *weighted) New() Semaphore {
	return newWeightedSemaphore(w.Context, w.n)
}
