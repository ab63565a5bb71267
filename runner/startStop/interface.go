/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package startStop provides a minimal daemon lifecycle wrapper: a run
// function executed on its own goroutine, a close function used to unwind
// it, and Start/Stop/Restart/IsRunning bookkeeping around both.
package startStop

import (
	"context"
	"sync"
)

// FuncRun is the daemon body. It must return when ctx is done.
type FuncRun func(ctx context.Context) error

// FuncClose is invoked by Stop to request FuncRun's goroutine to unwind,
// e.g. by closing a channel it selects on.
type FuncClose func(ctx context.Context) error

// StartStop manages one daemon goroutine's lifecycle.
type StartStop interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Restart(ctx context.Context) error
	IsRunning() bool

	// ErrorsList returns errors recorded by the most recent run, up to a
	// bounded capacity. Returns nil if nothing has run yet.
	ErrorsList() []error
}

// New returns a StartStop bound to the given run/close functions.
func New(run FuncRun, cls FuncClose) StartStop {
	return &startStop{
		run: run,
		cls: cls,
	}
}

type startStop struct {
	mu      sync.Mutex
	run     FuncRun
	cls     FuncClose
	cancel  context.CancelFunc
	running bool
	done    chan struct{}
	errs    []error
}

const maxErrors = 50

func (s *startStop) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	s.done = make(chan struct{})
	s.errs = nil
	done := s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		if err := s.run(runCtx); err != nil {
			s.addError(err)
		}
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	return nil
}

func (s *startStop) addError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.errs) >= maxErrors {
		s.errs = s.errs[1:]
	}
	s.errs = append(s.errs, err)
}

func (s *startStop) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	var err error
	if s.cls != nil {
		err = s.cls(ctx)
	}

	if cancel != nil {
		cancel()
	}

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return err
}

func (s *startStop) Restart(ctx context.Context) error {
	if err := s.Stop(ctx); err != nil {
		return err
	}
	return s.Start(ctx)
}

func (s *startStop) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *startStop) ErrorsList() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.errs) == 0 {
		return nil
	}
	out := make([]error, len(s.errs))
	copy(out, s.errs)
	return out
}
