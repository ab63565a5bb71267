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

package sshmanager

import (
	"context"

	"github.com/sabouaram/ztw/logcapture"
	"github.com/sabouaram/ztw/record"
)

// StartLogCapture begins streaming path from host into a ring buffer sized
// per config (or the given override if positive), returning the buffer so
// the caller can read a live snapshot at any time.
func (m *Manager) StartLogCapture(ctx context.Context, host, path string) (*record.LogRingBuffer, error) {
	m.capMu.Lock()
	if _, running := m.captures[host]; running {
		m.capMu.Unlock()
		return nil, ErrorCapture.Error(nil)
	}
	m.capMu.Unlock()

	size := m.cfg.LogCapture.BufferSize
	if size <= 0 {
		size = 1000
	}

	buf, berr := record.NewLogRingBuffer(size)
	if berr != nil {
		return nil, ErrorCapture.Error(berr)
	}

	ep := m.endpoint(host)
	ci, err := m.pool.Get(ctx, ep)
	if err != nil {
		return nil, err
	}

	capture, cerr := logcapture.Start(ctx, ci.Client(), logcapture.Options{
		Host:            host,
		Path:            path,
		IncludePatterns: m.cfg.LogCapture.IncludePatterns,
		ExcludePatterns: m.cfg.LogCapture.ExcludePatterns,
	}, buf)
	if cerr != nil {
		return nil, cerr
	}

	m.capMu.Lock()
	m.captures[host] = capture
	m.capMu.Unlock()

	return buf, nil
}

// StopLogCapture stops host's running capture, if any.
func (m *Manager) StopLogCapture(ctx context.Context, host string) error {
	m.capMu.Lock()
	capture, ok := m.captures[host]
	if ok {
		delete(m.captures, host)
	}
	m.capMu.Unlock()

	if !ok {
		return nil
	}
	return capture.Stop(ctx)
}
