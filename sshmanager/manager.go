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
	"sync"

	"github.com/sabouaram/ztw/channel"
	"github.com/sabouaram/ztw/logcapture"
	"github.com/sabouaram/ztw/pool"
	"github.com/sabouaram/ztw/ztwconfig"

	libsem "github.com/sabouaram/ztw/semaphore/sem"
)

// Manager is the fleet-facing façade binding the connection pool, the
// channel manager, and per-host log captures behind one concurrency-bounded
// API.
type Manager struct {
	cfg      ztwconfig.Config
	pool     *pool.Pool
	channels *channel.Manager

	capMu    sync.Mutex
	captures map[string]*logcapture.Capture
}

// New builds a Manager around a validated Config. The pool's health-check
// loop is not started; call StartHealthCheck if you want background
// eviction/probing.
func New(cfg ztwconfig.Config) *Manager {
	return &Manager{
		cfg:      cfg,
		pool:     pool.New(cfg),
		channels: channel.NewManager(),
		captures: make(map[string]*logcapture.Capture),
	}
}

// StartHealthCheck launches the connection pool's background eviction
// loop.
func (m *Manager) StartHealthCheck(ctx context.Context) error {
	return m.pool.StartHealthCheck(ctx)
}

// Shutdown closes every channel, every pooled connection, and stops every
// running log capture.
func (m *Manager) Shutdown(ctx context.Context) {
	m.channels.CloseAll()

	m.capMu.Lock()
	caps := m.captures
	m.captures = make(map[string]*logcapture.Capture)
	m.capMu.Unlock()

	for _, c := range caps {
		_ = c.Stop(ctx)
	}

	_ = m.pool.StopHealthCheck(ctx)
	m.pool.Clear()
}

func (m *Manager) endpoint(host string) pool.Endpoint {
	return pool.Endpoint{Host: host, Port: m.cfg.Port, User: m.cfg.User}
}

// newSemaphore bounds fan-out at the configured max_parallel, defaulting
// to 1 (strictly sequential) when unset.
func (m *Manager) newSemaphore(ctx context.Context) libsem.Semaphore {
	n := int64(m.cfg.MaxParallel)
	if n <= 0 {
		n = 1
	}
	return libsem.New(ctx, n)
}
