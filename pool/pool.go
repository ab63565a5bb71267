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

package pool

import (
	"context"
	"os"
	"sync"
	"time"

	liberr "github.com/sabouaram/ztw/errors"
	librun "github.com/sabouaram/ztw/runner/startStop"
	"github.com/sabouaram/ztw/ztwconfig"

	"golang.org/x/crypto/ssh"
)

const (
	retryAttempts = 3
	retryMinDelay = 4 * time.Second
	retryMaxDelay = 10 * time.Second
	maxErrorCount = 3
)

// Pool owns the set of live SSH connections keyed by Endpoint.
type Pool struct {
	cfg ztwconfig.Config

	mu      sync.Mutex
	entries map[Endpoint]*ConnectionInfo
	maxSize int

	jumphost   *ssh.Client
	jumphostMu sync.Mutex

	health librun.StartStop

	healthCheckInterval time.Duration
	maxIdleTime         time.Duration
}

// New builds a Pool bound to a validated Config. It does not dial
// anything until Get is called.
func New(cfg ztwconfig.Config) *Pool {
	maxSize := cfg.ConnectionPoolSize
	if maxSize <= 0 {
		maxSize = 10
	}

	p := &Pool{
		cfg:                 cfg,
		entries:             make(map[Endpoint]*ConnectionInfo),
		maxSize:             maxSize,
		healthCheckInterval: 30 * time.Second,
		maxIdleTime:         cfg.ConnectionIdleTimeout,
	}
	if p.maxIdleTime <= 0 {
		p.maxIdleTime = 5 * time.Minute
	}

	p.health = librun.New(p.runHealthCheck, p.stopHealthCheck)
	return p
}

// StartHealthCheck launches the background eviction/probe loop. It is a
// daemon: Stop must be called during shutdown to observe the grace window.
func (p *Pool) StartHealthCheck(ctx context.Context) error {
	return p.health.Start(ctx)
}

// StopHealthCheck requests the health-check loop to exit.
func (p *Pool) StopHealthCheck(ctx context.Context) error {
	return p.health.Stop(ctx)
}

func (p *Pool) stopHealthCheck(_ context.Context) error {
	return nil
}

func (p *Pool) runHealthCheck(ctx context.Context) error {
	t := time.NewTicker(p.healthCheckInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			p.sweep()
		}
	}
}

func (p *Pool) sweep() {
	now := time.Now()

	p.mu.Lock()
	stale := make([]Endpoint, 0)
	for ep, ci := range p.entries {
		if ci.idleFor(now) > p.maxIdleTime {
			stale = append(stale, ep)
		}
	}
	for _, ep := range stale {
		if ci, ok := p.entries[ep]; ok {
			closeClient(ci.Client())
			delete(p.entries, ep)
		}
	}
	remaining := make([]*ConnectionInfo, 0, len(p.entries))
	for _, ci := range p.entries {
		remaining = append(remaining, ci)
	}
	p.mu.Unlock()

	for _, ci := range remaining {
		if !probe(ci.Client()) {
			ci.mu.Lock()
			ci.ErrorCount++
			evict := ci.ErrorCount >= maxErrorCount
			ci.mu.Unlock()

			if evict {
				p.mu.Lock()
				if cur, ok := p.entries[ci.Endpoint]; ok && cur == ci {
					closeClient(ci.Client())
					delete(p.entries, ci.Endpoint)
				}
				p.mu.Unlock()
			}
		}
	}
}

// Get returns a healthy connection for endpoint, reusing a cached one that
// passes a liveness probe, or dialing a fresh one otherwise.
func (p *Pool) Get(ctx context.Context, ep Endpoint) (*ConnectionInfo, liberr.Error) {
	p.mu.Lock()
	if ci, ok := p.entries[ep]; ok {
		p.mu.Unlock()
		if probe(ci.Client()) {
			ci.touch()
			return ci, nil
		}
		p.mu.Lock()
		if cur, ok := p.entries[ep]; ok && cur == ci {
			closeClient(ci.Client())
			delete(p.entries, ep)
		}
	}

	if len(p.entries) >= p.maxSize {
		if !p.evictOldestLocked() {
			p.mu.Unlock()
			return nil, ErrorCapacity.Error(nil)
		}
	}
	p.mu.Unlock()

	client, err := p.dialWithRetry(ctx, ep)
	if err != nil {
		return nil, err
	}

	ci := &ConnectionInfo{
		Endpoint:  ep,
		CreatedAt: time.Now(),
		LastUsed:  time.Now(),
		UseCount:  1,
		Active:    true,
		client:    client,
	}

	p.mu.Lock()
	p.entries[ep] = ci
	p.mu.Unlock()

	return ci, nil
}

// evictOldestLocked removes the idle entry with the largest idle time. The
// caller must hold p.mu. Returns false if no entry could be evicted.
func (p *Pool) evictOldestLocked() bool {
	var oldestEp Endpoint
	var oldest *ConnectionInfo
	now := time.Now()
	var oldestIdle time.Duration = -1

	for ep, ci := range p.entries {
		idle := ci.idleFor(now)
		if idle > oldestIdle {
			oldestIdle = idle
			oldest = ci
			oldestEp = ep
		}
	}

	if oldest == nil {
		return false
	}

	closeClient(oldest.Client())
	delete(p.entries, oldestEp)
	return true
}

// Return is a hint that the caller is done with a connection. It does not
// close anything; the pool keeps it for reuse.
func (p *Pool) Return(_ Endpoint) {}

// Close force-closes and removes one endpoint's connection.
func (p *Pool) Close(ep Endpoint) {
	p.mu.Lock()
	ci, ok := p.entries[ep]
	if ok {
		delete(p.entries, ep)
	}
	p.mu.Unlock()

	if ok {
		closeClient(ci.Client())
	}
}

// Clear closes and removes every connection, best-effort.
func (p *Pool) Clear() {
	p.mu.Lock()
	all := p.entries
	p.entries = make(map[Endpoint]*ConnectionInfo)
	p.mu.Unlock()

	for _, ci := range all {
		closeClient(ci.Client())
	}

	p.jumphostMu.Lock()
	if p.jumphost != nil {
		_ = p.jumphost.Close()
		p.jumphost = nil
	}
	p.jumphostMu.Unlock()
}

// Size returns the number of currently pooled connections.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

func closeClient(c *ssh.Client) {
	if c == nil {
		return
	}
	_ = c.Close()
}

// probe performs the liveness check: an open no-op session.
func probe(c *ssh.Client) bool {
	if c == nil {
		return false
	}
	sess, err := c.NewSession()
	if err != nil {
		return false
	}
	defer sess.Close()
	return true
}

func authMethods(cfg ztwconfig.Config) ([]ssh.AuthMethod, liberr.Error) {
	if cfg.HasKeyFile() {
		key, err := os.ReadFile(cfg.KeyFile)
		if err != nil {
			return nil, ErrorAuth.Error(err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, ErrorAuth.Error(err)
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
	}
	return []ssh.AuthMethod{ssh.Password(cfg.Password)}, nil
}

func hostKeyCallback(cfg ztwconfig.Config) ssh.HostKeyCallback {
	if cfg.Security.StrictHostKeyChecking && cfg.Security.KnownHostsFile != "" {
		if cb, err := knownHostsCallback(cfg.Security.KnownHostsFile); err == nil {
			return cb
		}
	}
	return ssh.InsecureIgnoreHostKey()
}
