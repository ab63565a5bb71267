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
	"sync"
	"time"

	"github.com/sabouaram/ztw/ztwconfig"

	"golang.org/x/crypto/ssh"
)

// Endpoint re-exports the pool's connection key for callers that do not
// want to import ztwconfig directly.
type Endpoint = ztwconfig.Endpoint

// ConnectionInfo is the pool's bookkeeping record for one live connection.
type ConnectionInfo struct {
	Endpoint   Endpoint
	CreatedAt  time.Time
	LastUsed   time.Time
	UseCount   int64
	Active     bool
	ErrorCount int

	mu     sync.Mutex
	client *ssh.Client
}

// Client returns the underlying transport. Safe for concurrent use; the
// client itself multiplexes sessions internally.
func (c *ConnectionInfo) Client() *ssh.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client
}

func (c *ConnectionInfo) touch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.LastUsed = time.Now()
	c.UseCount++
}

func (c *ConnectionInfo) idleFor(now time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return now.Sub(c.LastUsed)
}
