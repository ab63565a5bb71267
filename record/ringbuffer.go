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

package record

import "sync"

// LogRingBuffer is a bounded, process-wide retention buffer for LogEntry
// values. Eviction is in arrival order once the configured size is
// reached. Per-host and per-level counters are maintained incrementally so
// that readers can snapshot them cheaply.
type LogRingBuffer struct {
	mu       sync.Mutex
	size     int
	entries  []LogEntry
	next     int
	filled   bool
	total    uint64
	evicted  uint64
	perHost  map[string]uint64
	perLevel map[LogLevel]uint64
}

// NewLogRingBuffer builds a buffer retaining at most size entries. size
// must be positive.
func NewLogRingBuffer(size int) (*LogRingBuffer, error) {
	if size <= 0 {
		return nil, ErrorBufferSize.Error(nil)
	}
	return &LogRingBuffer{
		size:     size,
		entries:  make([]LogEntry, size),
		perHost:  make(map[string]uint64),
		perLevel: make(map[LogLevel]uint64),
	}, nil
}

// Push appends an entry, evicting the oldest one in arrival order if the
// buffer is already full.
func (b *LogRingBuffer) Push(e LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.filled {
		evicted := b.entries[b.next]
		b.evicted++
		b.perHost[evicted.Host]--
		b.perLevel[evicted.Level]--
	}

	b.entries[b.next] = e
	b.next = (b.next + 1) % b.size
	if b.next == 0 {
		b.filled = true
	}
	b.total++
	b.perHost[e.Host]++
	b.perLevel[e.Level]++
}

// Len returns the number of entries currently retained.
func (b *LogRingBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.filled {
		return b.size
	}
	return b.next
}

// Snapshot returns a copy of all retained entries in arrival order,
// oldest first.
func (b *LogRingBuffer) Snapshot() []LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.next
	if b.filled {
		n = b.size
	}
	out := make([]LogEntry, 0, n)
	if !b.filled {
		out = append(out, b.entries[:b.next]...)
		return out
	}
	out = append(out, b.entries[b.next:]...)
	out = append(out, b.entries[:b.next]...)
	return out
}

// CountByHost returns the number of currently-retained entries for a host.
func (b *LogRingBuffer) CountByHost(host string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.perHost[host]
}

// CountByLevel returns the number of currently-retained entries at a level.
func (b *LogRingBuffer) CountByLevel(level LogLevel) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.perLevel[level]
}

// TotalIngested returns the running count of entries ever pushed,
// including evicted ones.
func (b *LogRingBuffer) TotalIngested() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}

// TotalEvicted returns the running count of entries evicted so far.
func (b *LogRingBuffer) TotalEvicted() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.evicted
}
