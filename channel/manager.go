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

package channel

import (
	"sync"
	"time"

	liberr "github.com/sabouaram/ztw/errors"
	"github.com/sabouaram/ztw/record"

	"golang.org/x/crypto/ssh"
)

// dialer opens a new session on an already-established connection. The
// pool's *ssh.Client satisfies this directly.
type dialer interface {
	NewSession() (*ssh.Session, error)
}

// Manager holds at most one tracked shell channel per host.
type Manager struct {
	mu       sync.Mutex
	channels map[string]*Channel
}

// NewManager returns an empty channel manager.
func NewManager() *Manager {
	return &Manager{channels: make(map[string]*Channel)}
}

// CreateChannel opens a fresh shell channel for host, replacing any
// existing tracked channel. Exec-type channels are not tracked: each exec
// command gets its own session and is discarded after one execution.
func (m *Manager) CreateChannel(client dialer, host string, typ Type) (*Channel, liberr.Error) {
	if typ == TypeExec {
		return nil, ErrorUnsupportedType.Error(nil)
	}

	sess, err := client.NewSession()
	if err != nil {
		return nil, ErrorCreate.Error(err)
	}
	if err := sess.Shell(); err != nil {
		_ = sess.Close()
		return nil, ErrorCreate.Error(err)
	}

	ch, err := newChannel(host, sess)
	if err != nil {
		_ = sess.Close()
		return nil, ErrorCreate.Error(err)
	}

	m.mu.Lock()
	if old, ok := m.channels[host]; ok {
		_ = old.Close()
	}
	m.channels[host] = ch
	m.mu.Unlock()

	return ch, nil
}

// GetChannel returns host's existing live channel, or creates one.
func (m *Manager) GetChannel(client dialer, host string) (*Channel, liberr.Error) {
	m.mu.Lock()
	ch, ok := m.channels[host]
	m.mu.Unlock()

	if ok && !ch.IsClosed() {
		return ch, nil
	}

	return m.CreateChannel(client, host, TypeShell)
}

// CloseChannel closes and forgets host's tracked channel, if any.
func (m *Manager) CloseChannel(host string) {
	m.mu.Lock()
	ch, ok := m.channels[host]
	if ok {
		delete(m.channels, host)
	}
	m.mu.Unlock()

	if ok {
		_ = ch.Close()
	}
}

// CloseAll closes and forgets every tracked channel.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	all := m.channels
	m.channels = make(map[string]*Channel)
	m.mu.Unlock()

	for _, ch := range all {
		_ = ch.Close()
	}
}

// ExecuteChain runs commands in order on host's channel, stopping at the
// first failure. After every successful cd, the channel's tracked
// current_directory is updated.
func (m *Manager) ExecuteChain(client dialer, host string, commands []Command, createNew bool) ([]record.ChannelResult, liberr.Error) {
	var (
		ch  *Channel
		err liberr.Error
	)

	if createNew {
		ch, err = m.CreateChannel(client, host, TypeShell)
	} else {
		ch, err = m.GetChannel(client, host)
	}
	if err != nil {
		return nil, err
	}

	results := make([]record.ChannelResult, 0, len(commands))
	for _, cmd := range commands {
		res := m.executeOne(ch, cmd)
		results = append(results, res)
		if !res.Success {
			break
		}
	}

	return results, nil
}

// ExecuteInteractive runs an (command, expectPatterns) sequence, always
// waiting for the prompt after sending.
func (m *Manager) ExecuteInteractive(client dialer, host string, pairs []Pair, timeout time.Duration) ([]record.ChannelResult, liberr.Error) {
	commands := make([]Command, 0, len(pairs))
	for _, p := range pairs {
		commands = append(commands, Command{
			Command:        p.Command,
			ExpectPatterns: p.ExpectPatterns,
			WaitForPrompt:  true,
			Timeout:        timeout,
		})
	}

	return m.ExecuteChain(client, host, commands, false)
}

func (m *Manager) executeOne(ch *Channel, cmd Command) record.ChannelResult {
	start := time.Now()

	if cmd.CleanChannel {
		ch.drain()
	}

	if err := ch.send(cmd.Command); err != nil {
		ch.touch()
		return record.ChannelResult{
			Command:   cmd.Command,
			Stderr:    err.Error(),
			Duration:  time.Since(start),
			Timestamp: start,
			Success:   false,
			State:     ch.snapshotState(),
		}
	}

	out := ch.FetchOutput(cmd)
	ch.touch()

	if arg, ok := isCd(cmd.Command); ok && !out.timedOut {
		ch.applyCd(arg)
	}

	return record.ChannelResult{
		Command:   cmd.Command,
		Stdout:    out.stdout,
		Stderr:    out.stderr,
		Duration:  time.Since(start),
		Timestamp: start,
		Success:   !out.timedOut,
		State:     ch.snapshotState(),
	}
}

func (c *Channel) snapshotState() record.ChannelState {
	dir, count, last := c.State()
	return record.ChannelState{
		Host:             c.Host,
		CurrentDirectory: dir,
		CommandCount:     count,
		LastUsed:         last,
	}
}
