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
	"io"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
)

// sshSession is the slice of *ssh.Session this package depends on. Narrowed
// to an interface so tests can drive a Channel without a live server.
type sshSession interface {
	StdinPipe() (io.WriteCloser, error)
	StdoutPipe() (io.Reader, error)
	StderrPipe() (io.Reader, error)
	Shell() error
	Wait() error
	Close() error
}

var _ sshSession = (*ssh.Session)(nil)

type chunk struct {
	data   []byte
	stderr bool
}

// Channel is one tracked, persistent shell session against a single host.
type Channel struct {
	Host string

	mu           sync.Mutex
	session      sshSession
	stdin        io.WriteCloser
	data         chan chunk
	closed       bool
	createdAt    time.Time
	lastUsed     time.Time
	commandCount int64
	dir          dirState
}

// newChannel wraps an already-started shell session (Shell() must have
// been called) and starts the background readers that feed FetchOutput.
func newChannel(host string, sess sshSession) (*Channel, error) {
	stdin, err := sess.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := sess.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := sess.StderrPipe()
	if err != nil {
		return nil, err
	}

	c := &Channel{
		Host:      host,
		session:   sess,
		stdin:     stdin,
		data:      make(chan chunk, 64),
		createdAt: time.Now(),
		lastUsed:  time.Now(),
		dir:       newDirState(),
	}

	go c.pump(stdout, false)
	go c.pump(stderr, true)

	return c, nil
}

func (c *Channel) pump(r io.Reader, stderr bool) {
	buf := make([]byte, defaultWindowSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			cp := make([]byte, n)
			copy(cp, buf[:n])
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if closed {
				return
			}
			c.data <- chunk{data: cp, stderr: stderr}
		}
		if err != nil {
			return
		}
	}
}

// IsClosed reports whether Close has been called on this channel.
func (c *Channel) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close terminates the underlying session. Safe to call more than once.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	return c.session.Close()
}

// State returns a snapshot of the channel's tracked shell state.
func (c *Channel) State() (currentDirectory string, commandCount int64, lastUsed time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dir.current, c.commandCount, c.lastUsed
}

func (c *Channel) touch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastUsed = time.Now()
	c.commandCount++
}

func (c *Channel) applyCd(arg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dir.apply(arg)
}

// drain discards any buffered, not-yet-consumed chunks. Used by
// clean_channel to recover from a previous step that left unread output.
func (c *Channel) drain() {
	for {
		select {
		case <-c.data:
		default:
			return
		}
	}
}

func (c *Channel) send(cmd string) error {
	if cmd == "" || cmd[len(cmd)-1] != '\n' {
		cmd += "\n"
	}
	_, err := io.WriteString(c.stdin, cmd)
	return err
}
