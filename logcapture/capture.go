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

package logcapture

import (
	"bufio"
	"context"
	"fmt"

	liberr "github.com/sabouaram/ztw/errors"
	"github.com/sabouaram/ztw/record"
	librun "github.com/sabouaram/ztw/runner/startStop"

	"golang.org/x/crypto/ssh"
)

// sessionDialer opens a new exec session on an already-established
// connection. *ssh.Client satisfies this.
type sessionDialer interface {
	NewSession() (*ssh.Session, error)
}

// Options configures one host's capture loop.
type Options struct {
	Host            string
	Path            string
	IncludePatterns []string
	ExcludePatterns []string
}

// Capture owns one host's `tail -f` reader loop feeding a shared ring
// buffer.
type Capture struct {
	opts Options
	buf  *record.LogRingBuffer

	runner librun.StartStop
	sess   *ssh.Session
}

// Start begins streaming opts.Path from host's connection into buf. The
// capture runs until Stop is called or ctx is cancelled.
func Start(ctx context.Context, client sessionDialer, opts Options, buf *record.LogRingBuffer) (*Capture, liberr.Error) {
	if opts.Host == "" || opts.Path == "" {
		return nil, ErrorParamsEmpty.Error(nil)
	}

	include := compiledPatterns(opts.IncludePatterns)
	exclude := compiledPatterns(opts.ExcludePatterns)

	c := &Capture{opts: opts, buf: buf}

	run := func(runCtx context.Context) error {
		sess, err := client.NewSession()
		if err != nil {
			return err
		}
		c.sess = sess

		stdout, err := sess.StdoutPipe()
		if err != nil {
			_ = sess.Close()
			return err
		}

		if err := sess.Start(fmt.Sprintf("tail -f %s", opts.Path)); err != nil {
			_ = sess.Close()
			return err
		}

		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			select {
			case <-runCtx.Done():
				return nil
			default:
			}

			line := scanner.Text()
			if !matchesFilters(line, include, exclude) {
				continue
			}

			buf.Push(parseLine(opts.Host, opts.Path, line))
		}

		return nil
	}

	closeFn := func(_ context.Context) error {
		if c.sess != nil {
			return c.sess.Close()
		}
		return nil
	}

	c.runner = librun.New(run, closeFn)
	if err := c.runner.Start(ctx); err != nil {
		return nil, ErrorStart.Error(err)
	}

	return c, nil
}

// Stop terminates the capture's remote session and background reader.
func (c *Capture) Stop(ctx context.Context) error {
	return c.runner.Stop(ctx)
}

// IsRunning reports whether the capture's reader goroutine is active.
func (c *Capture) IsRunning() bool {
	return c.runner.IsRunning()
}
