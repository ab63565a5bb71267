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
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/sabouaram/ztw/channel"
	"github.com/sabouaram/ztw/record"

	"golang.org/x/crypto/ssh"
)

// ExecuteCommand runs command on every host in parallel, bounded by
// max_parallel, via a fresh exec session per host (not the tracked shell
// channel).
func (m *Manager) ExecuteCommand(ctx context.Context, hosts []string, command string) map[string]record.CommandResult {
	results := make(map[string]record.CommandResult, len(hosts))
	var mu sync.Mutex

	sem := m.newSemaphore(ctx)
	defer sem.DeferMain()

	var wg sync.WaitGroup
	for _, host := range hosts {
		h := host
		if err := sem.NewWorker(); err != nil {
			break
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.DeferWorker()

			res := m.executeOnHost(ctx, h, command)

			mu.Lock()
			results[h] = res
			mu.Unlock()
		}()
	}

	wg.Wait()
	return results
}

func (m *Manager) executeOnHost(ctx context.Context, host, command string) record.CommandResult {
	start := time.Now()
	ep := m.endpoint(host)

	ci, err := m.pool.Get(ctx, ep)
	if err != nil {
		return record.CommandResult{
			Host:      host,
			Command:   command,
			Stderr:    err.Error(),
			Timestamp: start,
			Duration:  time.Since(start),
			Success:   false,
		}
	}

	sess, serr := ci.Client().NewSession()
	if serr != nil {
		return record.CommandResult{
			Host:      host,
			Command:   command,
			Stderr:    serr.Error(),
			Timestamp: start,
			Duration:  time.Since(start),
			Success:   false,
		}
	}
	defer sess.Close()

	var stdout, stderr bytes.Buffer
	sess.Stdout = &stdout
	sess.Stderr = &stderr

	runErr := sess.Run(command)
	exitCode := 0
	success := true

	if runErr != nil {
		success = false
		if exitErr, ok := runErr.(*ssh.ExitError); ok {
			exitCode = exitErr.ExitStatus()
		} else {
			stderr.WriteString(runErr.Error())
			exitCode = -1
		}
	}

	return record.CommandResult{
		Host:      host,
		Command:   command,
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		ExitCode:  exitCode,
		Duration:  time.Since(start),
		Timestamp: start,
		Success:   success,
	}
}

// ExecuteChain runs an ordered sequence of channel commands against host's
// tracked shell channel, composing C1 (pool) and C2 (channel manager).
func (m *Manager) ExecuteChain(ctx context.Context, host string, commands []channel.Command, createNew bool) ([]record.ChannelResult, error) {
	ep := m.endpoint(host)
	ci, err := m.pool.Get(ctx, ep)
	if err != nil {
		return nil, err
	}

	results, cerr := m.channels.ExecuteChain(ci.Client(), host, commands, createNew)
	if cerr != nil {
		return nil, cerr
	}
	return results, nil
}

// ExecuteInteractive runs an (command, expect-patterns) sequence against
// host's tracked shell channel, always waiting for the shell prompt.
func (m *Manager) ExecuteInteractive(ctx context.Context, host string, pairs []channel.Pair, timeout time.Duration) ([]record.ChannelResult, error) {
	ep := m.endpoint(host)
	ci, err := m.pool.Get(ctx, ep)
	if err != nil {
		return nil, err
	}

	results, cerr := m.channels.ExecuteInteractive(ci.Client(), host, pairs, timeout)
	if cerr != nil {
		return nil, cerr
	}
	return results, nil
}
