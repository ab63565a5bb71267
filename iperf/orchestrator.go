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

package iperf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	liberr "github.com/sabouaram/ztw/errors"
	"github.com/sabouaram/ztw/record"
	"github.com/sabouaram/ztw/sshmanager"
)

// runner is the subset of sshmanager.Manager this package depends on,
// narrowed so tests can substitute a fake fleet.
type runner interface {
	ExecuteCommand(ctx context.Context, hosts []string, command string) map[string]record.CommandResult
	Download(ctx context.Context, host, remotePath, localPath string) record.FileTransferResult
}

var _ runner = (*sshmanager.Manager)(nil)

// RunPairTest drives the two-phase iperf3 workflow of §4.5 against one
// client/server host pair: start the server, start the client, wait for
// completion, stop both by PID file, collect the client's JSON result and
// summarize it.
func RunPairTest(ctx context.Context, m runner, opts Options) (record.IperfTestResult, liberr.Error) {
	if opts.ClientHost == "" || opts.ServerHost == "" {
		return record.IperfTestResult{}, ErrorParamsEmpty.Error(nil)
	}

	start := time.Now()
	res := record.IperfTestResult{
		ClientHost: opts.ClientHost,
		ServerHost: opts.ServerHost,
		Role:       "client",
		StartTime:  start,
	}

	if err := startServer(ctx, m, opts); err != nil {
		res.Error = err.Error()
		res.EndTime = time.Now()
		res.Duration = res.EndTime.Sub(start)
		return res, ErrorServerStart.Error(err)
	}

	if !sleepCtx(ctx, time.Duration(defaultSettle)*time.Second) {
		res.EndTime = time.Now()
		res.Duration = res.EndTime.Sub(start)
		return res, nil
	}

	clientCmd := fmt.Sprintf(
		"sh -c 'nohup iperf3 -c %s -p %d -O1 -P %d -M %d -t %d -i %d -J > %s 2>/dev/null & echo $! > %s'",
		opts.ServerHost, opts.port(), opts.streams(), opts.mtu(), opts.duration(), opts.interval(),
		opts.clientOutFile(), opts.clientPidFile(),
	)
	res.Command = clientCmd

	clientStart := m.ExecuteCommand(ctx, []string{opts.ClientHost}, clientCmd)
	if cr, ok := clientStart[opts.ClientHost]; !ok || !cr.Success {
		stopServer(ctx, m, opts)
		res.Error = "client process did not start"
		res.EndTime = time.Now()
		res.Duration = res.EndTime.Sub(start)
		return res, ErrorClientStart.Error(nil)
	}

	wait := time.Duration(opts.duration()+opts.safety()) * time.Second
	sleepCtx(ctx, wait)

	stopClient(ctx, m, opts)
	stopServer(ctx, m, opts)

	localPath := filepath.Join(os.TempDir(), opts.pairKey()+".json")
	xfer := m.Download(ctx, opts.ClientHost, opts.clientOutFile(), localPath)
	if !xfer.Success {
		res.Error = xfer.Error
		res.EndTime = time.Now()
		res.Duration = res.EndTime.Sub(start)
		return res, ErrorCollect.Error(nil)
	}
	defer os.Remove(localPath)

	raw, rerr := os.ReadFile(localPath)
	if rerr != nil {
		res.Error = rerr.Error()
		res.EndTime = time.Now()
		res.Duration = res.EndTime.Sub(start)
		return res, ErrorCollect.Error(rerr)
	}
	res.RawOutput = string(raw)

	bytesSent, bytesReceived, retransmits, cpuPercent, samples, perr := parseClientOutput(string(raw))
	if perr != nil {
		res.Error = perr.Error()
		res.EndTime = time.Now()
		res.Duration = res.EndTime.Sub(start)
		return res, ErrorParse.Error(perr)
	}

	stats, pass := summarize(samples, opts.ExpectedGbps, opts.tolerance())

	res.BytesSent = bytesSent
	res.BytesReceived = bytesReceived
	res.Retransmits = retransmits
	res.CPUUtilPercent = cpuPercent
	res.ThroughputGbps = stats
	res.PassFail = pass
	res.ExpectedGbps = opts.ExpectedGbps
	res.Success = true
	res.EndTime = time.Now()
	res.Duration = res.EndTime.Sub(start)

	return res, nil
}

func startServer(ctx context.Context, m runner, opts Options) error {
	cmd := fmt.Sprintf(
		"sh -c 'nohup iperf3 -s -J -p %d > %s 2>/dev/null & echo $! > %s'",
		opts.port(), opts.serverOutFile(), opts.serverPidFile(),
	)
	results := m.ExecuteCommand(ctx, []string{opts.ServerHost}, cmd)
	cr, ok := results[opts.ServerHost]
	if !ok || !cr.Success {
		if ok {
			return fmt.Errorf("%s", cr.Stderr)
		}
		return fmt.Errorf("no result for %s", opts.ServerHost)
	}
	return nil
}

func stopClient(ctx context.Context, m runner, opts Options) {
	cmd := fmt.Sprintf("sh -c 'kill $(cat %s) 2>/dev/null; rm -f %s'", opts.clientPidFile(), opts.clientPidFile())
	m.ExecuteCommand(ctx, []string{opts.ClientHost}, cmd)
}

func stopServer(ctx context.Context, m runner, opts Options) {
	cmd := fmt.Sprintf("sh -c 'kill $(cat %s) 2>/dev/null; rm -f %s'", opts.serverPidFile(), opts.serverPidFile())
	m.ExecuteCommand(ctx, []string{opts.ServerHost}, cmd)
}

// sleepCtx blocks for d or until ctx is done, reporting whether the full
// duration elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
