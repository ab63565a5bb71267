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

package host

import (
	"context"
	"time"

	"github.com/sabouaram/ztw/channel"
	"github.com/sabouaram/ztw/iperf"
	"github.com/sabouaram/ztw/record"
	"github.com/sabouaram/ztw/sshmanager"
	"github.com/sabouaram/ztw/traffic"
)

// Host binds a single hostname to every C3 operation and adds a handful
// of derived helpers. It owns nothing: the manager it wraps is shared
// across every other Host built from the same fleet, and Host itself
// holds no connection state of its own.
type Host struct {
	name string
	mgr  *sshmanager.Manager
}

// New binds name to mgr. name must already be present in mgr's fleet
// config; Host performs no membership check of its own.
func New(mgr *sshmanager.Manager, name string) *Host {
	return &Host{name: name, mgr: mgr}
}

// Name returns the bound hostname.
func (h *Host) Name() string { return h.name }

// Execute runs command on this host alone.
func (h *Host) Execute(ctx context.Context, command string) record.CommandResult {
	out := h.mgr.ExecuteCommand(ctx, []string{h.name}, command)
	return out[h.name]
}

// Upload copies localPath to remotePath on this host.
func (h *Host) Upload(ctx context.Context, localPath, remotePath string) record.FileTransferResult {
	return h.mgr.Upload(ctx, h.name, localPath, remotePath)
}

// Download copies remotePath on this host to localPath.
func (h *Host) Download(ctx context.Context, remotePath, localPath string) record.FileTransferResult {
	return h.mgr.Download(ctx, h.name, remotePath, localPath)
}

// Chain runs an ordered command sequence against this host's tracked
// shell channel.
func (h *Host) Chain(ctx context.Context, commands []channel.Command, createNew bool) ([]record.ChannelResult, error) {
	return h.mgr.ExecuteChain(ctx, h.name, commands, createNew)
}

// Interactive runs an (command, expect-patterns) sequence against this
// host's tracked shell channel.
func (h *Host) Interactive(ctx context.Context, pairs []channel.Pair, timeout time.Duration) ([]record.ChannelResult, error) {
	return h.mgr.ExecuteInteractive(ctx, h.name, pairs, timeout)
}

// Tail starts streaming path on this host into a ring buffer, returning
// it so the caller can read a live snapshot at any time.
func (h *Host) Tail(ctx context.Context, path string) (*record.LogRingBuffer, error) {
	return h.mgr.StartLogCapture(ctx, h.name, path)
}

// StopTail stops this host's running capture, if any.
func (h *Host) StopTail(ctx context.Context) error {
	return h.mgr.StopLogCapture(ctx, h.name)
}

// RunIperfTest runs a client/server iperf3 pair test with this host as
// the client side.
func (h *Host) RunIperfTest(ctx context.Context, serverHost string, opts iperf.Options) (record.IperfTestResult, error) {
	opts.ClientHost = h.name
	opts.ServerHost = serverHost
	res, err := iperf.RunPairTest(ctx, h.mgr, opts)
	if err != nil {
		return res, err
	}
	return res, nil
}

// RunTrafficTest runs cfg with this host as the sole source.
func (h *Host) RunTrafficTest(ctx context.Context, cfg record.TrafficTestConfig) []record.TrafficTestResult {
	cfg.SourceHosts = []string{h.name}
	return traffic.New(h.mgr).Run(ctx, cfg)
}
