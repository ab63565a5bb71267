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

package traffic

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sabouaram/ztw/record"
	"github.com/sabouaram/ztw/sshmanager"
)

// Tester holds a non-owning reference to the SSH manager it drives shell
// probes through, per the cyclic-ownership rule: Traffic never owns the
// manager it borrows.
type Tester struct {
	mgr runner
}

var _ runner = (*sshmanager.Manager)(nil)

// New builds a Tester bound to mgr.
func New(mgr *sshmanager.Manager) *Tester {
	return &Tester{mgr: mgr}
}

// Run executes cfg against every (source, target, port) tuple it expands
// to. Tests share a source host sequentially (to avoid bandwidth
// contention between them) while distinct sources run concurrently.
func (t *Tester) Run(ctx context.Context, cfg record.TrafficTestConfig) []record.TrafficTestResult {
	ports := cfg.TargetPorts
	if len(ports) == 0 {
		ports = []int{0}
	}

	var mu sync.Mutex
	var results []record.TrafficTestResult
	var wg sync.WaitGroup

	testIDBase := fmt.Sprintf("%s_%s", cfg.Protocol, cfg.Direction)
	var counter int

	for _, source := range cfg.SourceHosts {
		src := source
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, target := range cfg.TargetHosts {
				for _, port := range ports {
					mu.Lock()
					counter++
					idx := counter
					mu.Unlock()

					res := t.runOne(ctx, cfg, fmt.Sprintf("%s_%d", testIDBase, idx), src, target, port)

					mu.Lock()
					results = append(results, res)
					mu.Unlock()
				}
			}
		}()
	}

	wg.Wait()
	return results
}

func (t *Tester) runOne(ctx context.Context, cfg record.TrafficTestConfig, testID, source, target string, port int) record.TrafficTestResult {
	start := time.Now()
	res := record.TrafficTestResult{
		TestID:    testID,
		Protocol:  cfg.Protocol,
		Direction: cfg.Direction,
		Source:    source,
		Target:    target,
		Port:      port,
		StartTime: start,
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	interval := time.Duration(cfg.IntervalSeconds * float64(time.Second))
	if interval <= 0 {
		interval = time.Second
	}
	packetSize := cfg.PacketSize
	if packetSize <= 0 {
		packetSize = 1024
	}

	acc := newAccumulator()
	end := start.Add(time.Duration(cfg.DurationSeconds) * time.Second)

	for time.Now().Before(end) {
		if ctx.Err() != nil {
			break
		}
		iterStart := time.Now()

		s, supported := t.probe(ctx, cfg, source, target, port, packetSize, timeout)
		if !supported {
			res.Success = false
			res.ProtocolExtra = map[string]string{"error": "unsupported protocol"}
			res.EndTime = time.Now()
			return res
		}
		acc.add(s)

		elapsed := time.Since(iterStart)
		sleepFor := interval - elapsed
		if sleepFor > 0 {
			sleepCtx(ctx, sleepFor)
		}
	}

	latency, throughput, packets, connection, samples := acc.reduce()
	res.Latency = latency
	res.Throughput = throughput
	res.Packets = packets
	res.Connection = connection
	res.RawSamples = samples
	res.Success = true
	res.EndTime = time.Now()

	if len(acc.statusCodes) > 0 {
		extra := make(map[string]string, len(acc.statusCodes))
		for code, count := range acc.statusCodes {
			extra[fmt.Sprintf("http_%d", code)] = fmt.Sprintf("%d", count)
		}
		res.ProtocolExtra = extra
	}

	return res
}

func (t *Tester) probe(ctx context.Context, cfg record.TrafficTestConfig, source, target string, port, packetSize int, timeout time.Duration) (sample, bool) {
	switch cfg.Protocol {
	case record.ProtocolTCP:
		return probeTCP(target, port, packetSize, timeout), true
	case record.ProtocolUDP:
		return probeUDP(target, port, packetSize, timeout), true
	case record.ProtocolHTTP:
		return probeHTTP(ctx, t.mgr, source, target, port, false, true, timeout), true
	case record.ProtocolHTTPS:
		return probeHTTP(ctx, t.mgr, source, target, port, true, cfg.Extras["verify_ssl"] != "false", timeout), true
	case record.ProtocolDNS:
		return probeDNS(ctx, t.mgr, source, target), true
	case record.ProtocolICMP:
		return probeICMP(ctx, t.mgr, source, target, timeout), true
	case record.ProtocolSCP:
		testFile := fmt.Sprintf("/tmp/ztw_scp_%s_%d.bin", source, time.Now().UnixNano())
		user := cfg.Extras["remote_user"]
		if user == "" {
			user = "root"
		}
		return probeSCP(ctx, t.mgr, source, target, port, packetSize, user, testFile), true
	case record.ProtocolFTP:
		testFile := fmt.Sprintf("/tmp/ztw_ftp_%s_%d.bin", source, time.Now().UnixNano())
		return probeFTP(ctx, t.mgr, source, target, port, packetSize, cfg.Extras["ftp_user"], cfg.Extras["ftp_pass"], testFile), true
	}
	return sample{}, false
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
