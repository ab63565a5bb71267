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

	"github.com/sabouaram/ztw/record"
)

// runner is the narrow slice of sshmanager.Manager the shell-piped probes
// (HTTP(S), DNS, ICMP, SCP, FTP) depend on: running one command on one
// source host.
type runner interface {
	ExecuteCommand(ctx context.Context, hosts []string, command string) map[string]record.CommandResult
}

// sample is one probe's outcome. Every field is optional: a probe fills in
// only the signals it is able to measure, and accumulate() only folds in
// what is present.
type sample struct {
	latencyMs    float64
	hasLatency   bool
	throughputBs float64
	hasThpt      bool
	sent         int64
	received     int64
	connectMs    float64
	hasConnect   bool
	connectOK    bool
	statusCode   int
	hasStatus    bool
}

// accumulator folds a protocol's samples across the probe loop so the
// final reduction can build the four summary blocks in one pass.
type accumulator struct {
	latencies    []float64
	throughputs  []float64
	connectTimes []float64
	sent         int64
	received     int64
	connectOK    int64
	connectFail  int64
	statusCodes  map[int]int64
	lastLatency  float64
	hasLast      bool
	jitters      []float64
}

func newAccumulator() *accumulator {
	return &accumulator{statusCodes: make(map[int]int64)}
}

func (a *accumulator) add(s sample) {
	a.sent += s.sent
	a.received += s.received

	if s.hasLatency {
		a.latencies = append(a.latencies, s.latencyMs)
		if a.hasLast {
			a.jitters = append(a.jitters, abs(s.latencyMs-a.lastLatency))
		}
		a.lastLatency = s.latencyMs
		a.hasLast = true
	}
	if s.hasThpt {
		a.throughputs = append(a.throughputs, s.throughputBs)
	}
	if s.hasConnect {
		a.connectTimes = append(a.connectTimes, s.connectMs)
		if s.connectOK {
			a.connectOK++
		} else {
			a.connectFail++
		}
	}
	if s.hasStatus {
		a.statusCodes[s.statusCode]++
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// reduce builds the four optional summary blocks per §4.6's reduction
// rules, plus any raw latency samples worth keeping for export.
func (a *accumulator) reduce() (*record.LatencyBlock, *record.ThroughputBlock, *record.PacketBlock, *record.ConnectionBlock, []float64) {
	var latency *record.LatencyBlock
	if len(a.latencies) > 0 {
		latency = &record.LatencyBlock{Stats: record.Percentiles(a.latencies)}
	}

	var throughput *record.ThroughputBlock
	if len(a.throughputs) > 0 {
		min, mean, peak := minMeanPeak(a.throughputs)
		throughput = &record.ThroughputBlock{Min: min, Mean: mean, Peak: peak}
	}

	var packets *record.PacketBlock
	if a.sent > 0 {
		lost := a.sent - a.received
		packets = &record.PacketBlock{
			Sent:        a.sent,
			Received:    a.received,
			Lost:        lost,
			LossPercent: float64(lost) / float64(a.sent) * 100,
		}
	}

	var connection *record.ConnectionBlock
	attempted := a.connectOK + a.connectFail
	if attempted > 0 {
		_, meanConnect, _ := minMeanPeak(a.connectTimes)
		connection = &record.ConnectionBlock{
			Attempted:        attempted,
			Succeeded:        a.connectOK,
			Failed:           a.connectFail,
			SuccessRate:      float64(a.connectOK) / float64(attempted) * 100,
			MeanConnectMsecs: meanConnect,
		}
	}

	return latency, throughput, packets, connection, a.latencies
}

func minMeanPeak(samples []float64) (min, mean, peak float64) {
	if len(samples) == 0 {
		return 0, 0, 0
	}
	min, peak = samples[0], samples[0]
	var sum float64
	for _, s := range samples {
		if s < min {
			min = s
		}
		if s > peak {
			peak = s
		}
		sum += s
	}
	return min, sum / float64(len(samples)), peak
}
