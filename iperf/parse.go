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
	"encoding/json"
	"regexp"
	"strconv"

	"github.com/sabouaram/ztw/record"
)

// clientJSON mirrors the subset of `iperf3 -J` client output this package
// depends on.
type clientJSON struct {
	Intervals []struct {
		Sum struct {
			BitsPerSecond float64 `json:"bits_per_second"`
		} `json:"sum"`
	} `json:"intervals"`
	End struct {
		SumSent struct {
			Bytes         int64   `json:"bytes"`
			BitsPerSecond float64 `json:"bits_per_second"`
			Retransmits   int64   `json:"retransmits"`
		} `json:"sum_sent"`
		SumReceived struct {
			Bytes         int64   `json:"bytes"`
			BitsPerSecond float64 `json:"bits_per_second"`
		} `json:"sum_received"`
		CPUUtilizationPercent struct {
			HostTotal float64 `json:"host_total"`
		} `json:"cpu_utilization_percent"`
	} `json:"end"`
}

var bandwidthPattern = regexp.MustCompile(`(\d+\.?\d*)\s+(G|M|K)?bits/sec`)

// parseClientOutput walks the JSON document for sum_sent/sum_received and
// the per-interval bits_per_second series, falling back to a text scan of
// the summary line when the document does not parse as JSON.
func parseClientOutput(raw string) (bytesSent, bytesReceived, retransmits int64, cpuPercent float64, gbpsSamples []float64, parseErr error) {
	var doc clientJSON
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		gbps, ok := parseBandwidthText(raw)
		if !ok {
			return 0, 0, 0, 0, nil, err
		}
		return 0, 0, 0, 0, []float64{gbps}, nil
	}

	bytesSent = doc.End.SumSent.Bytes
	bytesReceived = doc.End.SumReceived.Bytes
	retransmits = doc.End.SumSent.Retransmits
	cpuPercent = doc.End.CPUUtilizationPercent.HostTotal

	gbpsSamples = make([]float64, 0, len(doc.Intervals))
	for _, iv := range doc.Intervals {
		gbpsSamples = append(gbpsSamples, iv.Sum.BitsPerSecond/1e9)
	}

	return bytesSent, bytesReceived, retransmits, cpuPercent, gbpsSamples, nil
}

// parseBandwidthText is the graceful-degradation path for malformed JSON:
// it scans for iperf3's plain-text "X.XX Gbits/sec" summary line.
func parseBandwidthText(raw string) (float64, bool) {
	m := bandwidthPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}

	switch m[2] {
	case "G", "":
		return value, true
	case "M":
		return value / 1000, true
	case "K":
		return value / 1_000_000, true
	}
	return value, true
}

// summarize reduces the Gbps interval samples into a percentile block and
// applies the §4.5 step 8 pass/fail rule when expected is non-nil.
func summarize(samples []float64, expected *float64, tolerancePct float64) (record.Stats, *bool) {
	stats := record.Percentiles(samples)
	if expected == nil || stats.Count == 0 {
		return stats, nil
	}

	pass := record.EvaluatePassFail(stats.Mean, *expected, tolerancePct)
	return stats, &pass
}
