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

import (
	"math"
	"sort"
)

// Stats is the summary of a non-empty sample set: min, max, mean, median,
// p95, p99 and the standard deviation.
type Stats struct {
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	P95    float64 `json:"p95" yaml:"p95"`
	P99    float64 `json:"p99" yaml:"p99"`
	StdDev float64 `json:"stddev" yaml:"stddev"`
	Count  int     `json:"count" yaml:"count"`
}

// p95SampleThreshold and p99SampleThreshold are the minimum sample counts
// below which Percentiles falls back to reporting the sample max instead of
// an interpolated percentile.
const (
	p95SampleThreshold = 20
	p99SampleThreshold = 100
)

// Percentiles reduces samples into a Stats block. It is the single
// percentile implementation shared by the traffic and iperf packages so
// that the p95/p99 small-sample fallback rule is applied consistently.
//
// Returns the zero Stats with Count == 0 for an empty input.
func Percentiles(samples []float64) Stats {
	n := len(samples)
	if n == 0 {
		return Stats{}
	}

	sorted := make([]float64, n)
	copy(sorted, samples)
	sort.Float64s(sorted)

	var sum float64
	for _, s := range sorted {
		sum += s
	}
	mean := sum / float64(n)

	var variance float64
	for _, s := range sorted {
		d := s - mean
		variance += d * d
	}
	variance /= float64(n)

	st := Stats{
		Min:    sorted[0],
		Max:    sorted[n-1],
		Mean:   mean,
		Median: percentileOf(sorted, 50),
		StdDev: math.Sqrt(variance),
		Count:  n,
	}

	if n >= p95SampleThreshold {
		st.P95 = percentileOf(sorted, 95)
	} else {
		st.P95 = st.Max
	}

	if n >= p99SampleThreshold {
		st.P99 = percentileOf(sorted, 99)
	} else {
		st.P99 = st.Max
	}

	return st
}

// percentileOf computes the p-th percentile of an already-sorted slice
// using linear interpolation between closest ranks.
func percentileOf(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))

	if lo == hi {
		return sorted[lo]
	}

	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
