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
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PingResult is the outcome of a reachability probe against this host.
type PingResult struct {
	Host      string
	Reachable bool
	RTT       time.Duration
	Error     string
}

// Ping checks reachability by running a trivial no-op command over SSH
// and timing the round trip. It does not send an ICMP echo itself; for
// ICMP specifically use RunTrafficTest with record.ProtocolICMP.
func (h *Host) Ping(ctx context.Context) PingResult {
	start := time.Now()
	cr := h.Execute(ctx, "true")
	res := PingResult{Host: h.name, RTT: time.Since(start)}
	if !cr.Success {
		res.Error = cr.Stderr
		return res
	}
	res.Reachable = true
	return res
}

// CheckConnectivity is a stricter variant of Ping that also verifies the
// remote shell reports the hostname it claims to be, catching stale
// fleet entries pointed at the wrong machine.
func (h *Host) CheckConnectivity(ctx context.Context) (bool, error) {
	cr := h.Execute(ctx, "hostname")
	if !cr.Success {
		return false, fmt.Errorf("connectivity check failed for %s: %s", h.name, cr.Stderr)
	}
	return strings.TrimSpace(cr.Stdout) != "", nil
}

// GrepLog runs grep over path on this host and returns the matching
// lines plus the match count.
func (h *Host) GrepLog(ctx context.Context, path, pattern string) ([]string, error) {
	cr := h.Execute(ctx, fmt.Sprintf("grep -F %s %s", shellQuote(pattern), shellQuote(path)))
	if !cr.Success && cr.ExitCode > 1 {
		return nil, fmt.Errorf("grep failed on %s: %s", h.name, cr.Stderr)
	}
	if strings.TrimSpace(cr.Stdout) == "" {
		return nil, nil
	}
	return strings.Split(strings.TrimRight(cr.Stdout, "\n"), "\n"), nil
}

// LogStats summarizes a remote log file's size in lines and, when level
// markers are present, a rough per-level breakdown.
type LogStats struct {
	Path       string
	TotalLines int64
	ByLevel    map[string]int64
}

// GetLogStats runs wc -l plus a handful of grep -c passes over the
// standard level names to build a lightweight summary without shipping
// the whole file back to the caller.
func (h *Host) GetLogStats(ctx context.Context, path string) (LogStats, error) {
	stats := LogStats{Path: path, ByLevel: map[string]int64{}}

	cr := h.Execute(ctx, fmt.Sprintf("wc -l < %s", shellQuote(path)))
	if !cr.Success {
		return stats, fmt.Errorf("wc failed on %s: %s", h.name, cr.Stderr)
	}
	if n, err := strconv.ParseInt(strings.TrimSpace(cr.Stdout), 10, 64); err == nil {
		stats.TotalLines = n
	}

	for _, level := range []string{"debug", "info", "warning", "error", "critical"} {
		cnt := h.Execute(ctx, fmt.Sprintf("grep -ic %s %s || true", shellQuote(level), shellQuote(path)))
		if n, err := strconv.ParseInt(strings.TrimSpace(cnt.Stdout), 10, 64); err == nil {
			stats.ByLevel[level] = n
		}
	}

	return stats, nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
