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
	"regexp"
	"strconv"
	"strings"
	"time"
)

// probeHTTP runs curl with a `-w` timing format on source, via C3, against
// http(s)://target:port. The timing fields are comma-separated so a single
// regex-free Split handles both the HTTP and HTTPS variants (HTTPS adds a
// leading SSL handshake field).
func probeHTTP(ctx context.Context, m runner, source, target string, port int, https bool, verifySSL bool, timeout time.Duration) sample {
	scheme := "http"
	format := `%{http_code},%{time_total},%{size_download},%{speed_download}`
	if https {
		scheme = "https"
		format = `%{http_code},%{time_total},%{time_appconnect},%{size_download},%{speed_download}`
	}

	insecure := ""
	if https && !verifySSL {
		insecure = "-k "
	}

	url := fmt.Sprintf("%s://%s:%d", scheme, target, port)
	cmd := fmt.Sprintf("curl -s %s--max-time %d -w '%s' -o /dev/null %s", insecure, int(timeout.Seconds()), format, url)

	results := m.ExecuteCommand(ctx, []string{source}, cmd)
	cr, ok := results[source]
	if !ok || !cr.Success {
		return sample{sent: 1}
	}

	parts := strings.Split(strings.TrimSpace(cr.Stdout), ",")
	minParts := 4
	if https {
		minParts = 5
	}
	if len(parts) < minParts {
		return sample{sent: 1}
	}

	status, _ := strconv.Atoi(parts[0])
	totalSec, _ := strconv.ParseFloat(parts[1], 64)

	speedIdx := 3
	if https {
		speedIdx = 4
	}
	speedBps, _ := strconv.ParseFloat(parts[speedIdx], 64)

	return sample{
		sent:         1,
		received:     1,
		latencyMs:    totalSec * 1000,
		hasLatency:   true,
		throughputBs: speedBps * 8,
		hasThpt:      speedBps > 0,
		statusCode:   status,
		hasStatus:    true,
		connectMs:    totalSec * 1000,
		hasConnect:   true,
		connectOK:    true,
	}
}

// probeDNS runs nslookup on source, via C3, and times the round trip at the
// command-dispatch level since nslookup itself reports no internal timing.
func probeDNS(ctx context.Context, m runner, source, target string) sample {
	start := time.Now()
	results := m.ExecuteCommand(ctx, []string{source}, fmt.Sprintf("nslookup %s", target))
	elapsed := time.Since(start)

	cr, ok := results[source]
	if !ok || !cr.Success {
		return sample{sent: 1}
	}

	return sample{
		sent:       1,
		received:   1,
		latencyMs:  float64(elapsed.Microseconds()) / 1000,
		hasLatency: true,
		connectMs:  float64(elapsed.Microseconds()) / 1000,
		hasConnect: true,
		connectOK:  true,
	}
}

var pingTimePattern = regexp.MustCompile(`time[=<]([0-9.]+)`)

// probeICMP runs a single ping on source, via C3, and parses the `time=`
// field from its stdout.
func probeICMP(ctx context.Context, m runner, source, target string, timeout time.Duration) sample {
	cmd := fmt.Sprintf("ping -c 1 -W %d %s", int(timeout.Seconds()), target)
	results := m.ExecuteCommand(ctx, []string{source}, cmd)

	cr, ok := results[source]
	if !ok || !cr.Success {
		return sample{sent: 1}
	}

	match := pingTimePattern.FindStringSubmatch(cr.Stdout)
	if match == nil {
		return sample{sent: 1}
	}

	latency, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return sample{sent: 1}
	}

	return sample{sent: 1, received: 1, latencyMs: latency, hasLatency: true}
}

// probeSCP creates a packetSize*100-byte test file on source and copies it
// to target via scp, via C3, measuring wall-clock transfer speed.
func probeSCP(ctx context.Context, m runner, source, target string, port, packetSize int, remoteUser, testFile string) sample {
	fileSize := packetSize * 100
	createCmd := fmt.Sprintf("dd if=/dev/zero of=%s bs=%d count=1 2>/dev/null", testFile, fileSize)
	m.ExecuteCommand(ctx, []string{source}, createCmd)
	defer m.ExecuteCommand(ctx, []string{source}, fmt.Sprintf("rm -f %s", testFile))

	scpCmd := fmt.Sprintf("scp -P %d -o StrictHostKeyChecking=no %s %s@%s:/tmp/", port, testFile, remoteUser, target)

	start := time.Now()
	results := m.ExecuteCommand(ctx, []string{source}, scpCmd)
	elapsed := time.Since(start)

	cr, ok := results[source]
	if !ok || !cr.Success {
		return sample{sent: 1}
	}

	s := sample{sent: 1, received: 1}
	if elapsed > 0 {
		s.throughputBs = float64(fileSize*8) / elapsed.Seconds()
		s.hasThpt = true
	}
	return s
}

// probeFTP runs a scripted FTP `put` session on source, via C3, and
// measures wall-clock transfer speed the same way probeSCP does.
func probeFTP(ctx context.Context, m runner, source, target string, port, packetSize int, user, pass, testFile string) sample {
	fileSize := packetSize * 100
	createCmd := fmt.Sprintf("dd if=/dev/zero of=%s bs=%d count=1 2>/dev/null", testFile, fileSize)
	m.ExecuteCommand(ctx, []string{source}, createCmd)
	defer m.ExecuteCommand(ctx, []string{source}, fmt.Sprintf("rm -f %s", testFile))

	ftpCmd := fmt.Sprintf(
		"ftp -n %s %d <<EOF\nuser %s %s\nput %s\nquit\nEOF",
		target, port, user, pass, testFile,
	)

	start := time.Now()
	results := m.ExecuteCommand(ctx, []string{source}, ftpCmd)
	elapsed := time.Since(start)

	cr, ok := results[source]
	if !ok || !cr.Success {
		return sample{sent: 1}
	}

	s := sample{sent: 1, received: 1}
	if elapsed > 0 {
		s.throughputBs = float64(fileSize*8) / elapsed.Seconds()
		s.hasThpt = true
	}
	return s
}
