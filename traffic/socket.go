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
	"net"
	"strconv"
	"time"

	"github.com/sabouaram/ztw/network/protocol"
)

// probeTCP opens a TCP connection to target:port, writes packetSize bytes
// and reads an echoed response, timing the whole round trip. Connect and
// round-trip timings are both recorded; the probe never panics on a dead
// peer, it just reports no sample.
func probeTCP(target string, port, packetSize int, timeout time.Duration) sample {
	addr := net.JoinHostPort(target, strconv.Itoa(port))
	s := sample{sent: 1}

	connStart := time.Now()
	conn, err := net.DialTimeout(protocol.NetworkTCP.Code(), addr, timeout)
	connectMs := float64(time.Since(connStart).Microseconds()) / 1000
	s.connectMs = connectMs
	s.hasConnect = true

	if err != nil {
		s.connectOK = false
		return s
	}
	defer conn.Close()
	s.connectOK = true

	sampleStart := time.Now()
	_ = conn.SetDeadline(time.Now().Add(timeout))

	payload := make([]byte, packetSize)
	for i := range payload {
		payload[i] = 'X'
	}
	if _, err := conn.Write(payload); err != nil {
		return s
	}

	buf := make([]byte, packetSize)
	n, err := conn.Read(buf)
	if err != nil {
		return s
	}
	s.received = 1

	elapsed := time.Since(sampleStart)
	s.latencyMs = float64(elapsed.Microseconds()) / 1000
	s.hasLatency = true

	if elapsed > 0 {
		s.throughputBs = float64((len(payload)+n)*8) / elapsed.Seconds()
		s.hasThpt = true
	}

	return s
}

// probeUDP sends one datagram and attempts a timed receive. Loss is
// expected and non-fatal: a timed-out receive simply contributes to the
// packet block's loss count.
func probeUDP(target string, port, packetSize int, timeout time.Duration) sample {
	addr := net.JoinHostPort(target, strconv.Itoa(port))
	s := sample{sent: 1}

	conn, err := net.DialTimeout(protocol.NetworkUDP.Code(), addr, timeout)
	if err != nil {
		return s
	}
	defer conn.Close()

	sampleStart := time.Now()
	_ = conn.SetDeadline(time.Now().Add(timeout))

	payload := make([]byte, packetSize)
	for i := range payload {
		payload[i] = 'X'
	}
	if _, err := conn.Write(payload); err != nil {
		return s
	}

	buf := make([]byte, packetSize)
	n, err := conn.Read(buf)
	if err != nil {
		return s
	}
	s.received = 1

	elapsed := time.Since(sampleStart)
	s.latencyMs = float64(elapsed.Microseconds()) / 1000
	s.hasLatency = true

	if elapsed > 0 {
		s.throughputBs = float64((len(payload)+n)*8) / elapsed.Seconds()
		s.hasThpt = true
	}

	return s
}
