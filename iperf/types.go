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

import "fmt"

// Options configures a single client/server iperf3 pair test.
type Options struct {
	ClientHost      string
	ServerHost      string
	Port            int
	Streams         int
	MTU             int
	DurationSeconds int
	IntervalSeconds int
	SafetySeconds   int
	RemoteDir       string
	LocalDir        string
	ExpectedGbps    *float64
	TolerancePct    float64
}

const (
	defaultPort         = 5201
	defaultStreams      = 4
	defaultMTU          = 1460
	defaultDuration     = 10
	defaultInterval     = 1
	defaultSafety       = 5
	defaultSettle       = 2
	defaultRemoteDir    = "/tmp"
	defaultTolerancePct = 10.0
)

func (o Options) port() int {
	if o.Port <= 0 {
		return defaultPort
	}
	return o.Port
}

func (o Options) streams() int {
	if o.Streams <= 0 {
		return defaultStreams
	}
	return o.Streams
}

func (o Options) mtu() int {
	if o.MTU <= 0 {
		return defaultMTU
	}
	return o.MTU
}

func (o Options) duration() int {
	if o.DurationSeconds <= 0 {
		return defaultDuration
	}
	return o.DurationSeconds
}

func (o Options) interval() int {
	if o.IntervalSeconds <= 0 {
		return defaultInterval
	}
	return o.IntervalSeconds
}

func (o Options) safety() int {
	if o.SafetySeconds <= 0 {
		return defaultSafety
	}
	return o.SafetySeconds
}

func (o Options) remoteDir() string {
	if o.RemoteDir == "" {
		return defaultRemoteDir
	}
	return o.RemoteDir
}

func (o Options) tolerance() float64 {
	if o.TolerancePct <= 0 {
		return defaultTolerancePct
	}
	return o.TolerancePct
}

func (o Options) pairKey() string {
	return fmt.Sprintf("%s_to_%s_%d", o.ClientHost, o.ServerHost, o.port())
}

func (o Options) serverOutFile() string {
	return fmt.Sprintf("%s/iperf_server_%s.json", o.remoteDir(), o.pairKey())
}

func (o Options) serverPidFile() string {
	return fmt.Sprintf("%s/iperf_server_%s.pid", o.remoteDir(), o.pairKey())
}

func (o Options) clientOutFile() string {
	return fmt.Sprintf("%s/iperf_client_%s.json", o.remoteDir(), o.pairKey())
}

func (o Options) clientPidFile() string {
	return fmt.Sprintf("%s/iperf_client_%s.pid", o.remoteDir(), o.pairKey())
}
