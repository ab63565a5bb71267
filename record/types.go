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

import "time"

// Direction distinguishes upload from download for a FileTransferResult.
type Direction string

const (
	DirectionUpload   Direction = "upload"
	DirectionDownload Direction = "download"
)

// CommandResult is produced once per command execution dispatched by the
// SSH manager against a single host.
type CommandResult struct {
	Host      string        `json:"host" yaml:"host"`
	Command   string        `json:"command" yaml:"command"`
	Stdout    string        `json:"stdout" yaml:"stdout"`
	Stderr    string        `json:"stderr" yaml:"stderr"`
	ExitCode  int           `json:"exit_code" yaml:"exit_code"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Timestamp time.Time     `json:"timestamp" yaml:"timestamp"`
	Success   bool          `json:"success" yaml:"success"`
}

// FileTransferResult is produced once per upload/download operation.
type FileTransferResult struct {
	Host       string        `json:"host" yaml:"host"`
	Direction  Direction     `json:"direction" yaml:"direction"`
	LocalPath  string        `json:"local_path" yaml:"local_path"`
	RemotePath string        `json:"remote_path" yaml:"remote_path"`
	ByteSize   int64         `json:"byte_size" yaml:"byte_size"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
	Timestamp  time.Time     `json:"timestamp" yaml:"timestamp"`
	Success    bool          `json:"success" yaml:"success"`
	Checksum   string        `json:"checksum,omitempty" yaml:"checksum,omitempty"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// ChannelState is a snapshot of a channel's tracked shell state at the
// moment a ChannelResult was produced.
type ChannelState struct {
	Host             string    `json:"host" yaml:"host"`
	CurrentDirectory string    `json:"current_directory" yaml:"current_directory"`
	CommandCount     int64     `json:"command_count" yaml:"command_count"`
	LastUsed         time.Time `json:"last_used" yaml:"last_used"`
}

// ChannelResult is produced once per command run through a persistent
// interactive shell channel. ExitCode is a pointer because shell semantics
// do not always surface one: Success may be true with ExitCode nil.
type ChannelResult struct {
	Command   string        `json:"command" yaml:"command"`
	Stdout    string        `json:"stdout" yaml:"stdout"`
	Stderr    string        `json:"stderr" yaml:"stderr"`
	ExitCode  *int          `json:"exit_code,omitempty" yaml:"exit_code,omitempty"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Timestamp time.Time     `json:"timestamp" yaml:"timestamp"`
	Success   bool          `json:"success" yaml:"success"`
	State     ChannelState  `json:"channel_state" yaml:"channel_state"`
}

// LogLevel mirrors the textual level carried by a captured log line.
type LogLevel string

const (
	LogLevelDebug    LogLevel = "debug"
	LogLevelInfo     LogLevel = "info"
	LogLevelWarning  LogLevel = "warning"
	LogLevelError    LogLevel = "error"
	LogLevelCritical LogLevel = "critical"
	LogLevelUnknown  LogLevel = "unknown"
)

// LogEntry is produced by the log capture component for every parsed line
// read from a remote file.
type LogEntry struct {
	Host       string            `json:"host" yaml:"host"`
	Timestamp  time.Time         `json:"timestamp" yaml:"timestamp"`
	Level      LogLevel          `json:"level" yaml:"level"`
	Message    string            `json:"message" yaml:"message"`
	Source     string            `json:"source" yaml:"source"`
	Line       *int64            `json:"line,omitempty" yaml:"line,omitempty"`
	PID        *int              `json:"pid,omitempty" yaml:"pid,omitempty"`
	TID        *int              `json:"tid,omitempty" yaml:"tid,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// TrafficProtocol enumerates the protocols the traffic tester can probe.
type TrafficProtocol string

const (
	ProtocolTCP   TrafficProtocol = "tcp"
	ProtocolUDP   TrafficProtocol = "udp"
	ProtocolHTTP  TrafficProtocol = "http"
	ProtocolHTTPS TrafficProtocol = "https"
	ProtocolDNS   TrafficProtocol = "dns"
	ProtocolICMP  TrafficProtocol = "icmp"
	ProtocolSCP   TrafficProtocol = "scp"
	ProtocolFTP   TrafficProtocol = "ftp"
)

// TrafficTestConfig is the per-test request value consumed by the traffic
// tester.
type TrafficTestConfig struct {
	Protocol        TrafficProtocol   `json:"protocol" yaml:"protocol" validate:"required"`
	Direction       Direction         `json:"direction" yaml:"direction"`
	SourceHosts     []string          `json:"source_hosts" yaml:"source_hosts" validate:"required,min=1"`
	TargetHosts     []string          `json:"target_hosts" yaml:"target_hosts" validate:"required,min=1"`
	TargetPorts     []int             `json:"target_ports" yaml:"target_ports"`
	DurationSeconds int               `json:"duration_seconds" yaml:"duration_seconds" validate:"required,gt=0"`
	IntervalSeconds float64           `json:"interval_seconds" yaml:"interval_seconds" validate:"required,gt=0"`
	PacketSize      int               `json:"packet_size" yaml:"packet_size" validate:"gt=0"`
	Concurrency     int               `json:"concurrency" yaml:"concurrency"`
	TimeoutSeconds  int               `json:"timeout_seconds" yaml:"timeout_seconds"`
	Retries         int               `json:"retries" yaml:"retries"`
	Extras          map[string]string `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// LatencyBlock holds the percentile reduction of latency samples in
// milliseconds.
type LatencyBlock struct {
	Stats
}

// ThroughputBlock holds min/mean/peak throughput in bits per second.
type ThroughputBlock struct {
	Min  float64 `json:"min" yaml:"min"`
	Mean float64 `json:"mean" yaml:"mean"`
	Peak float64 `json:"peak" yaml:"peak"`
}

// PacketBlock tallies sent/received/lost counts for loss-sensitive
// protocols (UDP, ICMP).
type PacketBlock struct {
	Sent        int64   `json:"sent" yaml:"sent"`
	Received    int64   `json:"received" yaml:"received"`
	Lost        int64   `json:"lost" yaml:"lost"`
	LossPercent float64 `json:"loss_percent" yaml:"loss_percent"`
}

// ConnectionBlock tallies connection attempt outcomes.
type ConnectionBlock struct {
	Attempted        int64   `json:"attempted" yaml:"attempted"`
	Succeeded        int64   `json:"succeeded" yaml:"succeeded"`
	Failed           int64   `json:"failed" yaml:"failed"`
	SuccessRate      float64 `json:"success_rate" yaml:"success_rate"`
	MeanConnectMsecs float64 `json:"mean_connect_ms" yaml:"mean_connect_ms"`
}

// TrafficTestResult is produced once per (source,target,port) tuple.
type TrafficTestResult struct {
	TestID        string            `json:"test_id" yaml:"test_id"`
	Protocol      TrafficProtocol   `json:"protocol" yaml:"protocol"`
	Direction     Direction         `json:"direction" yaml:"direction"`
	Source        string            `json:"source" yaml:"source"`
	Target        string            `json:"target" yaml:"target"`
	Port          int               `json:"port" yaml:"port"`
	StartTime     time.Time         `json:"start_time" yaml:"start_time"`
	EndTime       time.Time         `json:"end_time" yaml:"end_time"`
	Success       bool              `json:"success" yaml:"success"`
	Latency       *LatencyBlock     `json:"latency,omitempty" yaml:"latency,omitempty"`
	Throughput    *ThroughputBlock  `json:"throughput,omitempty" yaml:"throughput,omitempty"`
	Packets       *PacketBlock      `json:"packets,omitempty" yaml:"packets,omitempty"`
	Connection    *ConnectionBlock  `json:"connection,omitempty" yaml:"connection,omitempty"`
	ProtocolExtra map[string]string `json:"protocol_extra,omitempty" yaml:"protocol_extra,omitempty"`
	RawSamples    []float64         `json:"raw_samples,omitempty" yaml:"raw_samples,omitempty"`
}

// IperfTestResult is produced once per client/server iperf3 workflow.
type IperfTestResult struct {
	ClientHost     string        `json:"client_host" yaml:"client_host"`
	ServerHost     string        `json:"server_host" yaml:"server_host"`
	Role           string        `json:"role" yaml:"role"`
	Command        string        `json:"command" yaml:"command"`
	RawOutput      string        `json:"raw_output" yaml:"raw_output"`
	StartTime      time.Time     `json:"start_time" yaml:"start_time"`
	EndTime        time.Time     `json:"end_time" yaml:"end_time"`
	Duration       time.Duration `json:"duration" yaml:"duration"`
	Success        bool          `json:"success" yaml:"success"`
	BytesSent      int64         `json:"bytes_sent" yaml:"bytes_sent"`
	BytesReceived  int64         `json:"bytes_received" yaml:"bytes_received"`
	CPUUtilPercent float64       `json:"cpu_utilization_percent" yaml:"cpu_utilization_percent"`
	Retransmits    int64         `json:"retransmits" yaml:"retransmits"`
	ThroughputGbps Stats         `json:"throughput_gbps" yaml:"throughput_gbps"`
	PassFail       *bool         `json:"pass_fail,omitempty" yaml:"pass_fail,omitempty"`
	ExpectedGbps   *float64      `json:"expected_gbps,omitempty" yaml:"expected_gbps,omitempty"`
	Error          string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// EvaluatePassFail implements the §4.5 step 8 rule: the test fails when the
// mean throughput falls below both the expected value and the expected
// value shrunk by the tolerance percentage.
func EvaluatePassFail(avg, expected, tolerancePercent float64) bool {
	threshold := expected * (1 - tolerancePercent/100)
	if avg < expected && avg < threshold {
		return false
	}
	return true
}
