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

package ztwconfig

import "time"

// Endpoint is the Pool's connection key: (host, port, user).
type Endpoint struct {
	Host string `json:"host" yaml:"host" mapstructure:"host" validate:"required"`
	Port int    `json:"port" yaml:"port" mapstructure:"port" validate:"required,gt=0,lte=65535"`
	User string `json:"user" yaml:"user" mapstructure:"user" validate:"required"`
}

func (e Endpoint) String() string {
	return e.User + "@" + e.Host
}

// Jumphost carries the same connection fields as the primary target but is
// optional and, when present, is dialed first and used to tunnel the real
// connection via a direct-tcpip channel.
type Jumphost struct {
	Host           string        `json:"host" yaml:"host" mapstructure:"host" validate:"required"`
	Port           int           `json:"port" yaml:"port" mapstructure:"port" validate:"required,gt=0,lte=65535"`
	User           string        `json:"user" yaml:"user" mapstructure:"user" validate:"required"`
	Password       string        `json:"password,omitempty" yaml:"password,omitempty" mapstructure:"password"`
	KeyFile        string        `json:"key_file,omitempty" yaml:"key_file,omitempty" mapstructure:"key_file"`
	ConnectTimeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// LogCaptureOptions configures the log capture component's default
// behavior when a host capture is started without per-call overrides.
type LogCaptureOptions struct {
	BufferSize      int      `json:"buffer_size" yaml:"buffer_size" mapstructure:"buffer_size"`
	IncludePatterns []string `json:"include_patterns,omitempty" yaml:"include_patterns,omitempty" mapstructure:"include_patterns"`
	ExcludePatterns []string `json:"exclude_patterns,omitempty" yaml:"exclude_patterns,omitempty" mapstructure:"exclude_patterns"`
	PollInterval    time.Duration `json:"poll_interval" yaml:"poll_interval" mapstructure:"poll_interval"`
}

// FileTransferOptions configures default upload/download behavior.
type FileTransferOptions struct {
	VerifyChecksum bool          `json:"verify_checksum" yaml:"verify_checksum" mapstructure:"verify_checksum"`
	Timeout        time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	PreserveMode   bool          `json:"preserve_mode" yaml:"preserve_mode" mapstructure:"preserve_mode"`
}

// SecurityOptions configures SSH host-key and cipher policy.
type SecurityOptions struct {
	StrictHostKeyChecking bool     `json:"strict_host_key_checking" yaml:"strict_host_key_checking" mapstructure:"strict_host_key_checking"`
	KnownHostsFile        string   `json:"known_hosts_file,omitempty" yaml:"known_hosts_file,omitempty" mapstructure:"known_hosts_file"`
	KeyTypes              []string `json:"key_types,omitempty" yaml:"key_types,omitempty" mapstructure:"key_types"`
	CipherPreferences     []string `json:"cipher_preferences,omitempty" yaml:"cipher_preferences,omitempty" mapstructure:"cipher_preferences"`
}

// Config is the validated, immutable-after-construction root configuration
// value consumed by the connection pool and every component built on it.
type Config struct {
	Hosts          []string      `json:"hosts" yaml:"hosts" mapstructure:"hosts" validate:"required,min=1"`
	User           string        `json:"user" yaml:"user" mapstructure:"user" validate:"required"`
	Password       string        `json:"password,omitempty" yaml:"password,omitempty" mapstructure:"password"`
	KeyFile        string        `json:"key_file,omitempty" yaml:"key_file,omitempty" mapstructure:"key_file"`
	Port           int           `json:"port" yaml:"port" mapstructure:"port" validate:"required,gt=0,lte=65535"`
	ConnectTimeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	OpTimeout      time.Duration `json:"op_timeout" yaml:"op_timeout" mapstructure:"op_timeout"`
	MaxParallel    int           `json:"max_parallel" yaml:"max_parallel" mapstructure:"max_parallel" validate:"required,gte=1"`

	LogLevel               string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	LogFile                string `json:"log_file,omitempty" yaml:"log_file,omitempty" mapstructure:"log_file"`
	LogFormat              string `json:"log_format" yaml:"log_format" mapstructure:"log_format"`
	ConnectionPoolSize     int    `json:"connection_pool_size" yaml:"connection_pool_size" mapstructure:"connection_pool_size"`
	ConnectionIdleTimeout  time.Duration `json:"connection_idle_timeout" yaml:"connection_idle_timeout" mapstructure:"connection_idle_timeout"`
	MaxRetries             int    `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
	RetryDelay             time.Duration `json:"retry_delay" yaml:"retry_delay" mapstructure:"retry_delay"`

	Jumphost     *Jumphost            `json:"jumphost,omitempty" yaml:"jumphost,omitempty" mapstructure:"jumphost"`
	LogCapture   LogCaptureOptions    `json:"log_capture" yaml:"log_capture" mapstructure:"log_capture"`
	FileTransfer FileTransferOptions  `json:"file_transfer" yaml:"file_transfer" mapstructure:"file_transfer"`
	Security     SecurityOptions      `json:"security" yaml:"security" mapstructure:"security"`
}

// Endpoints expands Config into one Endpoint per configured host.
func (c Config) Endpoints() []Endpoint {
	out := make([]Endpoint, 0, len(c.Hosts))
	for _, h := range c.Hosts {
		out = append(out, Endpoint{Host: h, Port: c.Port, User: c.User})
	}
	return out
}

// HasPassword reports whether password auth is configured.
func (c Config) HasPassword() bool {
	return c.Password != ""
}

// HasKeyFile reports whether key-file auth is configured.
func (c Config) HasKeyFile() bool {
	return c.KeyFile != ""
}
