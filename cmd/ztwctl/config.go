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

package main

import (
	"time"

	"github.com/sabouaram/ztw/ztwconfig"
)

// defaultConfig mirrors ztwconfig.Load's viper defaults, for the case where
// no --config file is given and the fleet is described entirely by flags.
func defaultConfig() ztwconfig.Config {
	return ztwconfig.Config{
		Port:                  22,
		ConnectTimeout:        30 * time.Second,
		OpTimeout:             60 * time.Second,
		MaxParallel:           5,
		LogLevel:              "info",
		LogFormat:             "text",
		ConnectionPoolSize:    10,
		ConnectionIdleTimeout: 5 * time.Minute,
		MaxRetries:            3,
		RetryDelay:            4 * time.Second,
		LogCapture: ztwconfig.LogCaptureOptions{
			BufferSize:   1000,
			PollInterval: time.Second,
		},
		FileTransfer: ztwconfig.FileTransferOptions{
			Timeout: 120 * time.Second,
		},
		Security: ztwconfig.SecurityOptions{
			StrictHostKeyChecking: true,
		},
	}
}

// loadConfig builds the effective Config for a verb invocation: start from
// --config (or built-in defaults if absent), then let the common per-verb
// flags override whatever the file says, then validate the result.
func loadConfig(f *commonFlags) (ztwconfig.Config, error) {
	var cfg ztwconfig.Config

	if f.configPath != "" {
		loaded, err := ztwconfig.Load(f.configPath)
		if err != nil {
			return ztwconfig.Config{}, err
		}
		cfg = loaded
	} else {
		cfg = defaultConfig()
	}

	if len(f.hosts) > 0 {
		cfg.Hosts = f.hosts
	}
	if f.user != "" {
		cfg.User = f.user
	}
	if f.password != "" {
		cfg.Password = f.password
		cfg.KeyFile = ""
	}
	if f.keyFile != "" {
		cfg.KeyFile = f.keyFile
		cfg.Password = ""
	}
	if f.port != 0 {
		cfg.Port = f.port
	}
	if f.timeout != 0 {
		cfg.OpTimeout = f.timeout
	}
	if f.maxParallel != 0 {
		cfg.MaxParallel = f.maxParallel
	}

	if err := ztwconfig.Validate(cfg); err != nil {
		return ztwconfig.Config{}, err
	}

	return cfg, nil
}
