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

import (
	"path/filepath"
	"strings"

	liberr "github.com/sabouaram/ztw/errors"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

var validate = validator.New()

// Default values applied before a config file is read, matching the
// teacher's pattern of seeding viper defaults ahead of unmarshalling.
func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 22)
	v.SetDefault("timeout", "30s")
	v.SetDefault("op_timeout", "60s")
	v.SetDefault("max_parallel", 5)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("connection_pool_size", 10)
	v.SetDefault("connection_idle_timeout", "5m")
	v.SetDefault("max_retries", 3)
	v.SetDefault("retry_delay", "4s")
	v.SetDefault("log_capture.buffer_size", 1000)
	v.SetDefault("log_capture.poll_interval", "1s")
	v.SetDefault("file_transfer.timeout", "120s")
	v.SetDefault("security.strict_host_key_checking", true)
}

// Load reads a YAML or INI config file (detected from its extension,
// defaulting to YAML) into a validated Config.
func Load(path string) (Config, liberr.Error) {
	v := viper.New()
	setDefaults(v)

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		ext = "yaml"
	}
	v.SetConfigFile(path)
	v.SetConfigType(ext)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, ErrorFileRead.Error(err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, ErrorFileParse.Error(err)
	}

	if e := Validate(cfg); e != nil {
		return Config{}, e
	}

	return cfg, nil
}

// Validate applies struct validation tags plus the cross-field invariants
// spec.md §3 calls out (exactly one of password/key-path present).
func Validate(cfg Config) liberr.Error {
	if err := validate.Struct(cfg); err != nil {
		return ErrorValidation.Error(err)
	}

	if cfg.HasPassword() == cfg.HasKeyFile() {
		return ErrorCredentials.Error(nil)
	}

	if cfg.Jumphost != nil {
		jh := cfg.Jumphost
		hasPass := jh.Password != ""
		hasKey := jh.KeyFile != ""
		if hasPass == hasKey {
			return ErrorCredentials.Error(nil)
		}
	}

	return nil
}
