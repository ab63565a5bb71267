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

	libcbr "github.com/sabouaram/ztw/cobra"
)

// commonFlags holds every persistent flag shared across all verbs, following
// spec.md's common-flag table (config path, host list, credentials, timing,
// concurrency, output, verbosity).
type commonFlags struct {
	configPath  string
	hosts       []string
	user        string
	password    string
	keyFile     string
	port        int
	timeout     time.Duration
	maxParallel int
	outputDir   string
	outputFmt   string
	verbose     int
	noProgress  bool
}

func newFlags() *commonFlags {
	return &commonFlags{}
}

func (f *commonFlags) register(app libcbr.Cobra) {
	if err := app.SetFlagConfig(true, &f.configPath); err != nil {
		printError(err)
	}
	app.AddFlagStringArray(true, &f.hosts, "hosts", "", nil, "target hosts, overrides the config file's host list")
	app.AddFlagString(true, &f.user, "user", "", "", "SSH user, overrides the config file")
	app.AddFlagString(true, &f.password, "password", "", "", "SSH password, overrides the config file")
	app.AddFlagString(true, &f.keyFile, "key-file", "", "", "SSH private key path, overrides the config file")
	app.AddFlagInt(true, &f.port, "port", "", 0, "SSH port, overrides the config file")
	app.AddFlagDuration(true, &f.timeout, "timeout", "", 0, "per-operation timeout, overrides the config file")
	app.AddFlagInt(true, &f.maxParallel, "max-parallel", "", 0, "maximum in-flight per-host workers, overrides the config file")
	app.AddFlagString(true, &f.outputDir, "output-dir", "", "output", "directory persisted result artifacts are written under")
	app.AddFlagString(true, &f.outputFmt, "output-format", "", "json", "artifact format: json or csv")
	app.SetFlagVerbose(true, &f.verbose)
	app.AddFlagBool(true, &f.noProgress, "no-progress", "", false, "suppress per-host progress output")
}
