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

// Command ztwctl drives an SSH fleet: run commands, move files, tail remote
// logs, chain shell state, script interactive prompts, and probe network
// reachability, across many hosts at a bounded concurrency.
package main

import (
	"os"

	libcbr "github.com/sabouaram/ztw/cobra"
	libver "github.com/sabouaram/ztw/version"
)

// buildDate is a placeholder build stamp; real builds override it with
// -ldflags "-X main.buildDate=...".
var buildDate = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	app := libcbr.New()
	app.SetVersion(libver.NewVersion(
		libver.License_MIT,
		"ztwctl",
		"SSH fleet orchestration and network measurement CLI",
		buildDate,
		"dev",
		"0.1.0",
		"ztw",
		"ZTW_",
		run,
		0,
	))
	app.SetForceNoInfo(true)
	app.Init()

	f := newFlags()
	f.register(app)

	root := app.Cobra()
	root.SilenceUsage = true
	root.SilenceErrors = true

	root.AddCommand(
		newExecuteCommand(f),
		newUploadCommand(f),
		newDownloadCommand(f),
		newTailCommand(f),
		newChainCommand(f),
		newInteractiveCommand(f),
		newTrafficCommand(f),
		newMetricsCommand(f),
		newConfigValidateCommand(f),
	)

	if err := app.Execute(); err != nil {
		printError(err)
		if exitCode == 0 {
			exitCode = 2
		}
	}

	return exitCode
}
