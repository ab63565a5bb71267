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
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/sabouaram/ztw/console"
	"github.com/sabouaram/ztw/sshmanager"
)

// exitCode carries the process exit status computed by whichever verb ran;
// main reads it after Execute returns. Verbs that fail outright return an
// error instead, which main also maps to a non-zero code.
var exitCode int

func printError(err error) {
	red := color.New(color.FgRed)
	_, _ = red.Fprintln(os.Stderr, "Error: "+err.Error())
}

func printStatus(f *commonFlags, msg string) {
	if f.noProgress {
		return
	}
	console.ColorPrint.Println(msg)
}

// artifactPath joins the configured output directory with baseName and the
// extension implied by --output-format (json by default, csv when asked).
func artifactPath(f *commonFlags, baseName string) string {
	ext := "json"
	if f.outputFmt == "csv" {
		ext = "csv"
	}
	return filepath.Join(f.outputDir, fmt.Sprintf("%s.%s", baseName, ext))
}

// writeResults ensures the output directory exists and persists set under
// baseName in the format --output-format names.
func writeResults(f *commonFlags, baseName string, set sshmanager.ResultSet) error {
	if err := os.MkdirAll(f.outputDir, 0o755); err != nil {
		return err
	}
	return sshmanager.ExportResults(set, artifactPath(f, baseName))
}
