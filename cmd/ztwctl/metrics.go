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
	"context"
	"fmt"

	"github.com/sabouaram/ztw/console"
	"github.com/sabouaram/ztw/sshmanager"

	spfcbr "github.com/spf13/cobra"
)

// newMetricsCommand reports a point-in-time reachability snapshot of the
// fleet. It always exits 0: metrics is a read-only diagnostic, not a
// pass/fail operation, and per-host reachability is reported in the body
// rather than in the exit code.
func newMetricsCommand(f *commonFlags) *spfcbr.Command {
	return &spfcbr.Command{
		Use:   "metrics",
		Short: "report a reachability snapshot across every configured host",
		RunE: func(cmd *spfcbr.Command, args []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				exitCode = 2
				printError(err)
				return nil
			}

			mgr := sshmanager.New(cfg)
			defer mgr.Shutdown(context.Background())

			ctx, cancel := context.WithTimeout(context.Background(), cfg.OpTimeout)
			defer cancel()

			results := mgr.ExecuteCommand(ctx, cfg.Hosts, "true")

			header := console.PadRight("HOST", 24, " ") + console.PadRight("REACHABLE", 12, " ") + "LATENCY"
			console.ColorPrint.Println(header)

			for _, host := range cfg.Hosts {
				r := results[host]
				line := console.PadRight(host, 24, " ") + console.PadRight(fmt.Sprintf("%v", r.Success), 12, " ") + r.Duration.String()
				console.ColorPrint.Println(line)
			}

			exitCode = 0
			return nil
		},
	}
}
