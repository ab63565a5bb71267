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

	"github.com/sabouaram/ztw/record"
	"github.com/sabouaram/ztw/sshmanager"

	spfcbr "github.com/spf13/cobra"
)

func newExecuteCommand(f *commonFlags) *spfcbr.Command {
	return &spfcbr.Command{
		Use:   "execute <command>",
		Short: "run a shell command on every configured host",
		Args:  spfcbr.ExactArgs(1),
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

			results := mgr.ExecuteCommand(ctx, cfg.Hosts, args[0])

			all := make([]record.CommandResult, 0, len(results))
			allOK := true
			for _, host := range cfg.Hosts {
				r := results[host]
				all = append(all, r)
				if !r.Success {
					allOK = false
				}
				printStatus(f, fmt.Sprintf("%s: exit=%d success=%v", r.Host, r.ExitCode, r.Success))
			}

			if werr := writeResults(f, "command_results", sshmanager.ResultSet{Commands: all}); werr != nil {
				exitCode = 2
				printError(werr)
				return nil
			}

			if !allOK {
				exitCode = 1
			}
			return nil
		},
	}
}
