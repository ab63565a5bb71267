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

	"github.com/sabouaram/ztw/channel"
	"github.com/sabouaram/ztw/record"
	"github.com/sabouaram/ztw/sshmanager"

	spfcbr "github.com/spf13/cobra"
)

func newChainCommand(f *commonFlags) *spfcbr.Command {
	return &spfcbr.Command{
		Use:   "chain <command>...",
		Short: "run an ordered sequence of commands on one tracked shell channel per host",
		Args:  spfcbr.MinimumNArgs(1),
		RunE: func(cmd *spfcbr.Command, args []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				exitCode = 2
				printError(err)
				return nil
			}

			cmds := make([]channel.Command, 0, len(args))
			for _, a := range args {
				cmds = append(cmds, channel.Command{Command: a})
			}

			mgr := sshmanager.New(cfg)
			defer mgr.Shutdown(context.Background())

			ctx, cancel := context.WithTimeout(context.Background(), cfg.OpTimeout)
			defer cancel()

			var all []record.ChannelResult
			allOK := true
			for _, host := range cfg.Hosts {
				results, cerr := mgr.ExecuteChain(ctx, host, cmds, true)
				if cerr != nil {
					printError(cerr)
					allOK = false
					continue
				}
				for _, r := range results {
					all = append(all, r)
					if !r.Success {
						allOK = false
					}
					printStatus(f, fmt.Sprintf("%s: %q success=%v", host, r.Command, r.Success))
				}
			}

			if werr := writeResults(f, "chain_results", sshmanager.ResultSet{Channels: all}); werr != nil {
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
