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
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sabouaram/ztw/channel"
	"github.com/sabouaram/ztw/record"
	"github.com/sabouaram/ztw/sshmanager"

	spfcbr "github.com/spf13/cobra"
)

// parsePairsFile reads the `cmd|pat1,pat2` per-line interactive script
// format spec.md §6 names: blank lines and lines starting with `#` are
// skipped, and an absent `|pat,...` suffix means "no expect patterns".
func parsePairsFile(path string) ([]channel.Pair, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var pairs []channel.Pair
	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "|", 2)
		pair := channel.Pair{Command: strings.TrimSpace(parts[0])}
		if len(parts) == 2 && parts[1] != "" {
			for _, p := range strings.Split(parts[1], ",") {
				pair.ExpectPatterns = append(pair.ExpectPatterns, strings.TrimSpace(p))
			}
		}
		pairs = append(pairs, pair)
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}
	return pairs, nil
}

func newInteractiveCommand(f *commonFlags) *spfcbr.Command {
	return &spfcbr.Command{
		Use:   "interactive <commands-file>",
		Short: "drive an interactive shell session from a scripted command/expect file",
		Args:  spfcbr.ExactArgs(1),
		RunE: func(cmd *spfcbr.Command, args []string) error {
			pairs, perr := parsePairsFile(args[0])
			if perr != nil {
				exitCode = 2
				printError(perr)
				return nil
			}

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

			var all []record.ChannelResult
			allOK := true
			for _, host := range cfg.Hosts {
				results, ierr := mgr.ExecuteInteractive(ctx, host, pairs, cfg.OpTimeout)
				if ierr != nil {
					printError(ierr)
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

			if werr := writeResults(f, "interactive_results", sshmanager.ResultSet{Channels: all}); werr != nil {
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
