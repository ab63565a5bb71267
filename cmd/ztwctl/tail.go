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
	"os/signal"
	"syscall"
	"time"

	"github.com/sabouaram/ztw/record"
	"github.com/sabouaram/ztw/sshmanager"

	spfcbr "github.com/spf13/cobra"
)

// tailPoll is the interval at which tail re-snapshots each host's ring
// buffer looking for newly arrived lines.
const tailPoll = 500 * time.Millisecond

func newTailCommand(f *commonFlags) *spfcbr.Command {
	return &spfcbr.Command{
		Use:   "tail <remote-log>",
		Short: "stream a remote log file from every configured host until interrupted",
		Args:  spfcbr.ExactArgs(1),
		RunE: func(cmd *spfcbr.Command, args []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				exitCode = 2
				printError(err)
				return nil
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			mgr := sshmanager.New(cfg)
			defer mgr.Shutdown(context.Background())

			buffers := make(map[string]*record.LogRingBuffer, len(cfg.Hosts))
			seen := make(map[string]uint64, len(cfg.Hosts))
			for _, host := range cfg.Hosts {
				buf, cerr := mgr.StartLogCapture(ctx, host, args[0])
				if cerr != nil {
					printError(cerr)
					continue
				}
				buffers[host] = buf
			}

			ticker := time.NewTicker(tailPoll)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					for host := range buffers {
						_ = mgr.StopLogCapture(context.Background(), host)
					}
					exitCode = 0
					return nil
				case <-ticker.C:
					for host, buf := range buffers {
						total := buf.TotalIngested()
						if total <= seen[host] {
							continue
						}
						snap := buf.Snapshot()
						start := len(snap) - int(total-seen[host])
						if start < 0 {
							start = 0
						}
						for _, e := range snap[start:] {
							fmt.Printf("%s [%s] %s\n", e.Host, e.Level, e.Message)
						}
						seen[host] = total
					}
				}
			}
		},
	}
}
