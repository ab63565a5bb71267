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
	"os"
	"path/filepath"
	"time"

	"github.com/sabouaram/ztw/record"
	"github.com/sabouaram/ztw/sshmanager"
	"github.com/sabouaram/ztw/traffic"

	spfcbr "github.com/spf13/cobra"
)

type trafficFlags struct {
	protocol    string
	direction   string
	sourceHosts []string
	targetHosts []string
	targetPorts []int32
	duration    int32
	interval    float64
	packetSize  int32
}

func newTrafficCommand(f *commonFlags) *spfcbr.Command {
	tf := &trafficFlags{}

	c := &spfcbr.Command{
		Use:   "traffic",
		Short: "probe network reachability and throughput between host groups",
		RunE: func(cmd *spfcbr.Command, args []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				exitCode = 2
				printError(err)
				return nil
			}

			ports := make([]int, 0, len(tf.targetPorts))
			for _, p := range tf.targetPorts {
				ports = append(ports, int(p))
			}

			tcfg := record.TrafficTestConfig{
				Protocol:        record.TrafficProtocol(tf.protocol),
				Direction:       record.Direction(tf.direction),
				SourceHosts:     tf.sourceHosts,
				TargetHosts:     tf.targetHosts,
				TargetPorts:     ports,
				DurationSeconds: int(tf.duration),
				IntervalSeconds: tf.interval,
				PacketSize:      int(tf.packetSize),
			}

			mgr := sshmanager.New(cfg)
			defer mgr.Shutdown(context.Background())

			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(tf.duration+10)*time.Second)
			defer cancel()

			tester := traffic.New(mgr)
			results := tester.Run(ctx, tcfg)

			dir := filepath.Join(f.outputDir, "traffic_tests")
			if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
				exitCode = 2
				printError(mkErr)
				return nil
			}

			ext := "json"
			if f.outputFmt == "csv" {
				ext = "csv"
			}

			allOK := true
			for _, r := range results {
				if !r.Success {
					allOK = false
				}
				printStatus(f, fmt.Sprintf("%s -> %s (%s): success=%v", r.Source, r.Target, r.Protocol, r.Success))

				path := filepath.Join(dir, fmt.Sprintf("%s.%s", r.TestID, ext))
				if werr := sshmanager.ExportResults(sshmanager.ResultSet{Traffic: []record.TrafficTestResult{r}}, path); werr != nil {
					exitCode = 2
					printError(werr)
					return nil
				}
			}

			if !allOK {
				exitCode = 1
			}
			return nil
		},
	}

	c.Flags().StringVar(&tf.protocol, "protocol", "tcp", "protocol to probe: tcp|udp|http|https|dns|icmp|scp|ftp")
	c.Flags().StringVar(&tf.direction, "direction", "outbound", "traffic direction label recorded with the result")
	c.Flags().StringSliceVar(&tf.sourceHosts, "source-hosts", nil, "hosts the probe runs from")
	c.Flags().StringSliceVar(&tf.targetHosts, "target-hosts", nil, "hosts the probe targets")
	c.Flags().Int32SliceVar(&tf.targetPorts, "target-ports", nil, "ports to probe on each target host")
	c.Flags().Int32Var(&tf.duration, "duration", 10, "test duration in seconds")
	c.Flags().Float64Var(&tf.interval, "interval", 1, "sampling interval in seconds")
	c.Flags().Int32Var(&tf.packetSize, "packet-size", 64, "probe packet size in bytes")

	return c
}
