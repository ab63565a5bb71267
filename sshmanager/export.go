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

package sshmanager

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sabouaram/ztw/record"

	"gopkg.in/yaml.v3"
)

// ResultSet bundles every record kind produced by a run, for a single
// export call.
type ResultSet struct {
	Commands  []record.CommandResult      `json:"commands,omitempty" yaml:"commands,omitempty"`
	Transfers []record.FileTransferResult `json:"transfers,omitempty" yaml:"transfers,omitempty"`
	Channels  []record.ChannelResult      `json:"channels,omitempty" yaml:"channels,omitempty"`
	Traffic   []record.TrafficTestResult  `json:"traffic,omitempty" yaml:"traffic,omitempty"`
	Iperf     []record.IperfTestResult    `json:"iperf,omitempty" yaml:"iperf,omitempty"`
	Logs      []record.LogEntry           `json:"logs,omitempty" yaml:"logs,omitempty"`
}

// ExportResults serializes set to path, choosing JSON, YAML or CSV from the
// file extension (defaulting to JSON). CSV has no single stable column set
// across the six record kinds ResultSet bundles, so it writes one
// self-labeled section per populated slice rather than one flat table.
func ExportResults(set ResultSet, path string) error {
	ext := filepath.Ext(path)

	if strings.EqualFold(ext, ".csv") {
		return exportCSV(set, path)
	}

	var out []byte
	var err error

	if strings.EqualFold(ext, ".yaml") || strings.EqualFold(ext, ".yml") {
		out, err = yaml.Marshal(set)
	} else {
		out, err = json.MarshalIndent(set, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, out, 0o644)
}

func exportCSV(set ResultSet, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if len(set.Commands) > 0 {
		if err := writeCSVSection(w, "commands",
			[]string{"host", "command", "exit_code", "success", "duration", "timestamp"},
			len(set.Commands), func(i int) []string {
				r := set.Commands[i]
				return []string{r.Host, r.Command, strconv.Itoa(r.ExitCode), strconv.FormatBool(r.Success), r.Duration.String(), r.Timestamp.Format(time.RFC3339)}
			}); err != nil {
			return err
		}
	}

	if len(set.Transfers) > 0 {
		if err := writeCSVSection(w, "transfers",
			[]string{"host", "direction", "local_path", "remote_path", "byte_size", "success", "duration", "timestamp"},
			len(set.Transfers), func(i int) []string {
				r := set.Transfers[i]
				return []string{r.Host, string(r.Direction), r.LocalPath, r.RemotePath, strconv.FormatInt(r.ByteSize, 10), strconv.FormatBool(r.Success), r.Duration.String(), r.Timestamp.Format(time.RFC3339)}
			}); err != nil {
			return err
		}
	}

	if len(set.Channels) > 0 {
		if err := writeCSVSection(w, "channels",
			[]string{"command", "exit_code", "success", "duration", "timestamp"},
			len(set.Channels), func(i int) []string {
				r := set.Channels[i]
				code := ""
				if r.ExitCode != nil {
					code = strconv.Itoa(*r.ExitCode)
				}
				return []string{r.Command, code, strconv.FormatBool(r.Success), r.Duration.String(), r.Timestamp.Format(time.RFC3339)}
			}); err != nil {
			return err
		}
	}

	if len(set.Traffic) > 0 {
		if err := writeCSVSection(w, "traffic",
			[]string{"test_id", "protocol", "source", "target", "port", "success", "start_time", "end_time"},
			len(set.Traffic), func(i int) []string {
				r := set.Traffic[i]
				return []string{r.TestID, string(r.Protocol), r.Source, r.Target, strconv.Itoa(r.Port), strconv.FormatBool(r.Success), r.StartTime.Format(time.RFC3339), r.EndTime.Format(time.RFC3339)}
			}); err != nil {
			return err
		}
	}

	if len(set.Iperf) > 0 {
		if err := writeCSVSection(w, "iperf",
			[]string{"client_host", "server_host", "success", "bytes_sent", "bytes_received", "retransmits", "pass_fail"},
			len(set.Iperf), func(i int) []string {
				r := set.Iperf[i]
				pf := ""
				if r.PassFail != nil {
					pf = strconv.FormatBool(*r.PassFail)
				}
				return []string{r.ClientHost, r.ServerHost, strconv.FormatBool(r.Success), strconv.FormatInt(r.BytesSent, 10), strconv.FormatInt(r.BytesReceived, 10), strconv.FormatInt(r.Retransmits, 10), pf}
			}); err != nil {
			return err
		}
	}

	if len(set.Logs) > 0 {
		if err := writeCSVSection(w, "logs",
			[]string{"host", "timestamp", "level", "message", "source"},
			len(set.Logs), func(i int) []string {
				r := set.Logs[i]
				return []string{r.Host, r.Timestamp.Format(time.RFC3339), string(r.Level), r.Message, r.Source}
			}); err != nil {
			return err
		}
	}

	return nil
}

func writeCSVSection(w *csv.Writer, name string, header []string, n int, row func(i int) []string) error {
	if err := w.Write([]string{fmt.Sprintf("# %s", name)}); err != nil {
		return err
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			return err
		}
	}
	return w.Write([]string{})
}
