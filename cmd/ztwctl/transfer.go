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
	"path/filepath"

	"github.com/sabouaram/ztw/record"
	"github.com/sabouaram/ztw/sshmanager"

	spfcbr "github.com/spf13/cobra"
)

func newUploadCommand(f *commonFlags) *spfcbr.Command {
	return &spfcbr.Command{
		Use:   "upload <local> <remote>",
		Short: "copy a local file to every configured host over SFTP",
		Args:  spfcbr.ExactArgs(2),
		RunE: func(cmd *spfcbr.Command, args []string) error {
			return runTransfer(f, "upload_results", args[0], args[1], func(ctx context.Context, mgr *sshmanager.Manager, host string) record.FileTransferResult {
				return mgr.Upload(ctx, host, args[0], args[1])
			})
		},
	}
}

func newDownloadCommand(f *commonFlags) *spfcbr.Command {
	return &spfcbr.Command{
		Use:   "download <remote>",
		Short: "copy a remote file from every configured host over SFTP",
		Args:  spfcbr.ExactArgs(1),
		RunE: func(cmd *spfcbr.Command, args []string) error {
			remote := args[0]
			return runTransfer(f, "download_results", "<output-dir>/<host>_"+filepath.Base(remote), remote, func(ctx context.Context, mgr *sshmanager.Manager, host string) record.FileTransferResult {
				local := filepath.Join(f.outputDir, host+"_"+filepath.Base(remote))
				return mgr.Download(ctx, host, remote, local)
			})
		},
	}
}

func runTransfer(f *commonFlags, baseName, local, remote string, do func(ctx context.Context, mgr *sshmanager.Manager, host string) record.FileTransferResult) error {
	cfg, err := loadConfig(f)
	if err != nil {
		exitCode = 2
		printError(err)
		return nil
	}

	mgr := sshmanager.New(cfg)
	defer mgr.Shutdown(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FileTransfer.Timeout)
	defer cancel()

	all := make([]record.FileTransferResult, 0, len(cfg.Hosts))
	allOK := true
	for _, host := range cfg.Hosts {
		r := do(ctx, mgr, host)
		all = append(all, r)
		if !r.Success {
			allOK = false
		}
		printStatus(f, fmt.Sprintf("%s: %s -> %s success=%v", r.Host, local, remote, r.Success))
	}

	if werr := writeResults(f, baseName, sshmanager.ResultSet{Transfers: all}); werr != nil {
		exitCode = 2
		printError(werr)
		return nil
	}

	if !allOK {
		exitCode = 1
	}
	return nil
}
