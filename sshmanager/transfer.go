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
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"time"

	"github.com/sabouaram/ztw/record"

	"github.com/pkg/sftp"
)

// Upload copies localPath to remotePath on host over SFTP.
func (m *Manager) Upload(ctx context.Context, host, localPath, remotePath string) record.FileTransferResult {
	return m.transfer(ctx, host, record.DirectionUpload, localPath, remotePath)
}

// Download copies remotePath on host to localPath over SFTP.
func (m *Manager) Download(ctx context.Context, host, remotePath, localPath string) record.FileTransferResult {
	return m.transfer(ctx, host, record.DirectionDownload, localPath, remotePath)
}

func (m *Manager) transfer(ctx context.Context, host string, dir record.Direction, localPath, remotePath string) record.FileTransferResult {
	start := time.Now()
	res := record.FileTransferResult{
		Host:       host,
		Direction:  dir,
		LocalPath:  localPath,
		RemotePath: remotePath,
		Timestamp:  start,
	}

	ep := m.endpoint(host)
	ci, err := m.pool.Get(ctx, ep)
	if err != nil {
		res.Error = err.Error()
		res.Duration = time.Since(start)
		return res
	}

	client, serr := sftp.NewClient(ci.Client())
	if serr != nil {
		res.Error = serr.Error()
		res.Duration = time.Since(start)
		return res
	}
	defer client.Close()

	var size int64
	var xferErr error
	var sum string

	if dir == record.DirectionUpload {
		size, sum, xferErr = m.copyUp(client, localPath, remotePath)
	} else {
		size, sum, xferErr = m.copyDown(client, remotePath, localPath)
	}

	res.Duration = time.Since(start)
	res.ByteSize = size

	if xferErr != nil {
		res.Error = xferErr.Error()
		return res
	}

	res.Success = true
	if m.cfg.FileTransfer.VerifyChecksum {
		res.Checksum = sum
	}
	return res
}

func (m *Manager) copyUp(client *sftp.Client, localPath, remotePath string) (int64, string, error) {
	local, err := os.Open(localPath)
	if err != nil {
		return 0, "", err
	}
	defer local.Close()

	remote, err := client.Create(remotePath)
	if err != nil {
		return 0, "", err
	}
	defer remote.Close()

	return copyAndSum(remote, local, m.cfg.FileTransfer.VerifyChecksum)
}

func (m *Manager) copyDown(client *sftp.Client, remotePath, localPath string) (int64, string, error) {
	remote, err := client.Open(remotePath)
	if err != nil {
		return 0, "", err
	}
	defer remote.Close()

	local, err := os.Create(localPath)
	if err != nil {
		return 0, "", err
	}
	defer local.Close()

	return copyAndSum(local, remote, m.cfg.FileTransfer.VerifyChecksum)
}

func copyAndSum(dst io.Writer, src io.Reader, verify bool) (int64, string, error) {
	if !verify {
		n, err := io.Copy(dst, src)
		return n, "", err
	}

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(dst, h), src)
	if err != nil {
		return n, "", err
	}
	return n, hex.EncodeToString(h.Sum(nil)), nil
}
