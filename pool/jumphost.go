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

package pool

import (
	"context"
	"net"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/ssh"
)

// dialThroughJumphost dials the configured jumphost once (caching the
// client for reuse by later calls), then opens a direct-tcpip channel from
// the jumphost to addr and runs the target SSH handshake over that channel.
func (p *Pool) dialThroughJumphost(ctx context.Context, addr string, targetCfg *ssh.ClientConfig) (*ssh.Client, error) {
	jh, err := p.jumphostClient(ctx)
	if err != nil {
		return nil, ErrorJumphost.Error(err)
	}

	conn, err := dialDirectTCPIP(jh, addr)
	if err != nil {
		return nil, ErrorJumphost.Error(err)
	}

	c, chans, reqs, err := ssh.NewClientConn(conn, addr, targetCfg)
	if err != nil {
		return nil, err
	}

	return ssh.NewClient(c, chans, reqs), nil
}

func (p *Pool) jumphostClient(ctx context.Context) (*ssh.Client, error) {
	p.jumphostMu.Lock()
	defer p.jumphostMu.Unlock()

	if p.jumphost != nil {
		if sess, err := p.jumphost.NewSession(); err == nil {
			_ = sess.Close()
			return p.jumphost, nil
		}
		_ = p.jumphost.Close()
		p.jumphost = nil
	}

	jh := p.cfg.Jumphost

	auth := make([]ssh.AuthMethod, 0, 1)
	if jh.KeyFile != "" {
		key, err := os.ReadFile(jh.KeyFile)
		if err != nil {
			return nil, err
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, err
		}
		auth = append(auth, ssh.PublicKeys(signer))
	} else {
		auth = append(auth, ssh.Password(jh.Password))
	}

	timeout := jh.ConnectTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	cfg := &ssh.ClientConfig{
		User:            jh.User,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback(p.cfg),
		Timeout:         timeout,
	}

	addr := net.JoinHostPort(jh.Host, strconv.Itoa(jh.Port))

	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	c, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		return nil, err
	}

	client := ssh.NewClient(c, chans, reqs)
	p.jumphost = client
	return client, nil
}

// dialDirectTCPIP opens a direct-tcpip channel from an established SSH
// client to addr, presenting it to the caller as a net.Conn so the target
// SSH handshake can run over it transparently.
func dialDirectTCPIP(client *ssh.Client, addr string) (net.Conn, error) {
	return client.Dial("tcp", addr)
}
