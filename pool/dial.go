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
	"strconv"
	"time"

	liberr "github.com/sabouaram/ztw/errors"

	"golang.org/x/crypto/ssh"
)

// dialWithRetry dials ep up to retryAttempts times with exponential backoff
// between min and max, retrying only on classify's retryable verdicts. The
// jumphost, if configured, is dialed (and cached) first.
func (p *Pool) dialWithRetry(ctx context.Context, ep Endpoint) (*ssh.Client, liberr.Error) {
	delay := retryMinDelay
	var lastErr liberr.Error

	for attempt := 0; attempt < retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ErrorUnreachable.Error(ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
			if delay > retryMaxDelay {
				delay = retryMaxDelay
			}
		}

		client, err := p.dialOnce(ctx, ep)
		if err == nil {
			return client, nil
		}

		ce := classify(err)
		lastErr = ce
		if !retryable(ce) {
			return nil, ce
		}
	}

	return nil, lastErr
}

func (p *Pool) dialOnce(ctx context.Context, ep Endpoint) (*ssh.Client, error) {
	auth, aerr := authMethods(p.cfg)
	if aerr != nil {
		return nil, aerr
	}

	timeout := p.cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	clientCfg := &ssh.ClientConfig{
		User:            ep.User,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback(p.cfg),
		Timeout:         timeout,
		BannerCallback:  ssh.BannerDisplayStderr(),
	}

	addr := net.JoinHostPort(ep.Host, strconv.Itoa(ep.Port))

	if p.cfg.Jumphost != nil {
		return p.dialThroughJumphost(ctx, addr, clientCfg)
	}

	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	c, chans, reqs, err := ssh.NewClientConn(conn, addr, clientCfg)
	if err != nil {
		return nil, err
	}

	return ssh.NewClient(c, chans, reqs), nil
}
