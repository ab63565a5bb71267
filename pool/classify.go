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
	"errors"
	"net"
	"strings"

	liberr "github.com/sabouaram/ztw/errors"
)

// classify maps a dial/handshake error onto the pool's retryable error
// taxonomy (AuthError, UnreachableError, ProtocolError) or returns nil for
// an error outside that taxonomy (not retried).
func classify(err error) liberr.Error {
	if err == nil {
		return nil
	}

	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "unable to authenticate"),
		strings.Contains(msg, "handshake failed"),
		strings.Contains(msg, "permission denied"):
		return ErrorAuth.Error(err)
	case strings.Contains(msg, "ssh:"):
		return ErrorProtocol.Error(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrorUnreachable.Error(err)
	}

	return ErrorUnreachable.Error(err)
}

// retryable reports whether classify's verdict should trigger the pool's
// retry-with-backoff policy.
func retryable(e liberr.Error) bool {
	if e == nil {
		return false
	}
	switch e.GetCode() {
	case ErrorAuth, ErrorUnreachable, ErrorProtocol:
		return true
	}
	return false
}
