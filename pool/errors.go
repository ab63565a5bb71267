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

// Package pool owns the set of live SSH connections: it hands out reusable
// ones keyed by (host, port, user), evicts broken or idle ones, bounds
// total pool size, and optionally tunnels through a jumphost.
package pool

import (
	"fmt"

	liberr "github.com/sabouaram/ztw/errors"
)

const (
	ErrorParamsEmpty liberr.CodeError = iota + liberr.MinPkgPool
	ErrorAuth
	ErrorUnreachable
	ErrorProtocol
	ErrorCapacity
	ErrorJumphost
	ErrorClosed
)

func init() {
	if liberr.ExistInMapMessage(ErrorParamsEmpty) {
		panic(fmt.Errorf("error code collision with package pool"))
	}
	liberr.RegisterIdFctMessage(ErrorParamsEmpty, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorParamsEmpty:
		return "given parameters is empty"
	case ErrorAuth:
		return "pool : authentication to host failed"
	case ErrorUnreachable:
		return "pool : host is unreachable"
	case ErrorProtocol:
		return "pool : ssh protocol error"
	case ErrorCapacity:
		return "pool : at capacity and no idle connection could be evicted"
	case ErrorJumphost:
		return "pool : cannot establish tunnel through jumphost"
	case ErrorClosed:
		return "pool : pool is closed"
	}

	return liberr.NullMessage
}
