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

package channel

import (
	"path"
	"strings"
)

// dirState tracks one channel's working directory plus the single
// previous value needed to implement `cd -`.
type dirState struct {
	current  string
	previous string
}

func newDirState() dirState {
	return dirState{current: "~"}
}

// isCd reports whether cmd is a cd invocation and, if so, returns its
// (possibly empty) argument.
func isCd(cmd string) (string, bool) {
	trimmed := strings.TrimSpace(cmd)
	if trimmed == "cd" {
		return "", true
	}
	if strings.HasPrefix(trimmed, "cd ") {
		return strings.TrimSpace(trimmed[3:]), true
	}
	return "", false
}

// apply updates current/previous per the tracked cd semantics: no
// argument goes home, ".." goes to the parent, an absolute path replaces
// outright, "-" swaps with the previous directory, and anything else is
// joined onto the current directory.
func (d *dirState) apply(arg string) {
	next := d.current

	switch {
	case arg == "":
		next = "~"
	case arg == "-":
		next = d.previous
		if next == "" {
			next = d.current
		}
	case arg == "..":
		next = path.Dir(d.current)
	case strings.HasPrefix(arg, "/") || arg == "~":
		next = arg
	default:
		if d.current == "" || d.current == "~" {
			next = arg
		} else {
			next = path.Join(d.current, arg)
		}
	}

	d.previous = d.current
	d.current = next
}
