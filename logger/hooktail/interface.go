/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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

// Package hooktail is a logtps.Hook that keeps a bounded in-memory tail of
// fired entries in a record.LogRingBuffer, independent of whichever
// console/file hooks are also registered on the same logger. It is what
// a capture dashboard reads to show recent activity without re-parsing
// log files on disk.
package hooktail

import (
	"github.com/sirupsen/logrus"

	logtps "github.com/sabouaram/ztw/logger/types"
	"github.com/sabouaram/ztw/record"
)

const defaultSize = 1000

// HookTail extends logtps.Hook with read access to its backing buffer.
type HookTail interface {
	logtps.Hook
	Buffer() *record.LogRingBuffer
}

// New builds a HookTail with a ring buffer sized size (falling back to
// defaultSize when size <= 0). source tags every captured entry,
// typically the process or component name.
func New(source string, size int) (HookTail, error) {
	if size <= 0 {
		size = defaultSize
	}

	buf, err := record.NewLogRingBuffer(size)
	if err != nil {
		return nil, err
	}

	return &hktail{buf: buf, source: source, levels: logrus.AllLevels}, nil
}
