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

package hooktail

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/sabouaram/ztw/record"
)

type hktail struct {
	buf    *record.LogRingBuffer
	source string
	levels []logrus.Level
}

// Run is a no-op: Fire pushes directly into the ring buffer and needs no
// background processing.
func (o *hktail) Run(ctx context.Context) {}

// IsRunning always returns true; this hook requires no lifecycle management.
func (o *hktail) IsRunning() bool {
	return true
}

func (o *hktail) Levels() []logrus.Level {
	return o.levels
}

func (o *hktail) RegisterHook(log *logrus.Logger) {
	log.AddHook(o)
}

func (o *hktail) Fire(entry *logrus.Entry) error {
	o.buf.Push(record.LogEntry{
		Host:      o.source,
		Timestamp: entry.Time,
		Level:     levelToRecord(entry.Level),
		Message:   entry.Message,
		Source:    o.source,
	})
	return nil
}

// Write lets callers feed raw lines into the tail outside of logrus
// (e.g. forwarding another component's output). Pushed entries carry an
// unknown level since no structured level is available.
func (o *hktail) Write(p []byte) (n int, err error) {
	o.buf.Push(record.LogEntry{
		Host:    o.source,
		Level:   record.LogLevelUnknown,
		Message: string(p),
		Source:  o.source,
	})
	return len(p), nil
}

func (o *hktail) Close() error {
	return nil
}

func (o *hktail) Buffer() *record.LogRingBuffer {
	return o.buf
}

func levelToRecord(l logrus.Level) record.LogLevel {
	switch l {
	case logrus.DebugLevel, logrus.TraceLevel:
		return record.LogLevelDebug
	case logrus.InfoLevel:
		return record.LogLevelInfo
	case logrus.WarnLevel:
		return record.LogLevelWarning
	case logrus.ErrorLevel:
		return record.LogLevelError
	case logrus.FatalLevel, logrus.PanicLevel:
		return record.LogLevelCritical
	}
	return record.LogLevelUnknown
}
