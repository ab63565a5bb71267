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

package logcapture

import (
	"regexp"
	"strings"
	"time"

	"github.com/sabouaram/ztw/record"
)

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"Jan _2 15:04:05",
	time.RFC3339,
}

func parseTimestamp(line string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		n := len(layout)
		if n > len(line) {
			continue
		}
		if t, err := time.Parse(layout, line[:n]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var levelTokens = []struct {
	token string
	level record.LogLevel
}{
	{"CRITICAL", record.LogLevelCritical},
	{"FATAL", record.LogLevelCritical},
	{"ERROR", record.LogLevelError},
	{"WARNING", record.LogLevelWarning},
	{"WARN", record.LogLevelWarning},
	{"DEBUG", record.LogLevelDebug},
	{"INFO", record.LogLevelInfo},
}

func parseLevel(line string) record.LogLevel {
	upper := strings.ToUpper(line)
	for _, lt := range levelTokens {
		if strings.Contains(upper, lt.token) {
			return lt.level
		}
	}
	return record.LogLevelInfo
}

// parseLine turns one raw remote log line into a LogEntry, per the
// timestamp-layout and level-token scan rules.
func parseLine(host, source, line string) record.LogEntry {
	entry := record.LogEntry{
		Host:    host,
		Message: line,
		Source:  source,
		Level:   parseLevel(line),
	}

	if ts, ok := parseTimestamp(line); ok {
		entry.Timestamp = ts
	} else {
		entry.Timestamp = time.Now()
	}

	return entry
}

// compiledPatterns pre-compiles a pattern list once per capture, case
// insensitively, skipping any pattern that fails to compile.
func compiledPatterns(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if re, err := regexp.Compile("(?i)" + p); err == nil {
			out = append(out, re)
		}
	}
	return out
}

// matchesFilters applies exclude patterns first, then include patterns:
// any exclude match drops the line; if includes are non-empty, at least
// one must match or the line is dropped.
func matchesFilters(line string, include, exclude []*regexp.Regexp) bool {
	for _, re := range exclude {
		if re.MatchString(line) {
			return false
		}
	}

	if len(include) == 0 {
		return true
	}

	for _, re := range include {
		if re.MatchString(line) {
			return true
		}
	}

	return false
}
