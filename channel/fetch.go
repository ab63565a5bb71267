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
	"regexp"
	"strings"
	"time"
)

// fetchResult is what FetchOutput hands back to the command loop.
type fetchResult struct {
	stdout   string
	stderr   string
	timedOut bool
}

// FetchOutput implements the channel manager's output-collection
// algorithm: poll for stdout/stderr chunks, fire expect-pattern responses
// at most once per occurrence, stop at a prompt match or a run of empty
// polls, and never run longer than timeout.
func (c *Channel) FetchOutput(cmd Command) fetchResult {
	var (
		out, errOut strings.Builder
		fired       = make(map[string]bool, len(cmd.ExpectPatterns))
		emptyPolls  int
		deadline    = time.Now().Add(cmd.timeout())
	)

	var promptRe *regexp.Regexp
	if cmd.WaitForPrompt {
		if re, err := regexp.Compile(cmd.promptPattern()); err == nil {
			promptRe = re
		}
	}

	for {
		if time.Now().After(deadline) {
			errOut.WriteString("[timeout]")
			return fetchResult{stdout: strings.TrimSpace(out.String()), stderr: strings.TrimSpace(errOut.String()), timedOut: true}
		}

		select {
		case ch := <-c.data:
			emptyPolls = 0
			if ch.stderr {
				errOut.Write(ch.data)
			} else {
				out.Write(ch.data)
				c.fireExpectations(out.String(), cmd, fired)
			}

			if promptRe != nil && promptRe.MatchString(out.String()) {
				return fetchResult{stdout: strings.TrimSpace(out.String()), stderr: strings.TrimSpace(errOut.String())}
			}
		default:
			emptyPolls++
			if emptyPolls > defaultPollIteration {
				return fetchResult{stdout: strings.TrimSpace(out.String()), stderr: strings.TrimSpace(errOut.String())}
			}
			time.Sleep(pollSleep)
		}
	}
}

// fireExpectations scans the accumulated stdout for any expect pattern not
// yet fired and sends its mapped response, if non-empty, on the channel.
func (c *Channel) fireExpectations(accumulated string, cmd Command, fired map[string]bool) {
	if len(cmd.ExpectPatterns) == 0 || len(cmd.ExpectResponses) == 0 {
		return
	}
	for _, pattern := range cmd.ExpectPatterns {
		if fired[pattern] {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil || !re.MatchString(accumulated) {
			continue
		}
		fired[pattern] = true
		if resp, ok := cmd.ExpectResponses[pattern]; ok && resp != "" {
			_ = c.send(resp)
		}
	}
}
