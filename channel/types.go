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

import "time"

// Type distinguishes a tracked, reusable shell channel from a one-shot
// exec invocation.
type Type uint8

const (
	TypeShell Type = iota
	TypeExec
)

func (t Type) String() string {
	if t == TypeExec {
		return "exec"
	}
	return "shell"
}

const (
	defaultTimeout       = 30 * time.Second
	defaultWindowSize    = 4096
	defaultPollIteration = 10
	defaultPromptPattern = `[\$#]\s*$`
	pollSleep            = 10 * time.Millisecond
)

// Command is a single request submitted to a channel.
type Command struct {
	Command         string
	Timeout         time.Duration
	ExpectPatterns  []string
	ExpectResponses map[string]string
	WaitForPrompt   bool
	PromptPattern   string
	CleanChannel    bool
}

func (c Command) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return defaultTimeout
}

func (c Command) promptPattern() string {
	if c.PromptPattern != "" {
		return c.PromptPattern
	}
	return defaultPromptPattern
}

// Pair is one (command, expected patterns) step of an interactive
// sequence; ExecuteInteractive always waits for the prompt after sending.
type Pair struct {
	Command        string
	ExpectPatterns []string
}
