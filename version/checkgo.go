/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

package version

import (
	"runtime"
	"strconv"
	"strings"
)

type semver struct {
	major, minor, patch int64
}

func parseSemver(s string) (semver, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "go")
	if s == "" {
		return semver{}, false
	}

	parts := strings.SplitN(s, ".", 3)
	v := semver{}

	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return semver{}, false
		}
		switch i {
		case 0:
			v.major = n
		case 1:
			v.minor = n
		case 2:
			v.patch = n
		}
	}

	return v, true
}

// compare returns -1, 0, 1 when a is respectively lower, equal or greater than b.
func (a semver) compare(b semver) int {
	if a.major != b.major {
		if a.major < b.major {
			return -1
		}
		return 1
	}
	if a.minor != b.minor {
		if a.minor < b.minor {
			return -1
		}
		return 1
	}
	if a.patch != b.patch {
		if a.patch < b.patch {
			return -1
		}
		return 1
	}
	return 0
}

func (v *version) CheckGo(required, operator string) error {
	if required == "" || operator == "" {
		return ErrorParamEmpty.Error(nil)
	}

	req, ok := parseSemver(required)
	if !ok {
		return ErrorGoVersionInit.Error(nil)
	}

	run, ok := parseSemver(strings.TrimPrefix(runtime.Version(), "go"))
	if !ok {
		return ErrorGoVersionRuntime.Error(nil)
	}

	c := run.compare(req)

	var pass bool
	switch operator {
	case "==":
		pass = c == 0
	case ">":
		pass = c > 0
	case ">=":
		pass = c >= 0
	case "<":
		pass = c < 0
	case "<=":
		pass = c <= 0
	case "~>":
		pass = run.major == req.major && run.minor >= req.minor
	default:
		return ErrorGoVersionConstraint.Error(nil)
	}

	if !pass {
		return ErrorGoVersionConstraint.Error(nil)
	}

	return nil
}
