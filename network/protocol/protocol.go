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

// Package protocol enumerates the network dial protocols accepted by the
// net package's Dial/Listen family (tcp, udp, ip, unix and their address
// family variants).
package protocol

import "strings"

type NetworkProtocol uint8

const (
	NetworkEmpty NetworkProtocol = iota
	NetworkUnix
	NetworkTCP
	NetworkTCP4
	NetworkTCP6
	NetworkUDP
	NetworkUDP4
	NetworkUDP6
	NetworkIP
	NetworkIP4
	NetworkIP6
	NetworkUnixGram
)

var names = map[NetworkProtocol]string{
	NetworkUnix:     "unix",
	NetworkTCP:      "tcp",
	NetworkTCP4:     "tcp4",
	NetworkTCP6:     "tcp6",
	NetworkUDP:      "udp",
	NetworkUDP4:     "udp4",
	NetworkUDP6:     "udp6",
	NetworkIP:       "ip",
	NetworkIP4:      "ip4",
	NetworkIP6:      "ip6",
	NetworkUnixGram: "unixgram",
}

// Parse resolves a protocol name, case-insensitively, to its
// NetworkProtocol constant. Returns NetworkEmpty for anything unrecognized.
func Parse(s string) NetworkProtocol {
	ls := strings.ToLower(strings.TrimSpace(s))
	for p, n := range names {
		if n == ls {
			return p
		}
	}
	return NetworkEmpty
}

// String returns the lowercase protocol name, or "" if the value is not a
// known constant.
func (p NetworkProtocol) String() string {
	return names[p]
}

// Code is an alias for String, matching the dial-network string accepted
// by net.Dial.
func (p NetworkProtocol) Code() string {
	return p.String()
}

// Int returns the ordinal of the constant, or 0 for NetworkEmpty or an
// out-of-range value.
func (p NetworkProtocol) Int() int {
	if _, ok := names[p]; !ok {
		return 0
	}
	return int(p)
}

// Int64 is Int widened to int64.
func (p NetworkProtocol) Int64() int64 {
	return int64(p.Int())
}

func (p NetworkProtocol) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

func (p *NetworkProtocol) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	*p = Parse(s)
	return nil
}

func (p NetworkProtocol) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

func (p *NetworkProtocol) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	*p = Parse(s)
	return nil
}

func (p NetworkProtocol) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *NetworkProtocol) UnmarshalText(b []byte) error {
	*p = Parse(string(b))
	return nil
}
