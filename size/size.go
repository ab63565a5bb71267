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

// Package size provides a byte-count type that parses and formats
// human-readable sizes ("10MB", "1.5G") and plugs into JSON, YAML, TOML
// and viper decoding.
package size

import (
	"fmt"
	"strconv"
	"strings"
)

// Size counts a number of bytes.
type Size int64

const SizeNul Size = 0

const (
	SizeUnit Size = 1 << (10 * iota)
	SizeKilo
	SizeMega
	SizeGiga
	SizeTera
	SizePeta
	SizeExa
)

var units = []struct {
	size   Size
	suffix string
}{
	{SizeExa, "EB"},
	{SizePeta, "PB"},
	{SizeTera, "TB"},
	{SizeGiga, "GB"},
	{SizeMega, "MB"},
	{SizeKilo, "KB"},
}

// String renders the size with a decimal value and its largest matching unit.
func (s Size) String() string {
	return s.Format(true)
}

// Format renders the size, including a decimal point only when withDecimal is true.
func (s Size) Format(withDecimal bool) string {
	v := float64(s)

	for _, u := range units {
		if s >= u.size || s <= -u.size {
			f := v / float64(u.size)
			if withDecimal {
				return fmt.Sprintf("%.2f%s", f, u.suffix)
			}
			return fmt.Sprintf("%d%s", int64(f), u.suffix)
		}
	}

	if withDecimal {
		return fmt.Sprintf("%.2fB", v)
	}
	return fmt.Sprintf("%dB", int64(s))
}

var parseUnits = map[string]Size{
	"B":  SizeUnit,
	"K":  SizeKilo,
	"KB": SizeKilo,
	"M":  SizeMega,
	"MB": SizeMega,
	"G":  SizeGiga,
	"GB": SizeGiga,
	"T":  SizeTera,
	"TB": SizeTera,
	"P":  SizePeta,
	"PB": SizePeta,
	"E":  SizeExa,
	"EB": SizeExa,
}

// Parse reads a human size string ("10MB", "1.5G", "512") into a Size.
// A bare number with no unit suffix is interpreted as a byte count.
func Parse(s string) (Size, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SizeNul, fmt.Errorf("size: empty value")
	}

	i := len(s)
	for i > 0 && (s[i-1] < '0' || s[i-1] > '9') && s[i-1] != '.' {
		i--
	}

	numPart := s[:i]
	unitPart := strings.ToUpper(strings.TrimSpace(s[i:]))

	f, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return SizeNul, fmt.Errorf("size: invalid numeric value %q: %w", numPart, err)
	}

	if unitPart == "" {
		return Size(int64(f)), nil
	}

	u, ok := parseUnits[unitPart]
	if !ok {
		return SizeNul, fmt.Errorf("size: unknown unit %q", unitPart)
	}

	return Size(f * float64(u)), nil
}

func (s Size) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(s.String())), nil
}

func (s *Size) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("size: invalid JSON value %q", string(b))
	}
	v, err := Parse(str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s Size) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Size) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
