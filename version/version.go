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

// Package version carries build-time identity (package name, release, build
// hash, author, license) for a binary and exposes it through a small reflection
// helper so the root module path does not need to be hardcoded by callers.
package version

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"path"
	"reflect"
	"strings"
	"time"
)

// Version exposes the build identity of a binary or library.
type Version interface {
	GetPackage() string
	GetDescription() string
	GetBuild() string
	GetRelease() string
	GetAuthor() string
	GetPrefix() string
	GetDate() string
	GetTime() time.Time
	GetAppId() string
	GetHeader() string
	GetInfo() string
	GetRootPackagePath() string

	GetLicenseName() string
	GetLicenseLegal() string
	GetLicenseBoiler(lic ...License) string
	GetLicenseFull() string

	// CheckGo validates the running Go runtime against a required version
	// string and a comparison operator: one of "==", ">", ">=", "<", "<=",
	// "~>" (pessimistic, major.minor compatible).
	CheckGo(required, operator string) error

	PrintInfo()
	PrintLicense()
}

type version struct {
	lic License
	pkg string
	dsc string
	dat time.Time
	bld string
	rel string
	aut string
	pfx string
	rpp string
}

// NewVersion builds a Version instance. date accepts RFC3339; any other
// value falls back to time.Now(). pkg accepts "" or "noname" to request
// that the package name be derived from the caller's reflected package path.
// numSubPackage walks numSubPackage directories up from the reflected path
// to compute GetRootPackagePath, which is useful when the caller lives in
// a "cmd/xxx" subdirectory of the module root.
func NewVersion(lic License, pkg, description, date, build, release, author, prefix string, caller interface{}, numSubPackage int) Version {
	t := reflect.TypeOf(caller)
	rpp := ""
	if t != nil {
		rpp = t.PkgPath()
	}

	for i := 0; i < numSubPackage; i++ {
		rpp = path.Dir(rpp)
	}

	if pkg == "" || strings.EqualFold(pkg, "noname") {
		pkg = path.Base(t.PkgPath())
	}

	var dat time.Time
	if p, err := time.Parse(time.RFC3339, date); err == nil {
		dat = p
	} else {
		dat = time.Now()
	}

	return &version{
		lic: lic,
		pkg: pkg,
		dsc: description,
		dat: dat,
		bld: build,
		rel: release,
		aut: author,
		pfx: strings.ToUpper(prefix),
		rpp: rpp,
	}
}

func (v *version) GetPackage() string {
	return v.pkg
}

func (v *version) GetDescription() string {
	return v.dsc
}

func (v *version) GetBuild() string {
	return v.bld
}

func (v *version) GetRelease() string {
	return v.rel
}

func (v *version) GetAuthor() string {
	return v.aut
}

func (v *version) GetPrefix() string {
	return v.pfx
}

func (v *version) GetDate() string {
	return v.dat.Format(time.RFC1123)
}

func (v *version) GetTime() time.Time {
	return v.dat
}

func (v *version) GetAppId() string {
	h := sha1.New()
	h.Write([]byte(v.pkg + v.rel + v.bld))
	return hex.EncodeToString(h.Sum(nil))
}

func (v *version) GetRootPackagePath() string {
	return v.rpp
}

func (v *version) GetHeader() string {
	return fmt.Sprintf("%s - %s (release %s, build %s)", v.pkg, v.dsc, v.rel, v.bld)
}

func (v *version) GetInfo() string {
	return fmt.Sprintf("%s\nauthor: %s\ndate: %s\nlicense: %s", v.GetHeader(), v.aut, v.GetDate(), v.lic.Name())
}

func (v *version) GetLicenseName() string {
	return v.lic.Name()
}

func (v *version) GetLicenseLegal() string {
	return v.lic.Legal()
}

func (v *version) GetLicenseBoiler(lic ...License) string {
	l := v.lic
	if len(lic) > 0 {
		l = lic[0]
	}
	return l.Boiler()
}

func (v *version) GetLicenseFull() string {
	return v.lic.Name() + "\n\n" + v.lic.Legal() + "\n\n" + v.lic.Boiler()
}

func (v *version) PrintInfo() {
	fmt.Println(v.GetInfo())
}

func (v *version) PrintLicense() {
	fmt.Println(v.GetLicenseFull())
}
