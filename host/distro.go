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

package host

import (
	"context"
	"fmt"
	"strings"

	"github.com/sabouaram/ztw/record"
)

// distro identifies the package manager family of a remote host, read
// from /etc/os-release's ID (and ID_LIKE) fields.
type distro int

const (
	distroUnknown distro = iota
	distroDebian
	distroRHEL
	distroSUSE
)

func detectDistro(osRelease string) distro {
	lower := strings.ToLower(osRelease)
	var id, idLike string
	for _, line := range strings.Split(lower, "\n") {
		switch {
		case strings.HasPrefix(line, "id_like="):
			idLike = strings.Trim(strings.TrimPrefix(line, "id_like="), `"`)
		case strings.HasPrefix(line, "id="):
			id = strings.Trim(strings.TrimPrefix(line, "id="), `"`)
		}
	}

	switch {
	case id == "debian" || id == "ubuntu" || strings.Contains(idLike, "debian"):
		return distroDebian
	case id == "rhel" || id == "centos" || id == "fedora" || id == "rocky" || id == "almalinux" || strings.Contains(idLike, "rhel") || strings.Contains(idLike, "fedora"):
		return distroRHEL
	case id == "opensuse" || id == "sles" || strings.Contains(idLike, "suse"):
		return distroSUSE
	}
	return distroUnknown
}

func installCommand(d distro, pkg string) (string, error) {
	switch d {
	case distroDebian:
		return fmt.Sprintf("DEBIAN_FRONTEND=noninteractive apt-get update && DEBIAN_FRONTEND=noninteractive apt-get install -y %s", shellQuote(pkg)), nil
	case distroRHEL:
		return fmt.Sprintf("(command -v dnf >/dev/null 2>&1 && dnf install -y %s) || yum install -y %s", shellQuote(pkg), shellQuote(pkg)), nil
	case distroSUSE:
		return fmt.Sprintf("zypper --non-interactive install %s", shellQuote(pkg)), nil
	}
	return "", ErrorUnknownDistro.Error(nil)
}

// InstallPackage detects this host's distribution from /etc/os-release
// and installs pkg with the matching package manager (apt, dnf/yum, or
// zypper).
func (h *Host) InstallPackage(ctx context.Context, pkg string) (record.CommandResult, error) {
	if pkg == "" {
		return record.CommandResult{}, ErrorParamsEmpty.Error(nil)
	}

	osInfo := h.Execute(ctx, "cat /etc/os-release")
	if !osInfo.Success {
		return osInfo, fmt.Errorf("could not read /etc/os-release on %s: %s", h.name, osInfo.Stderr)
	}

	d := detectDistro(osInfo.Stdout)
	cmd, err := installCommand(d, pkg)
	if err != nil {
		return record.CommandResult{Host: h.name}, err
	}

	return h.Execute(ctx, cmd), nil
}
