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

package ztwconfig_test

import (
	"os"
	"path/filepath"

	"github.com/sabouaram/ztw/ztwconfig"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const validYAML = `
hosts:
  - host-a
  - host-b
user: deployer
key_file: /home/deployer/.ssh/id_rsa
port: 22
max_parallel: 4
`

var _ = Describe("Load", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "ztwconfig")
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		Expect(os.RemoveAll(dir)).To(Succeed())
	})

	It("loads a valid YAML file with defaults applied", func() {
		p := filepath.Join(dir, "ztw.yaml")
		Expect(os.WriteFile(p, []byte(validYAML), 0o600)).To(Succeed())

		cfg, err := ztwconfig.Load(p)
		Expect(err).To(BeNil())
		Expect(cfg.Hosts).To(Equal([]string{"host-a", "host-b"}))
		Expect(cfg.MaxParallel).To(Equal(4))
		Expect(cfg.LogCapture.BufferSize).To(Equal(1000))
		Expect(cfg.Endpoints()).To(HaveLen(2))
	})

	It("rejects a file with both password and key_file set", func() {
		p := filepath.Join(dir, "ztw.yaml")
		Expect(os.WriteFile(p, []byte(validYAML+"\npassword: secret\n"), 0o600)).To(Succeed())

		_, err := ztwconfig.Load(p)
		Expect(err).ToNot(BeNil())
	})

	It("rejects a missing file", func() {
		_, err := ztwconfig.Load(filepath.Join(dir, "missing.yaml"))
		Expect(err).ToNot(BeNil())
	})

	It("rejects max_parallel below 1", func() {
		p := filepath.Join(dir, "ztw.yaml")
		Expect(os.WriteFile(p, []byte(validYAML+"\nmax_parallel: 0\n"), 0o600)).To(Succeed())

		_, err := ztwconfig.Load(p)
		Expect(err).ToNot(BeNil())
	})
})
