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

// Package sshtest is an in-process SSH server used only by this module's own
// tests, so sshmanager and channel can be exercised end to end without a
// live host. It accepts password auth unconditionally (or against a fixed
// password) and answers "exec" and "shell" session requests from a
// caller-supplied script, the same way a real target would.
package sshtest

import (
	"bufio"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"golang.org/x/crypto/ssh"
)

// ExecHandler answers one "exec" channel request.
type ExecHandler func(command string) (stdout, stderr string, exitCode int)

// Options configures a Server.
type Options struct {
	// BindIP is the loopback address to listen on. Defaults to 127.0.0.1.
	BindIP string
	// Port, if non-zero, is used literally instead of an ephemeral one.
	// Several Server instances can then share one port across distinct
	// loopback addresses, so a test can stand in distinct hosts.
	Port int
	// Password, if set, is the only password accepted. Empty accepts any.
	Password string
	// Exec answers "exec" requests. A nil Exec fails every exec with exit 1.
	Exec ExecHandler
	// Shell maps a trimmed line of shell input to the raw bytes written
	// back on the channel. A line with no match gets no reply at all,
	// which is how tests simulate an unresponsive/hanging step.
	Shell map[string]string
}

// Server is a minimal SSH server bound to loopback, for tests only.
type Server struct {
	ln   net.Listener
	opt  Options
	quit chan struct{}

	mu            sync.Mutex
	active        int
	maxConcurrent int
	execCount     int32
}

// Start launches a Server and registers its shutdown with t.Cleanup.
func Start(t *testing.T, opt Options) *Server {
	t.Helper()

	if opt.BindIP == "" {
		opt.BindIP = "127.0.0.1"
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(opt.BindIP, strconv.Itoa(opt.Port)))
	if err != nil {
		t.Fatalf("sshtest: listen: %v", err)
	}

	s := &Server{ln: ln, opt: opt, quit: make(chan struct{})}
	go s.serve()
	t.Cleanup(s.Close)
	return s
}

// FreePort reserves an ephemeral TCP port on 127.0.0.1 and releases it
// immediately, so several Server instances on different loopback addresses
// can be started against the same port number afterward.
func FreePort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("sshtest: reserve port: %v", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

// Addr returns the "host:port" a pool.Endpoint should dial.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Host returns the bound loopback address alone.
func (s *Server) Host() string {
	host, _, _ := net.SplitHostPort(s.Addr())
	return host
}

// Port returns the bound TCP port alone.
func (s *Server) Port() int {
	_, port, _ := net.SplitHostPort(s.Addr())
	n, _ := strconv.Atoi(port)
	return n
}

// MaxConcurrent reports the highest number of exec/shell sessions this
// server ever had open at once, for asserting a concurrency bound was
// respected by the caller.
func (s *Server) MaxConcurrent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxConcurrent
}

// ExecCount reports how many "exec" requests this server has answered.
func (s *Server) ExecCount() int32 {
	return atomic.LoadInt32(&s.execCount)
}

// Close stops accepting connections. Safe to call more than once.
func (s *Server) Close() {
	select {
	case <-s.quit:
	default:
		close(s.quit)
	}
	_ = s.ln.Close()
}

func (s *Server) serverConfig() (*ssh.ServerConfig, error) {
	cfg := &ssh.ServerConfig{
		PasswordCallback: func(_ ssh.ConnMetadata, password []byte) (*ssh.Permissions, error) {
			if s.opt.Password != "" && string(password) != s.opt.Password {
				return nil, fmt.Errorf("sshtest: password rejected")
			}
			return nil, nil
		},
	}

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	signer, err := ssh.NewSignerFromSigner(priv)
	if err != nil {
		return nil, err
	}
	cfg.AddHostKey(signer)
	return cfg, nil
}

func (s *Server) serve() {
	cfg, err := s.serverConfig()
	if err != nil {
		return
	}

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return
			default:
				continue
			}
		}
		go s.handleConn(conn, cfg)
	}
}

func (s *Server) handleConn(conn net.Conn, cfg *ssh.ServerConfig) {
	sconn, chans, reqs, err := ssh.NewServerConn(conn, cfg)
	if err != nil {
		_ = conn.Close()
		return
	}
	defer sconn.Close()

	go ssh.DiscardRequests(reqs)

	for newCh := range chans {
		if newCh.ChannelType() != "session" {
			_ = newCh.Reject(ssh.UnknownChannelType, "unsupported channel type")
			continue
		}
		ch, requests, err := newCh.Accept()
		if err != nil {
			continue
		}
		go s.handleSession(ch, requests)
	}
}

func (s *Server) enter() {
	s.mu.Lock()
	s.active++
	if s.active > s.maxConcurrent {
		s.maxConcurrent = s.active
	}
	s.mu.Unlock()
}

func (s *Server) leave() {
	s.mu.Lock()
	s.active--
	s.mu.Unlock()
}

type execMsg struct {
	Command string
}

type exitStatusMsg struct {
	Status uint32
}

func (s *Server) handleSession(ch ssh.Channel, requests <-chan *ssh.Request) {
	defer ch.Close()

	for req := range requests {
		switch req.Type {
		case "exec":
			var m execMsg
			if err := ssh.Unmarshal(req.Payload, &m); err != nil {
				if req.WantReply {
					_ = req.Reply(false, nil)
				}
				continue
			}
			if req.WantReply {
				_ = req.Reply(true, nil)
			}
			s.runExec(ch, m.Command)
			return

		case "shell":
			if req.WantReply {
				_ = req.Reply(true, nil)
			}
			s.runShell(ch)
			return

		case "pty-req", "env", "window-change":
			if req.WantReply {
				_ = req.Reply(true, nil)
			}

		default:
			if req.WantReply {
				_ = req.Reply(false, nil)
			}
		}
	}
}

func (s *Server) runExec(ch ssh.Channel, command string) {
	s.enter()
	defer s.leave()
	atomic.AddInt32(&s.execCount, 1)

	stdout, stderr, code := "", "", 1
	if s.opt.Exec != nil {
		stdout, stderr, code = s.opt.Exec(command)
	}

	if stdout != "" {
		_, _ = io.WriteString(ch, stdout)
	}
	if stderr != "" {
		_, _ = io.WriteString(ch.Stderr(), stderr)
	}

	_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(exitStatusMsg{Status: uint32(code)}))
	_ = ch.CloseWrite()
}

func (s *Server) runShell(ch ssh.Channel) {
	s.enter()
	defer s.leave()

	scanner := bufio.NewScanner(ch)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		reply, ok := s.opt.Shell[line]
		if !ok {
			continue
		}
		_, _ = io.WriteString(ch, reply)
	}
}
