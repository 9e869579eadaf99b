package backup

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
)

// promptRegex matches a device CLI prompt at the end of the read buffer:
// hostname plus "#" or ">", optionally with trailing whitespace. Good enough
// for IOS, NX-OS, ASA, EOS and Junos operational mode.
var promptRegex = regexp.MustCompile(`[\w\-.:/@()]+[#>]\s*$`)

// shellSession is one interactive PTY session against a network device.
// A reader goroutine splits stdout into lines and signals prompt sightings;
// RunCommand sends one command and collects its output up to the next prompt.
type shellSession struct {
	client *ssh.Client
	sess   *ssh.Session
	stdin  io.WriteCloser
	banner string

	lines  chan string
	prompt chan struct{}
	errc   chan error
}

// dialShell connects, starts a PTY shell and begins reading. The returned
// session must be closed by the caller.
func dialShell(ctx context.Context, host, username, password string, timeout time.Duration) (*shellSession, error) {
	addr := host
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "22")
	}

	cfg := &ssh.ClientConfig{
		User:            username,
		Auth:            []ssh.AuthMethod{ssh.Password(password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ssh handshake %s: %w", addr, err)
	}
	client := ssh.NewClient(sshConn, chans, reqs)

	s := &shellSession{
		client: client,
		banner: string(sshConn.ServerVersion()),
		lines:  make(chan string, 256),
		prompt: make(chan struct{}, 1),
		errc:   make(chan error, 1),
	}
	if err := s.start(); err != nil {
		client.Close()
		return nil, err
	}
	return s, nil
}

// start opens the PTY shell and launches the reader.
func (s *shellSession) start() error {
	sess, err := s.client.NewSession()
	if err != nil {
		return fmt.Errorf("new session: %w", err)
	}

	modes := ssh.TerminalModes{ssh.ECHO: 0}
	if err := sess.RequestPty("dumb", 24, 80, modes); err != nil {
		sess.Close()
		return fmt.Errorf("request pty: %w", err)
	}
	stdin, err := sess.StdinPipe()
	if err != nil {
		sess.Close()
		return fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := sess.StdoutPipe()
	if err != nil {
		sess.Close()
		return fmt.Errorf("stdout pipe: %w", err)
	}
	if err := sess.Shell(); err != nil {
		sess.Close()
		return fmt.Errorf("start shell: %w", err)
	}

	s.sess = sess
	s.stdin = stdin
	go s.read(stdout)
	return nil
}

// read splits stdout into lines. A prompt usually arrives without a trailing
// newline, so the buffer is matched on every byte, not just at line ends.
func (s *shellSession) read(stdout io.Reader) {
	reader := bufio.NewReader(stdout)
	var buf []byte
	for {
		b, err := reader.ReadByte()
		if err != nil {
			if err != io.EOF {
				select {
				case s.errc <- fmt.Errorf("read: %w", err):
				default:
				}
			}
			close(s.lines)
			return
		}
		buf = append(buf, b)

		if promptRegex.Match(buf) {
			select {
			case s.prompt <- struct{}{}:
			default:
			}
			buf = buf[:0]
			continue
		}
		if b == '\n' {
			s.lines <- strings.TrimRight(string(buf), "\r\n")
			buf = buf[:0]
		}
	}
}

// RunCommand sends one command and returns its output lines, collected until
// the next prompt. Output printed before the command (login banners, motd)
// is discarded.
func (s *shellSession) RunCommand(ctx context.Context, command string) ([]string, error) {
	select {
	case <-s.prompt:
	case err := <-s.errc:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.drain()

	if _, err := fmt.Fprintf(s.stdin, "%s\r", command); err != nil {
		return nil, fmt.Errorf("send %q: %w", command, err)
	}

	var out []string
	for {
		select {
		case line, ok := <-s.lines:
			if !ok {
				return out, fmt.Errorf("session closed while running %q", command)
			}
			// Devices echo the command even with ECHO off.
			if strings.TrimSpace(line) == command {
				continue
			}
			out = append(out, line)
		case <-s.prompt:
			// Keep the prompt armed for the next command.
			select {
			case s.prompt <- struct{}{}:
			default:
			}
			return out, nil
		case err := <-s.errc:
			return out, err
		case <-ctx.Done():
			return out, ctx.Err()
		}
	}
}

// drain discards buffered pre-command output.
func (s *shellSession) drain() {
	for {
		select {
		case <-s.lines:
		default:
			return
		}
	}
}

// Banner returns the SSH server version string presented at handshake.
func (s *shellSession) Banner() string {
	return s.banner
}

func (s *shellSession) Close() error {
	if s.stdin != nil {
		s.stdin.Close()
	}
	if s.sess != nil {
		s.sess.Close()
	}
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
