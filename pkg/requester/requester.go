// Package requester implements the molecule requester client, an
// interactive program that sends DELIVER commands to a running bar over
// UDP or a Unix datagram socket and prints the replies.
package requester

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"atombar.dev/pkg/logutil"
	"atombar.dev/pkg/prog"
)

var logger = logutil.GetLogger("[requester] ")

// Program is the requester subprogram, selected with -request.
type Program struct {
	request bool
	addr    *prog.ServerAddr
	dgram   string
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.request, "request", false,
		"Run the molecule requester client instead of the server")
	fs.StringVar(&p.dgram, "dgram", "",
		"Unix datagram socket to send to instead of UDP (requester mode)")
	p.addr = fs.ServerAddr()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if !p.request {
		return prog.NextProgram()
	}
	if len(args) > 0 {
		return prog.BadUsage("arguments are not allowed in requester mode")
	}
	if p.dgram != "" && p.addr.Port != 0 {
		return prog.BadUsage("-dgram and -port are mutually exclusive")
	}

	var conn net.Conn
	switch {
	case p.dgram != "":
		// A datagram client binds its own socket so the server has an
		// address to reply to.
		dir, err := os.MkdirTemp("", "atombar-requester-*")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)
		laddr := &net.UnixAddr{Name: filepath.Join(dir, "requester.sock"), Net: "unixgram"}
		raddr := &net.UnixAddr{Name: p.dgram, Net: "unixgram"}
		conn, err = net.DialUnix("unixgram", laddr, raddr)
		if err != nil {
			return err
		}
	case p.addr.Port != 0:
		var err error
		conn, err = net.Dial("udp",
			net.JoinHostPort(p.addr.Host, strconv.Itoa(p.addr.Port)))
		if err != nil {
			return err
		}
	default:
		return prog.BadUsage("requester mode needs -port or -dgram")
	}
	defer conn.Close()
	logger.Printf("sending to %s", conn.RemoteAddr())

	in := bufio.NewScanner(fds[0])
	for in.Scan() {
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		if _, err := conn.Write([]byte(line + "\n")); err != nil {
			return fmt.Errorf("send: %w", err)
		}
		var buf [1024]byte
		n, err := conn.Read(buf[:])
		if err != nil {
			return fmt.Errorf("receive: %w", err)
		}
		fmt.Fprint(fds[1], string(buf[:n]))
	}
	return in.Err()
}
