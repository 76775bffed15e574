// Package supplier implements the atom supplier client, an interactive
// program that sends ADD commands to a running bar over TCP or a Unix
// stream socket and prints the replies.
package supplier

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"atombar.dev/pkg/logutil"
	"atombar.dev/pkg/prog"
)

var logger = logutil.GetLogger("[supplier] ")

// Program is the supplier subprogram, selected with -supply.
type Program struct {
	supply bool
	addr   *prog.ServerAddr
	stream string

	conn net.Conn
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.supply, "supply", false,
		"Run the atom supplier client instead of the server")
	fs.StringVar(&p.stream, "stream", "",
		"Unix stream socket to connect to instead of TCP (supplier mode)")
	p.addr = fs.ServerAddr()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if !p.supply {
		return prog.NextProgram()
	}
	if len(args) > 0 {
		return prog.BadUsage("arguments are not allowed in supplier mode")
	}
	if p.stream != "" && p.addr.Port != 0 {
		return prog.BadUsage("-stream and -port are mutually exclusive")
	}
	if p.stream == "" && p.addr.Port == 0 {
		return prog.BadUsage("supplier mode needs -port or -stream")
	}
	if p.stream == "" {
		conn, err := net.Dial("tcp",
			net.JoinHostPort(p.addr.Host, strconv.Itoa(p.addr.Port)))
		if err != nil {
			return err
		}
		defer conn.Close()
		logger.Printf("connected to %s", conn.RemoteAddr())
		p.conn = conn
	}

	in := bufio.NewScanner(fds[0])
	for in.Scan() {
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		reply, err := p.send(line)
		if err != nil {
			return err
		}
		fmt.Fprintln(fds[1], reply)
	}
	return in.Err()
}

// send performs one request-reply exchange. In stream mode each command
// gets a fresh connection; the server serves Unix stream clients one
// exchange at a time.
func (p *Program) send(line string) (string, error) {
	conn := p.conn
	if conn == nil {
		c, err := net.Dial("unix", p.stream)
		if err != nil {
			return "", err
		}
		defer c.Close()
		conn = c
	}
	if _, err := conn.Write([]byte(line + "\n")); err != nil {
		return "", fmt.Errorf("send: %w", err)
	}
	var buf [1024]byte
	n, err := conn.Read(buf[:])
	if err != nil {
		return "", fmt.Errorf("receive: %w", err)
	}
	return strings.TrimSuffix(string(buf[:n]), "\n"), nil
}
