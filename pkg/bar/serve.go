package bar

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"atombar.dev/pkg/console"
	"atombar.dev/pkg/inventory"
	"atombar.dev/pkg/persist"
	"atombar.dev/pkg/proto"
	"atombar.dev/pkg/sys"
)

// bufSize bounds every read; one request is one read's worth of bytes.
const bufSize = 1024

// server is the state of one running bar: the stock, the optional snapshot
// file, the listening and special descriptors, and the session table. All
// of it is owned by the single goroutine running the event loop.
type server struct {
	cfg      *Config
	stock    *inventory.Stock
	store    proto.Store
	sessions sessionTable

	tcpFD, udpFD      int
	streamFD, dgramFD int

	console   *os.File
	consoleFD int
	out       io.Writer
}

// newServer initializes the stock (from the snapshot file if one is
// configured and holds prior state) and binds every configured transport.
// Any failure here is startup-fatal.
func newServer(cfg *Config, fds [3]*os.File) (*server, error) {
	stock := &inventory.Stock{}
	stock.Restore(cfg.InitialCarbon, cfg.InitialOxygen, cfg.InitialHydrogen)
	var store proto.Store
	if cfg.SaveFile != "" {
		file := persist.NewFile(cfg.SaveFile)
		if err := file.Init(stock, cfg.InitialCarbon, cfg.InitialOxygen, cfg.InitialHydrogen); err != nil {
			return nil, err
		}
		store = file
	}

	s := &server{
		cfg: cfg, stock: stock, store: store,
		tcpFD: -1, udpFD: -1, streamFD: -1, dgramFD: -1,
		console: fds[0], consoleFD: int(fds[0].Fd()), out: fds[1],
	}
	var err error
	if s.tcpFD, err = listenTCP(cfg.TCPPort); err != nil {
		s.close()
		return nil, err
	}
	logger.Printf("listening on tcp port %d", cfg.TCPPort)
	if s.udpFD, err = bindUDP(cfg.UDPPort); err != nil {
		s.close()
		return nil, err
	}
	logger.Printf("bound udp port %d", cfg.UDPPort)
	if cfg.StreamPath != "" {
		if s.streamFD, err = listenUnix(cfg.StreamPath); err != nil {
			s.close()
			return nil, err
		}
		logger.Printf("listening on unix stream socket %s", cfg.StreamPath)
	}
	if cfg.DgramPath != "" {
		if s.dgramFD, err = bindUnixgram(cfg.DgramPath); err != nil {
			s.close()
			return nil, err
		}
		logger.Printf("bound unix dgram socket %s", cfg.DgramPath)
	}
	return s, nil
}

// close releases every descriptor the server holds and removes the Unix
// socket files it created. It is safe to call more than once.
func (s *server) close() {
	for _, fd := range []*int{&s.tcpFD, &s.udpFD} {
		if *fd >= 0 {
			unix.Close(*fd)
			*fd = -1
		}
	}
	if s.streamFD >= 0 {
		unix.Close(s.streamFD)
		s.streamFD = -1
		os.Remove(s.cfg.StreamPath)
	}
	if s.dgramFD >= 0 {
		unix.Close(s.dgramFD)
		s.dgramFD = -1
		os.Remove(s.cfg.DgramPath)
	}
	s.sessions.each(func(slot, fd int) {
		unix.Close(fd)
		s.sessions.remove(slot)
	})
}

// banner prints the interactive help when the console is a terminal.
func (s *server) banner() {
	if !sys.IsATTY(s.console.Fd()) {
		return
	}
	fmt.Fprintln(s.out, "=== atombar ready ===")
	fmt.Fprintln(s.out, "Console commands:")
	fmt.Fprintln(s.out, "  GEN SOFT DRINK")
	fmt.Fprintln(s.out, "  GEN VODKA")
	fmt.Fprintln(s.out, "  GEN CHAMPAGNE")
	c, o, h := s.stock.Snapshot()
	fmt.Fprintf(s.out, "Inventory: Carbon=%d Oxygen=%d Hydrogen=%d\n", c, o, h)
}

// run is the event loop. It returns nil on a graceful shutdown — console
// closed or inactivity timeout — and an error only for failures of the
// select call itself.
func (s *server) run() error {
	s.banner()
	timeout := time.Duration(s.cfg.Timeout) * time.Second
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	for {
		fds := sys.NewFdSet(s.tcpFD, s.udpFD, s.consoleFD)
		maxFD := max(s.tcpFD, s.udpFD, s.consoleFD)
		if s.streamFD >= 0 {
			fds.Set(s.streamFD)
			maxFD = max(maxFD, s.streamFD)
		}
		if s.dgramFD >= 0 {
			fds.Set(s.dgramFD)
			maxFD = max(maxFD, s.dgramFD)
		}
		s.sessions.each(func(_, fd int) {
			fds.Set(fd)
			maxFD = max(maxFD, fd)
		})

		wait := time.Duration(-1)
		if !deadline.IsZero() {
			wait = max(time.Until(deadline), 0)
		}
		n, err := sys.Select(maxFD+1, fds, nil, nil, wait)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				// A signal interrupted the wait; nothing is ready.
				continue
			}
			return fmt.Errorf("select: %w", err)
		}
		if n == 0 {
			if !deadline.IsZero() && !time.Now().Before(deadline) {
				fmt.Fprintf(s.out, "TIMEOUT: no activity for %d seconds. Shutting down.\n",
					s.cfg.Timeout)
				logger.Printf("inactivity timeout after %v", timeout)
				return nil
			}
			continue
		}

		active := false
		if fds.IsSet(s.tcpFD) {
			s.acceptTCP()
			active = true
		}
		if fds.IsSet(s.udpFD) {
			s.handleDatagram(s.udpFD)
			active = true
		}
		s.sessions.each(func(slot, fd int) {
			if fds.IsSet(fd) {
				s.handleSession(slot, fd)
				active = true
			}
		})
		if s.streamFD >= 0 && fds.IsSet(s.streamFD) {
			s.acceptStream()
			active = true
		}
		if s.dgramFD >= 0 && fds.IsSet(s.dgramFD) {
			s.handleDatagram(s.dgramFD)
			active = true
		}
		if fds.IsSet(s.consoleFD) {
			active = true
			if eof := s.handleConsole(); eof {
				fmt.Fprintln(s.out, "Console closed – exiting.")
				logger.Printf("console closed, shutting down")
				return nil
			}
		}
		if active && timeout > 0 {
			deadline = time.Now().Add(timeout)
		}
	}
}

func (s *server) acceptTCP() {
	fd, sa, err := unix.Accept(s.tcpFD)
	if err != nil {
		logger.Printf("accept (tcp): %v", err)
		return
	}
	slot, ok := s.sessions.add(fd)
	if !ok {
		// Deliberate policy: accept, then drop when the table is full.
		logger.Printf("session table full; dropping new tcp client")
		unix.Close(fd)
		return
	}
	if sa, ok := sa.(*unix.SockaddrInet4); ok {
		logger.Printf("new tcp client from %s in slot %d", net.IP(sa.Addr[:]), slot)
	}
}

// handleSession serves one ADD exchange on a TCP session. The session stays
// in the table afterwards for further commands; it is torn down on a clean
// close or any read or write error.
func (s *server) handleSession(slot, fd int) {
	var buf [bufSize]byte
	n, err := unix.Read(fd, buf[:])
	if n <= 0 {
		if err != nil {
			logger.Printf("read from session %d: %v", slot, err)
		}
		s.dropSession(slot, fd)
		return
	}
	reply := proto.HandleAdd(string(buf[:n]), s.stock, s.store)
	logger.Printf("session %d: %s", slot, reply)
	if _, err := unix.Write(fd, []byte(reply+"\n")); err != nil {
		logger.Printf("write to session %d: %v", slot, err)
		s.dropSession(slot, fd)
	}
}

func (s *server) dropSession(slot, fd int) {
	s.sessions.remove(slot)
	unix.Close(fd)
	logger.Printf("session %d closed", slot)
}

// acceptStream serves one ADD exchange on a freshly accepted Unix-stream
// connection and closes it. Unlike TCP clients, these connections never
// enter the session table.
func (s *server) acceptStream() {
	fd, _, err := unix.Accept(s.streamFD)
	if err != nil {
		logger.Printf("accept (unix stream): %v", err)
		return
	}
	defer unix.Close(fd)
	var buf [bufSize]byte
	n, err := unix.Read(fd, buf[:])
	if n <= 0 {
		if err != nil {
			logger.Printf("read (unix stream): %v", err)
		}
		return
	}
	reply := proto.HandleAdd(string(buf[:n]), s.stock, s.store)
	logger.Printf("unix stream: %s", reply)
	if _, err := unix.Write(fd, []byte(reply+"\n")); err != nil {
		logger.Printf("write (unix stream): %v", err)
	}
}

// handleDatagram receives one datagram, runs the DELIVER grammar over it,
// and sends exactly one reply datagram back to the originating peer.
func (s *server) handleDatagram(fd int) {
	var buf [bufSize]byte
	n, from, err := unix.Recvfrom(fd, buf[:], 0)
	if err != nil {
		logger.Printf("recvfrom: %v", err)
		return
	}
	reply := proto.HandleDeliver(string(buf[:n]), s.stock, s.store)
	logger.Printf("datagram: %s", reply)
	if err := unix.Sendto(fd, []byte(reply+"\n"), 0, from); err != nil {
		logger.Printf("sendto: %v", err)
	}
}

// handleConsole consumes what the operator typed. A terminal delivers one
// line per read; a paste may carry several, and each is handled in turn.
func (s *server) handleConsole() (eof bool) {
	var buf [bufSize]byte
	n, err := unix.Read(s.consoleFD, buf[:])
	if n <= 0 {
		if err != nil {
			logger.Printf("read console: %v", err)
		}
		return true
	}
	for _, line := range strings.Split(strings.TrimRight(string(buf[:n]), "\n"), "\n") {
		fmt.Fprintln(s.out, console.Handle(line, s.stock, s.store))
	}
	return false
}
