package prog

import "flag"

// FlagSet wraps flag.FlagSet with accessors for flag groups shared between
// subprograms; each group is registered once no matter how many programs
// ask for it.
type FlagSet struct {
	*flag.FlagSet
	serverAddr *ServerAddr
}

// ServerAddr is the server address shared by the client subprograms.
type ServerAddr struct {
	Host string
	Port int
}

// ServerAddr returns the shared -host/-port flag group, registering it on
// first use.
func (fs *FlagSet) ServerAddr() *ServerAddr {
	if fs.serverAddr == nil {
		var addr ServerAddr
		fs.StringVar(&addr.Host, "host", "localhost",
			"Server host to connect to (client modes)")
		fs.IntVar(&addr.Port, "port", 0,
			"Server port to connect to (client modes)")
		fs.serverAddr = &addr
	}
	return fs.serverAddr
}
