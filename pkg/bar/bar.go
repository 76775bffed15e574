// Package bar implements the drinks bar server: a single select-driven
// event loop serving ADD commands over TCP and Unix-stream sockets, DELIVER
// commands over UDP and Unix-datagram sockets, and GEN queries on the local
// console, all against one shared atom inventory.
package bar

import (
	"flag"
	"os"

	"atombar.dev/pkg/logutil"
	"atombar.dev/pkg/prog"
)

var logger = logutil.GetLogger("[bar] ")

// Program is the server subprogram. It is the default program of the
// atombar binary: unlike the client subprograms it never declines to run.
type Program struct {
	fs         *prog.FlagSet
	flagCfg    Config
	configPath string
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	p.fs = fs
	fs.Uint64Var(&p.flagCfg.InitialCarbon, "carbon", 0, "Initial number of carbon atoms")
	fs.Uint64Var(&p.flagCfg.InitialOxygen, "oxygen", 0, "Initial number of oxygen atoms")
	fs.Uint64Var(&p.flagCfg.InitialHydrogen, "hydrogen", 0, "Initial number of hydrogen atoms")
	fs.IntVar(&p.flagCfg.TCPPort, "tcp-port", 0, "TCP port to listen on for ADD commands")
	fs.IntVar(&p.flagCfg.UDPPort, "udp-port", 0, "UDP port to listen on for DELIVER commands")
	fs.IntVar(&p.flagCfg.Timeout, "timeout", 0,
		"Shut down after this many seconds without activity (0 = never)")
	fs.StringVar(&p.flagCfg.StreamPath, "stream-path", "",
		"Also serve ADD commands on a Unix stream socket at this path")
	fs.StringVar(&p.flagCfg.DgramPath, "datagram-path", "",
		"Also serve DELIVER commands on a Unix datagram socket at this path")
	fs.StringVar(&p.flagCfg.SaveFile, "save-file", "",
		"File to persist the inventory in, shared with other server processes")
	fs.StringVar(&p.configPath, "config", "",
		"YAML file with the same settings as the server flags; explicit flags win")
}

// config assembles the effective configuration: the config file, if any,
// overlaid with every flag set explicitly on the command line.
func (p *Program) config() (*Config, error) {
	cfg := p.flagCfg
	if p.configPath != "" {
		fileCfg, err := readConfigFile(p.configPath)
		if err != nil {
			return nil, err
		}
		merged := *fileCfg
		p.fs.Visit(func(f *flag.Flag) {
			copyFlagValue(&merged, &p.flagCfg, f.Name)
		})
		cfg = merged
	}
	if err := cfg.validate(); err != nil {
		return nil, prog.BadUsage(err.Error())
	}
	return &cfg, nil
}

func copyFlagValue(dst, src *Config, name string) {
	switch name {
	case "carbon":
		dst.InitialCarbon = src.InitialCarbon
	case "oxygen":
		dst.InitialOxygen = src.InitialOxygen
	case "hydrogen":
		dst.InitialHydrogen = src.InitialHydrogen
	case "tcp-port":
		dst.TCPPort = src.TCPPort
	case "udp-port":
		dst.UDPPort = src.UDPPort
	case "timeout":
		dst.Timeout = src.Timeout
	case "stream-path":
		dst.StreamPath = src.StreamPath
	case "datagram-path":
		dst.DgramPath = src.DgramPath
	case "save-file":
		dst.SaveFile = src.SaveFile
	}
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if len(args) > 0 {
		return prog.BadUsage("arguments are not allowed when running the server")
	}
	cfg, err := p.config()
	if err != nil {
		return err
	}
	s, err := newServer(cfg, fds)
	if err != nil {
		return err
	}
	defer s.close()
	return s.run()
}
