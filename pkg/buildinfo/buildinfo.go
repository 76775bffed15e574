// Package buildinfo contains build information.
//
// Build information can be overridden during compilation by passing
// -ldflags "-X atombar.dev/pkg/buildinfo.VersionSuffix=value" to "go build".
package buildinfo

import (
	"fmt"
	"os"
	"runtime"

	"atombar.dev/pkg/prog"
)

// Version identifies the version of atombar. On development commits, it
// identifies the next release.
const Version = "v0.6.0"

// VersionSuffix is appended to Version to build the full version string.
var VersionSuffix = "-dev.unknown"

// Program is the buildinfo subprogram.
type Program struct {
	version, buildinfo bool
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.version, "version", false, "Output the version and quit")
	fs.BoolVar(&p.buildinfo, "buildinfo", false, "Output information about the build and quit")
}

func (p *Program) Run(fds [3]*os.File, _ []string) error {
	switch {
	case p.buildinfo:
		fmt.Fprintln(fds[1], "Version:", Version+VersionSuffix)
		fmt.Fprintln(fds[1], "Go version:", runtime.Version())
		return nil
	case p.version:
		fmt.Fprintln(fds[1], Version+VersionSuffix)
		return nil
	}
	return prog.NextProgram()
}
