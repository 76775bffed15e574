// Command atombar is the drinks bar server and its two clients in a single
// binary. Without a mode flag it runs the server; -supply and -request
// select the atom supplier and molecule requester clients.
package main

import (
	"os"

	"atombar.dev/pkg/bar"
	"atombar.dev/pkg/buildinfo"
	"atombar.dev/pkg/prog"
	"atombar.dev/pkg/requester"
	"atombar.dev/pkg/supplier"
)

func main() {
	os.Exit(prog.Run([3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(
			&buildinfo.Program{},
			&supplier.Program{},
			&requester.Program{},
			&bar.Program{},
		)))
}
