// Package prog provides the entry point to atombar. The packages
// implementing its subprograms — the bar server and the two clients — each
// expose a Program that plugs into Run via Composite.
package prog

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"atombar.dev/pkg/logutil"
)

// Program represents a subprogram.
type Program interface {
	// RegisterFlags registers the subprogram's flags.
	RegisterFlags(fs *FlagSet)
	// Run runs the subprogram. A program that decides it is not the one
	// being invoked returns NextProgram() so that the next program in a
	// Composite gets a chance.
	Run(fds [3]*os.File, args []string) error
}

func usage(out io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(out, "Usage: atombar [flags]")
	fmt.Fprintln(out, "Supported flags:")
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// Run parses command-line flags and runs the program, handling the flags
// and the special error values shared by all subprograms. It returns the
// exit status of the process.
func Run(fds [3]*os.File, args []string, p Program) int {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	// Error and usage will be printed explicitly.
	fs.SetOutput(io.Discard)

	var logPath string
	var help bool
	fs.StringVar(&logPath, "log", "", "path to a file to write debug logs")
	fs.BoolVar(&help, "help", false, "show usage help and quit")

	wrapped := &FlagSet{FlagSet: fs}
	p.RegisterFlags(wrapped)

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			// -h is not defined; flag.Parse reports it via ErrHelp. Print
			// the same message as for any other undefined flag.
			fmt.Fprintln(fds[2], "flag provided but not defined: -h")
		} else {
			fmt.Fprintln(fds[2], err)
		}
		usage(fds[2], fs)
		return 2
	}

	if logPath != "" {
		if err := logutil.SetOutputFile(logPath); err != nil {
			fmt.Fprintln(fds[2], err)
		}
	}

	if help {
		usage(fds[1], fs)
		return 0
	}

	err := p.Run(fds, fs.Args())
	if err == nil {
		return 0
	}
	if err == errNextProgram {
		err = errNoSuitableSubprogram
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(fds[2], msg)
	}
	switch err := err.(type) {
	case badUsageError:
		usage(fds[2], fs)
	case exitError:
		return err.exit
	}
	return 2
}

// Composite returns a Program that tries each of the given programs in
// order, running the first one that doesn't return NextProgram().
func Composite(programs ...Program) Program {
	return compositeProgram(programs)
}

type compositeProgram []Program

func (cp compositeProgram) RegisterFlags(fs *FlagSet) {
	for _, p := range cp {
		p.RegisterFlags(fs)
	}
}

func (cp compositeProgram) Run(fds [3]*os.File, args []string) error {
	for _, p := range cp {
		err := p.Run(fds, args)
		if err != errNextProgram {
			return err
		}
	}
	return errNextProgram
}

var (
	errNextProgram          = errors.New("next program")
	errNoSuitableSubprogram = errors.New("internal error: no suitable subprogram")
)

// NextProgram returns the error that a Program returns to decline running,
// handing over to the next program of a Composite.
func NextProgram() error { return errNextProgram }

// BadUsage returns a special error that may be returned by Program.Run. It
// causes the main function to print out a message, the usage information
// and exit with 2.
func BadUsage(msg string) error { return badUsageError{msg} }

type badUsageError struct{ msg string }

func (e badUsageError) Error() string { return e.msg }

// Exit returns a special error that may be returned by Program.Run. It
// causes the main function to exit with the given code without printing any
// error messages. Exit(0) returns nil.
func Exit(exit int) error {
	if exit == 0 {
		return nil
	}
	return exitError{exit}
}

type exitError struct{ exit int }

func (e exitError) Error() string { return "" }
