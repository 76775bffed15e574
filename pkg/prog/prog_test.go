package prog

import (
	"os"
	"strings"
	"testing"

	"atombar.dev/pkg/must"
)

// testProgram runs (or declines) according to its fields and records
// whether it ran.
type testProgram struct {
	decline bool
	err     error
	ran     bool
	flagVal string
}

func (p *testProgram) RegisterFlags(fs *FlagSet) {
	fs.StringVar(&p.flagVal, "test-flag", "", "a flag for the test program")
}

func (p *testProgram) Run(fds [3]*os.File, args []string) error {
	if p.decline {
		return NextProgram()
	}
	p.ran = true
	return p.err
}

func run(p Program, args ...string) (exit int, stderr string) {
	devNull := must.OK1(os.OpenFile(os.DevNull, os.O_RDWR, 0))
	defer devNull.Close()
	errFile := must.OK1(os.CreateTemp("", "atombar-test-stderr"))
	defer os.Remove(errFile.Name())
	defer errFile.Close()
	exit = Run([3]*os.File{devNull, devNull, errFile}, append([]string{"atombar"}, args...), p)
	return exit, string(must.ReadFile(errFile.Name()))
}

func TestCompositeRunsFirstSuitableProgram(t *testing.T) {
	first := &testProgram{decline: true}
	second := &testProgram{}
	third := &testProgram{}
	exit, _ := run(Composite(first, second, third))
	if exit != 0 {
		t.Errorf("exit = %v, want 0", exit)
	}
	if first.ran || !second.ran || third.ran {
		t.Errorf("ran = (%v, %v, %v), want (false, true, false)",
			first.ran, second.ran, third.ran)
	}
}

func TestBadUsageExitsWithTwoAndPrintsUsage(t *testing.T) {
	exit, stderr := run(&testProgram{err: BadUsage("need more atoms")})
	if exit != 2 {
		t.Errorf("exit = %v, want 2", exit)
	}
	if !strings.Contains(stderr, "need more atoms") || !strings.Contains(stderr, "Usage:") {
		t.Errorf("stderr = %q, want the message and the usage text", stderr)
	}
}

func TestExitPassesStatusThrough(t *testing.T) {
	if exit, _ := run(&testProgram{err: Exit(3)}); exit != 3 {
		t.Errorf("exit = %v, want 3", exit)
	}
	if Exit(0) != nil {
		t.Errorf("Exit(0) must be nil")
	}
}

func TestUndefinedFlagExitsWithTwo(t *testing.T) {
	exit, stderr := run(&testProgram{}, "-no-such-flag")
	if exit != 2 {
		t.Errorf("exit = %v, want 2", exit)
	}
	if !strings.Contains(stderr, "Usage:") {
		t.Errorf("stderr = %q, want usage text", stderr)
	}
}

func TestProgramFlagsAreParsed(t *testing.T) {
	p := &testProgram{}
	if exit, _ := run(p, "-test-flag", "value"); exit != 0 {
		t.Errorf("exit = %v, want 0", exit)
	}
	if p.flagVal != "value" {
		t.Errorf("flagVal = %q, want %q", p.flagVal, "value")
	}
}
