package sys

import (
	"testing"
	"time"

	"atombar.dev/pkg/must"
)

func TestSelect(t *testing.T) {
	r, w := must.Pipe()
	defer r.Close()
	defer w.Close()
	rfd := int(r.Fd())

	fs := NewFdSet(rfd)
	n, err := Select(rfd+1, fs, nil, nil, 10*time.Millisecond)
	if n != 0 || err != nil {
		t.Errorf("Select with nothing to read -> (%v, %v), want (0, <nil>)", n, err)
	}

	must.OK1(w.WriteString("x"))
	fs = NewFdSet(rfd)
	n, err = Select(rfd+1, fs, nil, nil, time.Second)
	if n != 1 || err != nil {
		t.Errorf("Select with data to read -> (%v, %v), want (1, <nil>)", n, err)
	}
	if !fs.IsSet(rfd) {
		t.Errorf("pipe read end not in ready set after Select")
	}
}

func TestFdSet(t *testing.T) {
	fs := NewFdSet(3, 65)
	for _, fd := range []int{3, 65} {
		if !fs.IsSet(fd) {
			t.Errorf("IsSet(%v) -> false, want true", fd)
		}
	}
	if fs.IsSet(4) {
		t.Errorf("IsSet(4) -> true, want false")
	}
	fs.Clear(65)
	if fs.IsSet(65) {
		t.Errorf("IsSet(65) after Clear -> true, want false")
	}
	fs.Zero()
	if fs.IsSet(3) {
		t.Errorf("IsSet(3) after Zero -> true, want false")
	}
}
