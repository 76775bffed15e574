//go:build !freebsd && !windows && !plan9

package sys

import (
	"reflect"

	"golang.org/x/sys/unix"
)

// The number of bits in one element of the Bits array differs between
// architectures, so compute it instead of hardcoding it.
var nFdBits = uint(reflect.TypeOf(unix.FdSet{}.Bits[0]).Size() * 8)

// FdSet is an fd_set for use with Select.
type FdSet unix.FdSet

func (fs *FdSet) s() *unix.FdSet {
	return (*unix.FdSet)(fs)
}

// NewFdSet returns an FdSet with the given fds set.
func NewFdSet(fds ...int) *FdSet {
	fs := &FdSet{}
	fs.Set(fds...)
	return fs
}

// Set adds fds to the set.
func (fs *FdSet) Set(fds ...int) {
	for _, fd := range fds {
		u := uint(fd)
		fs.Bits[u/nFdBits] |= 1 << (u % nFdBits)
	}
}

// Clear removes fds from the set.
func (fs *FdSet) Clear(fds ...int) {
	for _, fd := range fds {
		u := uint(fd)
		fs.Bits[u/nFdBits] &= ^(1 << (u % nFdBits))
	}
}

// IsSet reports whether fd is in the set.
func (fs *FdSet) IsSet(fd int) bool {
	u := uint(fd)
	return fs.Bits[u/nFdBits]&(1<<(u%nFdBits)) != 0
}

// Zero empties the set.
func (fs *FdSet) Zero() {
	*fs = FdSet{}
}
