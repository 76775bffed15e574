// On FreeBSD the only field of unix.FdSet is called X__fds_bits rather than
// Bits. C programs never see the difference because POSIX specifies macros
// for fd_set access, but since this package works on the auto-generated
// struct directly it needs a per-OS copy.

package sys

import (
	"reflect"

	"golang.org/x/sys/unix"
)

var nFdBits = uint(reflect.TypeOf(unix.FdSet{}.X__fds_bits[0]).Size() * 8)

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
		fs.X__fds_bits[u/nFdBits] |= 1 << (u % nFdBits)
	}
}

// Clear removes fds from the set.
func (fs *FdSet) Clear(fds ...int) {
	for _, fd := range fds {
		u := uint(fd)
		fs.X__fds_bits[u/nFdBits] &= ^(1 << (u % nFdBits))
	}
}

// IsSet reports whether fd is in the set.
func (fs *FdSet) IsSet(fd int) bool {
	u := uint(fd)
	return fs.X__fds_bits[u/nFdBits]&(1<<(u%nFdBits)) != 0
}

// Zero empties the set.
func (fs *FdSet) Zero() {
	*fs = FdSet{}
}
