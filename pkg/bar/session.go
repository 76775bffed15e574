package bar

// maxSessions matches the traditional fd_set limit; the select call cannot
// watch descriptors beyond it anyway.
const maxSessions = 1024

// sessionTable tracks the connection-oriented clients currently being
// served, one descriptor per slot.
type sessionTable struct {
	fds      [maxSessions]int
	occupied [maxSessions]bool
}

// add stores fd in a free slot and returns its index. When the table is
// full it reports ok = false and stores nothing; the caller is expected to
// drop the connection. Descriptors at or above maxSessions get the same
// treatment: select cannot watch them, so admitting one would blow up the
// next fd_set build.
func (t *sessionTable) add(fd int) (slot int, ok bool) {
	if fd >= maxSessions {
		return 0, false
	}
	for i := range t.fds {
		if !t.occupied[i] {
			t.fds[i] = fd
			t.occupied[i] = true
			return i, true
		}
	}
	return 0, false
}

// remove frees the slot. Closing the descriptor is the caller's business.
func (t *sessionTable) remove(slot int) {
	t.occupied[slot] = false
}

// each calls f for every occupied slot. Removing the slot being visited is
// allowed.
func (t *sessionTable) each(f func(slot, fd int)) {
	for i := range t.fds {
		if t.occupied[i] {
			f(i, t.fds[i])
		}
	}
}

func (t *sessionTable) len() int {
	n := 0
	for _, occupied := range t.occupied {
		if occupied {
			n++
		}
	}
	return n
}
