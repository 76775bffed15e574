// Package persist mirrors the inventory to a flat snapshot file that may be
// shared with other server processes.
//
// The consistency discipline is deliberately crude: mutating commands reload
// the file right before parsing and save right after applying, and only the
// save itself holds the file's exclusive advisory lock. A reload and the
// following save are two separate lock spans, so two processes interleaving
// a read-modify-write can still lose an update. That is a documented
// limitation of the snapshot scheme, not something this package tries to
// fix.
package persist

import (
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"atombar.dev/pkg/inventory"
	"atombar.dev/pkg/logutil"
)

var logger = logutil.GetLogger("[persist] ")

// recordSize is the size of the snapshot record: three little-endian uint64
// counters in the order carbon, oxygen, hydrogen. There is no header or
// version field.
const recordSize = 24

// File is a snapshot file at a fixed path.
type File struct {
	path string
}

// NewFile returns a File for the given path. Nothing is touched on disk
// until Init, Load or Save is called.
func NewFile(path string) *File {
	return &File{path}
}

// Path returns the file's path.
func (f *File) Path() string {
	return f.path
}

// Init establishes the startup state: if the file already holds a full
// record, it is loaded into st; otherwise st is set to the given defaults
// and written out as the initial snapshot.
func (f *File) Init(st *inventory.Stock, c, o, h uint64) error {
	loaded, err := f.Load(st)
	if err != nil {
		return err
	}
	if loaded {
		return nil
	}
	st.Restore(c, o, h)
	return f.Save(st)
}

// Load reads the snapshot into st. A file that does not exist or is shorter
// than one full record holds no snapshot: st is left alone and Load reports
// loaded = false.
func (f *File) Load(st *inventory.Stock) (loaded bool, err error) {
	buf, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("load snapshot %s: %w", f.path, err)
	}
	if len(buf) < recordSize {
		return false, nil
	}
	st.Restore(
		binary.LittleEndian.Uint64(buf[0:8]),
		binary.LittleEndian.Uint64(buf[8:16]),
		binary.LittleEndian.Uint64(buf[16:24]))
	return true, nil
}

// Save writes st as the snapshot, holding the file's exclusive advisory
// lock for the duration of the write. Failure to take the lock is logged
// and the write proceeds anyway.
func (f *File) Save(st *inventory.Stock) error {
	file, err := os.OpenFile(f.path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", f.path, err)
	}
	defer file.Close()

	fd := int(file.Fd())
	locked := true
	if err := unix.Flock(fd, unix.LOCK_EX); err != nil {
		logger.Printf("flock %s: %v; writing without the lock", f.path, err)
		locked = false
	}

	c, o, h := st.Snapshot()
	var buf [recordSize]byte
	binary.LittleEndian.PutUint64(buf[0:8], c)
	binary.LittleEndian.PutUint64(buf[8:16], o)
	binary.LittleEndian.PutUint64(buf[16:24], h)
	_, werr := file.WriteAt(buf[:], 0)

	if locked {
		if err := unix.Flock(fd, unix.LOCK_UN); err != nil {
			logger.Printf("unlock %s: %v", f.path, err)
		}
	}
	if werr != nil {
		return fmt.Errorf("save snapshot %s: %w", f.path, werr)
	}
	return nil
}
