// Package proto implements the two request grammars of the server: ADD,
// spoken over the connection-oriented transports, and DELIVER, spoken over
// the connectionless ones. Each handler consumes exactly one request line
// and produces exactly one reply line (without the trailing newline; the
// transport layer appends it).
package proto

import (
	"errors"
	"strconv"
	"strings"

	"atombar.dev/pkg/inventory"
	"atombar.dev/pkg/logutil"
)

var logger = logutil.GetLogger("[proto] ")

// Store is the optional persistence hook consulted around every mutating
// command: Load right before parsing, to pick up mutations made by other
// processes sharing the snapshot file, and Save right after a successful
// mutation. A nil Store disables both.
type Store interface {
	Load(st *inventory.Stock) (loaded bool, err error)
	Save(st *inventory.Stock) error
}

var errInvalidNumber = errors.New("invalid number")

// parseQuantity parses a base-10 unsigned integer with no extra characters,
// capped at inventory.MaxAtoms. A syntactically valid number that overflows
// uint64 is over the cap a fortiori and is reported as too large.
func parseQuantity(tok string) (uint64, error) {
	n, err := strconv.ParseUint(tok, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, inventory.ErrNumberTooLarge
		}
		return 0, errInvalidNumber
	}
	if n > inventory.MaxAtoms {
		return 0, inventory.ErrNumberTooLarge
	}
	return n, nil
}

func errorReply(err error) string {
	return "ERROR: " + err.Error()
}

// tokenize splits a request line the way the protocol defines tokens:
// delimited by any run of whitespace, with line endings ignored.
func tokenize(line string) []string {
	return strings.Fields(line)
}

func reload(store Store, st *inventory.Stock) {
	if store == nil {
		return
	}
	if _, err := store.Load(st); err != nil {
		logger.Printf("reload before command: %v", err)
	}
}

func save(store Store, st *inventory.Stock) {
	if store == nil {
		return
	}
	if err := store.Save(st); err != nil {
		logger.Printf("save after command: %v", err)
	}
}
