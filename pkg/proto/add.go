package proto

import (
	"errors"
	"fmt"

	"atombar.dev/pkg/inventory"
)

var (
	errInvalidCommand  = errors.New("invalid command")
	errInvalidAtomType = errors.New("invalid atom type")
)

// HandleAdd runs one ADD exchange: "ADD <CARBON|OXYGEN|HYDROGEN> <uint>".
// Tokens beyond the third are ignored; only DELIVER polices trailing
// arguments. On success the reply reports the full post-mutation stock.
func HandleAdd(line string, st *inventory.Stock, store Store) string {
	reload(store, st)
	tokens := tokenize(line)
	if len(tokens) < 3 || tokens[0] != "ADD" {
		return errorReply(errInvalidCommand)
	}
	kind, ok := inventory.ParseKind(tokens[1])
	if !ok {
		return errorReply(errInvalidAtomType)
	}
	n, err := parseQuantity(tokens[2])
	if err != nil {
		return errorReply(err)
	}
	if err := st.TryAdd(kind, n); err != nil {
		return errorReply(err)
	}
	save(store, st)
	c, o, h := st.Snapshot()
	return fmt.Sprintf("OK: Carbon=%d Oxygen=%d Hydrogen=%d", c, o, h)
}
