package proto

import (
	"errors"
	"fmt"
	"math"

	"atombar.dev/pkg/inventory"
)

var (
	errInvalidMolecule = errors.New("invalid molecule type")
	errMissingNumber   = errors.New("missing number")
	errTooManyArgs     = errors.New("too many arguments")
)

// recipe is the number of atoms consumed per unit of a deliverable molecule.
type recipe struct {
	carbon, oxygen, hydrogen uint64
}

var recipes = map[string]recipe{
	"WATER":          {0, 1, 2},
	"CARBON DIOXIDE": {1, 2, 0},
	"GLUCOSE":        {6, 6, 12},
	"ALCOHOL":        {2, 1, 6},
}

// HandleDeliver runs one DELIVER exchange:
// "DELIVER <WATER|GLUCOSE|ALCOHOL|CARBON DIOXIDE> <uint>". A quantity of
// zero is valid and always succeeds. On success the reply reports the full
// post-mutation stock.
func HandleDeliver(line string, st *inventory.Stock, store Store) string {
	reload(store, st)
	tokens := tokenize(line)
	if len(tokens) < 2 {
		return errorReply(errInvalidCommand)
	}
	if tokens[0] != "DELIVER" {
		return errorReply(errInvalidCommand)
	}
	molecule, rest := tokens[1], tokens[2:]
	if molecule == "CARBON" {
		// The only two-token molecule name.
		if len(rest) == 0 || rest[0] != "DIOXIDE" {
			return errorReply(errInvalidMolecule)
		}
		molecule, rest = "CARBON DIOXIDE", rest[1:]
	}
	r, ok := recipes[molecule]
	if !ok {
		return errorReply(errInvalidMolecule)
	}
	if len(rest) == 0 {
		return errorReply(errMissingNumber)
	}
	if len(rest) > 1 {
		return errorReply(errTooManyArgs)
	}
	n, err := parseQuantity(rest[0])
	if err != nil {
		return errorReply(err)
	}

	needC, okC := times(r.carbon, n)
	needO, okO := times(r.oxygen, n)
	needH, okH := times(r.hydrogen, n)
	if !okC || !okO || !okH {
		return errorReply(inventory.ErrNumberTooLarge)
	}
	if err := st.TryConsume(needC, needO, needH); err != nil {
		return errorReply(err)
	}
	save(store, st)
	c, o, h := st.Snapshot()
	return fmt.Sprintf("OK: Atoms left – Carbon=%d Oxygen=%d Hydrogen=%d", c, o, h)
}

// times is per*n guarded against uint64 wraparound. Quantities are already
// capped at MaxAtoms, but a per-element requirement of a large recipe can
// still overflow; that must surface as an error, not wrap silently.
func times(per, n uint64) (uint64, bool) {
	if per != 0 && n > math.MaxUint64/per {
		return 0, false
	}
	return per * n, true
}
