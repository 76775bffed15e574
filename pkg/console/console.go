// Package console implements the operator's local GEN commands: read-only
// queries for how many drinks the current stock could make. Results are
// printed to the operator and never leave the process.
package console

import (
	"fmt"
	"strings"

	"atombar.dev/pkg/inventory"
	"atombar.dev/pkg/logutil"
	"atombar.dev/pkg/proto"
)

var logger = logutil.GetLogger("[console] ")

// drink holds the atoms needed per unit, in the order the recipes are
// conventionally written: carbon, hydrogen, oxygen.
type drink struct {
	carbon, hydrogen, oxygen uint64
}

var drinks = map[string]drink{
	"SOFT DRINK": {6, 14, 9},
	"VODKA":      {8, 20, 8},
	"CHAMPAGNE":  {3, 9, 4},
}

// Handle runs one console command: "GEN <VODKA|CHAMPAGNE|SOFT DRINK>". When
// a store is configured the stock is reloaded first, so the answer reflects
// mutations made by other processes; Handle itself never mutates and never
// saves.
func Handle(line string, st *inventory.Stock, store proto.Store) string {
	if store != nil {
		if _, err := store.Load(st); err != nil {
			logger.Printf("reload before console command: %v", err)
		}
	}
	tokens := strings.Fields(line)
	if len(tokens) == 0 || tokens[0] != "GEN" {
		return "ERROR: invalid console command"
	}
	rest := tokens[1:]
	if len(rest) == 0 {
		return "ERROR: missing drink type after GEN"
	}
	name := rest[0]
	if name == "SOFT" {
		if len(rest) < 2 || rest[1] != "DRINK" {
			return "ERROR: did you mean 'GEN SOFT DRINK'?"
		}
		name = "SOFT DRINK"
	}
	d, ok := drinks[name]
	if !ok {
		return fmt.Sprintf("ERROR: unknown drink type '%s'", name)
	}
	n := st.Available(d.carbon, d.oxygen, d.hydrogen)
	return fmt.Sprintf("You can make up to %d %s(s)", n, name)
}
