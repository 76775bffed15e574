package proto

import (
	"path/filepath"
	"testing"

	"atombar.dev/pkg/inventory"
	"atombar.dev/pkg/must"
	"atombar.dev/pkg/persist"
)

type counts struct{ C, O, H uint64 }

func stockOf(c counts) *inventory.Stock {
	st := &inventory.Stock{}
	st.Restore(c.C, c.O, c.H)
	return st
}

func snapshot(st *inventory.Stock) counts {
	c, o, h := st.Snapshot()
	return counts{c, o, h}
}

func TestHandleAdd(t *testing.T) {
	tests := []struct {
		name  string
		start counts
		line  string
		want  string
		after counts
	}{
		{"add oxygen", counts{}, "ADD OXYGEN 5",
			"OK: Carbon=0 Oxygen=5 Hydrogen=0", counts{0, 5, 0}},
		{"add carbon with tabs", counts{}, "ADD\tCARBON\t7",
			"OK: Carbon=7 Oxygen=0 Hydrogen=0", counts{7, 0, 0}},
		{"trailing newline accepted", counts{}, "ADD HYDROGEN 1\n",
			"OK: Carbon=0 Oxygen=0 Hydrogen=1", counts{0, 0, 1}},
		{"empty line", counts{}, "", "ERROR: invalid command", counts{}},
		{"missing quantity", counts{}, "ADD CARBON", "ERROR: invalid command", counts{}},
		{"wrong command", counts{}, "SUB CARBON 1", "ERROR: invalid command", counts{}},
		{"trailing tokens ignored", counts{}, "ADD CARBON 5 junk",
			"OK: Carbon=5 Oxygen=0 Hydrogen=0", counts{5, 0, 0}},
		{"unknown atom", counts{1, 1, 1}, "ADD NEON 5", "ERROR: invalid atom type", counts{1, 1, 1}},
		{"lowercase atom", counts{}, "ADD carbon 5", "ERROR: invalid atom type", counts{}},
		{"garbage number", counts{}, "ADD CARBON 12x", "ERROR: invalid number", counts{}},
		{"negative number", counts{}, "ADD CARBON -1", "ERROR: invalid number", counts{}},
		{"number above ceiling", counts{}, "ADD CARBON 1000000000000000001",
			"ERROR: number too large", counts{}},
		{"number above uint64", counts{}, "ADD CARBON 99999999999999999999",
			"ERROR: number too large", counts{}},
		{"exactly at ceiling", counts{}, "ADD CARBON 1000000000000000000",
			"OK: Carbon=1000000000000000000 Oxygen=0 Hydrogen=0",
			counts{inventory.MaxAtoms, 0, 0}},
		{"capacity exceeded", counts{inventory.MaxAtoms, 0, 0}, "ADD CARBON 1",
			"ERROR: capacity exceeded", counts{inventory.MaxAtoms, 0, 0}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			st := stockOf(test.start)
			if got := HandleAdd(test.line, st, nil); got != test.want {
				t.Errorf("HandleAdd(%q) -> %q, want %q", test.line, got, test.want)
			}
			if got := snapshot(st); got != test.after {
				t.Errorf("stock after HandleAdd(%q) = %v, want %v", test.line, got, test.after)
			}
		})
	}
}

func TestHandleDeliver(t *testing.T) {
	tests := []struct {
		name  string
		start counts
		line  string
		want  string
		after counts
	}{
		{"water", counts{0, 5, 5}, "DELIVER WATER 1",
			"OK: Atoms left – Carbon=0 Oxygen=4 Hydrogen=3", counts{0, 4, 3}},
		{"carbon dioxide", counts{2, 4, 0}, "DELIVER CARBON DIOXIDE 2",
			"OK: Atoms left – Carbon=0 Oxygen=0 Hydrogen=0", counts{}},
		{"glucose", counts{6, 6, 12}, "DELIVER GLUCOSE 1",
			"OK: Atoms left – Carbon=0 Oxygen=0 Hydrogen=0", counts{}},
		{"alcohol", counts{4, 2, 12}, "DELIVER ALCOHOL 2",
			"OK: Atoms left – Carbon=0 Oxygen=0 Hydrogen=0", counts{}},
		{"zero always succeeds", counts{0, 0, 0}, "DELIVER GLUCOSE 0",
			"OK: Atoms left – Carbon=0 Oxygen=0 Hydrogen=0", counts{}},
		{"empty line", counts{}, "", "ERROR: invalid command", counts{}},
		{"bare command", counts{}, "DELIVER", "ERROR: invalid command", counts{}},
		{"wrong command", counts{}, "GIVE WATER 1", "ERROR: invalid command", counts{}},
		{"unknown molecule", counts{9, 9, 9}, "DELIVER HELIUM 1",
			"ERROR: invalid molecule type", counts{9, 9, 9}},
		{"carbon without dioxide", counts{9, 9, 9}, "DELIVER CARBON 1",
			"ERROR: invalid molecule type", counts{9, 9, 9}},
		{"carbon with wrong pair", counts{}, "DELIVER CARBON MONOXIDE 1",
			"ERROR: invalid molecule type", counts{}},
		{"missing number", counts{}, "DELIVER WATER", "ERROR: missing number", counts{}},
		{"missing number after pair", counts{}, "DELIVER CARBON DIOXIDE",
			"ERROR: missing number", counts{}},
		{"extra argument", counts{}, "DELIVER WATER 1 2", "ERROR: too many arguments", counts{}},
		{"garbage number", counts{}, "DELIVER WATER x", "ERROR: invalid number", counts{}},
		{"number above ceiling", counts{}, "DELIVER WATER 1000000000000000001",
			"ERROR: number too large", counts{}},
		{"not enough oxygen", counts{0, 0, 9}, "DELIVER WATER 1",
			"ERROR: not enough oxygen atoms", counts{0, 0, 9}},
		{"not enough hydrogen", counts{0, 9, 1}, "DELIVER WATER 1",
			"ERROR: not enough hydrogen atoms", counts{0, 9, 1}},
		{"not enough carbon", counts{5, 100, 100}, "DELIVER GLUCOSE 1",
			"ERROR: not enough carbon atoms", counts{5, 100, 100}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			st := stockOf(test.start)
			if got := HandleDeliver(test.line, st, nil); got != test.want {
				t.Errorf("HandleDeliver(%q) -> %q, want %q", test.line, got, test.want)
			}
			if got := snapshot(st); got != test.after {
				t.Errorf("stock after HandleDeliver(%q) = %v, want %v", test.line, got, test.after)
			}
		})
	}
}

// The exact exchange from the protocol documentation: build up some oxygen
// and hydrogen over ADD, then deliver one water.
func TestAddThenDeliverScenario(t *testing.T) {
	st := &inventory.Stock{}
	steps := []struct{ line, want string }{
		{"ADD OXYGEN 5", "OK: Carbon=0 Oxygen=5 Hydrogen=0"},
		{"ADD HYDROGEN 5", "OK: Carbon=0 Oxygen=5 Hydrogen=5"},
	}
	for _, step := range steps {
		if got := HandleAdd(step.line, st, nil); got != step.want {
			t.Fatalf("HandleAdd(%q) -> %q, want %q", step.line, got, step.want)
		}
	}
	want := "OK: Atoms left – Carbon=0 Oxygen=4 Hydrogen=3"
	if got := HandleDeliver("DELIVER WATER 1", st, nil); got != want {
		t.Errorf("HandleDeliver(WATER) -> %q, want %q", got, want)
	}
}

// Two delivers that together overdraw the stock: the first one's deduction
// must be fully honored and the second must fail cleanly.
func TestSequentialDeliversDoNotLoseUpdates(t *testing.T) {
	st := stockOf(counts{0, 9, 3})
	if got, want := HandleDeliver("DELIVER WATER 1", st, nil),
		"OK: Atoms left – Carbon=0 Oxygen=8 Hydrogen=1"; got != want {
		t.Fatalf("first DELIVER -> %q, want %q", got, want)
	}
	if got, want := HandleDeliver("DELIVER WATER 1", st, nil),
		"ERROR: not enough hydrogen atoms"; got != want {
		t.Errorf("second DELIVER -> %q, want %q", got, want)
	}
	if got := snapshot(st); got != (counts{0, 8, 1}) {
		t.Errorf("stock after both delivers = %v, want %v", got, counts{0, 8, 1})
	}
}

// With a store configured, a handler must observe mutations written to the
// snapshot file by someone else before parsing, and write its own mutation
// back afterwards.
func TestHandlersReloadAndSaveThroughStore(t *testing.T) {
	file := persist.NewFile(filepath.Join(t.TempDir(), "stock"))

	// Another process leaves 10 oxygen and 10 hydrogen in the file.
	other := stockOf(counts{0, 10, 10})
	must.OK(file.Save(other))

	// Our in-memory stock is stale and empty, but the reload must pick up
	// the other process's atoms before the command is parsed.
	st := &inventory.Stock{}
	if got, want := HandleDeliver("DELIVER WATER 1", st, file),
		"OK: Atoms left – Carbon=0 Oxygen=9 Hydrogen=8"; got != want {
		t.Fatalf("DELIVER with store -> %q, want %q", got, want)
	}

	// And the mutation must be on disk for the next process.
	reread := &inventory.Stock{}
	loaded := must.OK1(file.Load(reread))
	if !loaded {
		t.Fatalf("no snapshot on disk after a successful mutation")
	}
	if got := snapshot(reread); got != (counts{0, 9, 8}) {
		t.Errorf("stock on disk = %v, want %v", got, counts{0, 9, 8})
	}
}

// A rejected command must not save: the snapshot keeps the pre-command
// state.
func TestRejectedCommandDoesNotSave(t *testing.T) {
	file := persist.NewFile(filepath.Join(t.TempDir(), "stock"))
	st := &inventory.Stock{}
	must.OK(file.Init(st, 1, 2, 3))

	if got, want := HandleAdd("ADD NEON 5", st, file), "ERROR: invalid atom type"; got != want {
		t.Fatalf("HandleAdd -> %q, want %q", got, want)
	}
	reread := &inventory.Stock{}
	must.OK1(file.Load(reread))
	if got := snapshot(reread); got != (counts{1, 2, 3}) {
		t.Errorf("stock on disk = %v, want %v", got, counts{1, 2, 3})
	}
}
