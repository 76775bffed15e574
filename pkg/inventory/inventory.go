// Package inventory implements the shared atom counters and the arithmetic
// rules governing how they may change.
package inventory

import (
	"errors"
	"math"
)

// MaxAtoms is the ceiling for every counter and for any quantity accepted
// off the wire.
const MaxAtoms uint64 = 1e18

// Errors returned by TryAdd and TryConsume. Their messages are the reason
// part of the wire-level ERROR replies.
var (
	ErrNumberTooLarge       = errors.New("number too large")
	ErrCapacityExceeded     = errors.New("capacity exceeded")
	ErrInsufficientCarbon   = errors.New("not enough carbon atoms")
	ErrInsufficientOxygen   = errors.New("not enough oxygen atoms")
	ErrInsufficientHydrogen = errors.New("not enough hydrogen atoms")
)

// Kind identifies one of the three tracked atom kinds.
type Kind int

const (
	Carbon Kind = iota
	Oxygen
	Hydrogen
)

// String returns the wire spelling of the kind.
func (k Kind) String() string {
	switch k {
	case Carbon:
		return "CARBON"
	case Oxygen:
		return "OXYGEN"
	case Hydrogen:
		return "HYDROGEN"
	}
	return "unknown"
}

// ParseKind parses the wire spelling of an atom kind. Matching is
// case-sensitive.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "CARBON":
		return Carbon, true
	case "OXYGEN":
		return Oxygen, true
	case "HYDROGEN":
		return Hydrogen, true
	}
	return 0, false
}

// Stock holds the atom counters. Every counter is always in [0, MaxAtoms];
// all mutations go through TryAdd and TryConsume, which check the bound
// before touching anything. The zero value is an empty stock.
type Stock struct {
	carbon, oxygen, hydrogen uint64
}

func (s *Stock) counter(k Kind) *uint64 {
	switch k {
	case Carbon:
		return &s.carbon
	case Oxygen:
		return &s.oxygen
	}
	return &s.hydrogen
}

// TryAdd increases the counter for k by n. It fails with ErrNumberTooLarge
// if n alone exceeds MaxAtoms, and with ErrCapacityExceeded if the sum
// would; in both cases the stock is unchanged.
func (s *Stock) TryAdd(k Kind, n uint64) error {
	if n > MaxAtoms {
		return ErrNumberTooLarge
	}
	c := s.counter(k)
	if *c > MaxAtoms-n {
		return ErrCapacityExceeded
	}
	*c += n
	return nil
}

// TryConsume decreases all three counters by the given amounts, or none of
// them. Shortfalls are checked and reported in carbon, oxygen, hydrogen
// order.
func (s *Stock) TryConsume(c, o, h uint64) error {
	switch {
	case s.carbon < c:
		return ErrInsufficientCarbon
	case s.oxygen < o:
		return ErrInsufficientOxygen
	case s.hydrogen < h:
		return ErrInsufficientHydrogen
	}
	s.carbon -= c
	s.oxygen -= o
	s.hydrogen -= h
	return nil
}

// Snapshot returns the three counters.
func (s *Stock) Snapshot() (c, o, h uint64) {
	return s.carbon, s.oxygen, s.hydrogen
}

// Restore overwrites the three counters. It is the raw accessor used when
// loading a persisted snapshot and when applying startup defaults.
func (s *Stock) Restore(c, o, h uint64) {
	s.carbon, s.oxygen, s.hydrogen = c, o, h
}

// Available returns how many units of something needing c carbon, o oxygen
// and h hydrogen atoms apiece can be made from the stock. A zero divisor
// means the element imposes no constraint; with all divisors zero Available
// returns 0.
func (s *Stock) Available(c, o, h uint64) uint64 {
	n := uint64(math.MaxUint64)
	constrained := false
	if c > 0 {
		n = min(n, s.carbon/c)
		constrained = true
	}
	if o > 0 {
		n = min(n, s.oxygen/o)
		constrained = true
	}
	if h > 0 {
		n = min(n, s.hydrogen/h)
		constrained = true
	}
	if !constrained {
		return 0
	}
	return n
}
