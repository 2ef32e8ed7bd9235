package tax

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindINSS Kind = "INSS"
	KindIRRF Kind = "IRRF"
)

var (
	// ErrMissingTaxTable means no table is active for the reference date.
	// Callers may proceed without an estimate; the calculator never guesses.
	ErrMissingTaxTable = errors.New("tax: no active bracket table for reference date")

	ErrInvalidTable = errors.New("tax: invalid bracket table")
)

// Bracket is one row of a progressive table. UpTo is the inclusive upper
// limit of the bracket; nil marks the unbounded last bracket. Deduction is
// the "parcela a deduzir" used by the IRRF marginal shortcut.
type Bracket struct {
	UpTo      *decimal.Decimal
	Rate      decimal.Decimal
	Deduction decimal.Decimal
}

// BracketTable is an ordered progressive-rate table valid from a given date.
type BracketTable struct {
	Kind      Kind
	ValidFrom time.Time
	Brackets  []Bracket
}

// Validate enforces the table invariants: at least one bracket, brackets
// sorted ascending by upper limit, exactly one unbounded bracket in last
// position, and rates monotonically non-decreasing.
func (t BracketTable) Validate() error {
	if len(t.Brackets) == 0 {
		return ErrInvalidTable
	}
	var prevUpTo *decimal.Decimal
	var prevRate decimal.Decimal
	for i, b := range t.Brackets {
		last := i == len(t.Brackets)-1
		if b.UpTo == nil && !last {
			return ErrInvalidTable
		}
		if last && b.UpTo != nil {
			return ErrInvalidTable
		}
		if b.UpTo != nil {
			if prevUpTo != nil && !b.UpTo.GreaterThan(*prevUpTo) {
				return ErrInvalidTable
			}
			prevUpTo = b.UpTo
		}
		if i > 0 && b.Rate.LessThan(prevRate) {
			return ErrInvalidTable
		}
		prevRate = b.Rate
	}
	return nil
}

// match returns the bracket whose inclusive upper limit is the smallest one
// >= base. The unbounded last bracket always matches.
func (t BracketTable) match(base decimal.Decimal) Bracket {
	for _, b := range t.Brackets {
		if b.UpTo == nil || base.LessThanOrEqual(*b.UpTo) {
			return b
		}
	}
	return t.Brackets[len(t.Brackets)-1]
}

// ceiling returns the upper limit of the last bounded bracket, when the
// table has one. Contributions above it are capped under the INSS policy.
func (t BracketTable) ceiling() (decimal.Decimal, bool) {
	if len(t.Brackets) < 2 {
		return decimal.Decimal{}, false
	}
	c := t.Brackets[len(t.Brackets)-2].UpTo
	if c == nil {
		return decimal.Decimal{}, false
	}
	return *c, true
}
