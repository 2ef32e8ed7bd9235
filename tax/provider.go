package tax

import (
	"time"

	"github.com/shopspring/decimal"
)

// Provider resolves the table in force at a reference date: the one whose
// ValidFrom is the latest not after the date. Implementations return
// ErrMissingTaxTable when nothing is active.
type Provider interface {
	ActiveTable(kind Kind, reference time.Time) (BracketTable, error)
	// DependentDeduction is the per-dependent IRRF deduction configured for
	// the reference date.
	DependentDeduction(reference time.Time) (decimal.Decimal, error)
}
