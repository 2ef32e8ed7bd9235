package tax

import "github.com/shopspring/decimal"

// Result is the outcome of one withholding computation. Tax is rounded
// half-up to 2 decimal places; EffectiveRate is tax over the original base,
// at 4 decimal places.
type Result struct {
	Tax           decimal.Decimal `json:"tax"`
	EffectiveRate decimal.Decimal `json:"effective_rate"`
}

func zeroResult() Result {
	return Result{Tax: decimal.Zero, EffectiveRate: decimal.Zero}
}

// WithholdINSS applies the flat-progressive-with-cap policy: the matched
// bracket's rate applies to the whole base (not marginally), and the result
// is capped at the tax implied by the top bracket's ceiling. The flat
// application is the intended design of this didactic table, not true
// marginal taxation.
func WithholdINSS(base decimal.Decimal, table BracketTable) (Result, error) {
	if err := table.Validate(); err != nil {
		return Result{}, err
	}
	if base.LessThanOrEqual(decimal.Zero) {
		return zeroResult(), nil
	}

	matched := table.match(base)
	tax := base.Mul(matched.Rate)

	if ceil, ok := table.ceiling(); ok {
		topRate := table.Brackets[len(table.Brackets)-1].Rate
		capTax := ceil.Mul(topRate)
		if tax.GreaterThan(capTax) {
			tax = capTax
		}
	}

	return finish(tax, base), nil
}

// WithholdIRRF applies the marginal-with-deduction policy: the taxable base
// is reduced by the per-dependent deduction, then the matched bracket's rate
// applies with its cumulative deduction subtracted. The deduction column
// encodes the marginal-bracket shortcut, so lower brackets are never summed.
func WithholdIRRF(base decimal.Decimal, table BracketTable, dependentDeduction decimal.Decimal, dependents int) (Result, error) {
	if err := table.Validate(); err != nil {
		return Result{}, err
	}
	if base.LessThanOrEqual(decimal.Zero) {
		return zeroResult(), nil
	}

	calcBase := base.Sub(dependentDeduction.Mul(decimal.NewFromInt(int64(dependents))))
	if calcBase.LessThanOrEqual(decimal.Zero) {
		return zeroResult(), nil
	}

	matched := table.match(calcBase)
	tax := calcBase.Mul(matched.Rate).Sub(matched.Deduction)
	if tax.LessThan(decimal.Zero) {
		tax = decimal.Zero
	}

	return finish(tax, base), nil
}

// finish rounds the final tax output only; intermediate bracket math keeps
// full precision.
func finish(tax, base decimal.Decimal) Result {
	rounded := tax.Round(2)
	rate := decimal.Zero
	if base.IsPositive() && rounded.IsPositive() {
		rate = rounded.Div(base).Round(4)
	}
	return Result{Tax: rounded, EffectiveRate: rate}
}
