package tax

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// inssTable2025 mirrors the published 2025 employee contribution brackets.
func inssTable2025() BracketTable {
	return BracketTable{
		Kind:      KindINSS,
		ValidFrom: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Brackets: []Bracket{
			{UpTo: decPtr("1518.00"), Rate: dec("0.075")},
			{UpTo: decPtr("2793.88"), Rate: dec("0.09")},
			{UpTo: decPtr("4190.83"), Rate: dec("0.12")},
			{UpTo: decPtr("8157.41"), Rate: dec("0.14")},
			{UpTo: nil, Rate: dec("0.14")},
		},
	}
}

func irrfTable2025() BracketTable {
	return BracketTable{
		Kind:      KindIRRF,
		ValidFrom: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		Brackets: []Bracket{
			{UpTo: decPtr("2428.80"), Rate: dec("0"), Deduction: dec("0")},
			{UpTo: decPtr("2826.65"), Rate: dec("0.075"), Deduction: dec("182.16")},
			{UpTo: decPtr("3751.05"), Rate: dec("0.15"), Deduction: dec("394.16")},
			{UpTo: decPtr("4664.68"), Rate: dec("0.225"), Deduction: dec("675.49")},
			{UpTo: nil, Rate: dec("0.275"), Deduction: dec("908.73")},
		},
	}
}

func TestTableValidate(t *testing.T) {
	assert.NoError(t, inssTable2025().Validate())
	assert.NoError(t, irrfTable2025().Validate())

	empty := BracketTable{Kind: KindINSS}
	assert.ErrorIs(t, empty.Validate(), ErrInvalidTable)

	noUnbounded := BracketTable{
		Kind: KindINSS,
		Brackets: []Bracket{
			{UpTo: decPtr("1000"), Rate: dec("0.075")},
			{UpTo: decPtr("2000"), Rate: dec("0.09")},
		},
	}
	assert.ErrorIs(t, noUnbounded.Validate(), ErrInvalidTable)

	unboundedInMiddle := BracketTable{
		Kind: KindINSS,
		Brackets: []Bracket{
			{UpTo: nil, Rate: dec("0.075")},
			{UpTo: decPtr("2000"), Rate: dec("0.09")},
		},
	}
	assert.ErrorIs(t, unboundedInMiddle.Validate(), ErrInvalidTable)

	unsorted := BracketTable{
		Kind: KindINSS,
		Brackets: []Bracket{
			{UpTo: decPtr("2000"), Rate: dec("0.075")},
			{UpTo: decPtr("1000"), Rate: dec("0.09")},
			{UpTo: nil, Rate: dec("0.12")},
		},
	}
	assert.ErrorIs(t, unsorted.Validate(), ErrInvalidTable)

	decreasingRates := BracketTable{
		Kind: KindINSS,
		Brackets: []Bracket{
			{UpTo: decPtr("1000"), Rate: dec("0.09")},
			{UpTo: decPtr("2000"), Rate: dec("0.075")},
			{UpTo: nil, Rate: dec("0.12")},
		},
	}
	assert.ErrorIs(t, decreasingRates.Validate(), ErrInvalidTable)
}

func TestBracketMatchBoundaryInclusive(t *testing.T) {
	table := inssTable2025()

	// Exactly on the boundary belongs to the lower bracket.
	b := table.match(dec("1518.00"))
	assert.True(t, b.Rate.Equal(dec("0.075")))

	// One cent over crosses into the next bracket.
	b = table.match(dec("1518.01"))
	assert.True(t, b.Rate.Equal(dec("0.09")))

	// Above every bounded limit, the unbounded bracket matches.
	b = table.match(dec("100000"))
	assert.Nil(t, b.UpTo)
}

func TestWithholdINSS(t *testing.T) {
	table := inssTable2025()

	t.Run("flat rate on whole base", func(t *testing.T) {
		// 3000 falls in the 12% bracket; the rate applies to the whole base.
		r, err := WithholdINSS(dec("3000"), table)
		require.NoError(t, err)
		assert.Equal(t, "360.00", r.Tax.StringFixed(2))
		assert.Equal(t, "0.1200", r.EffectiveRate.StringFixed(4))
	})

	t.Run("first bracket", func(t *testing.T) {
		r, err := WithholdINSS(dec("1500"), table)
		require.NoError(t, err)
		assert.Equal(t, "112.50", r.Tax.StringFixed(2))
	})

	t.Run("capped at ceiling", func(t *testing.T) {
		// Above the ceiling the tax is frozen at ceiling * top rate.
		capTax := dec("8157.41").Mul(dec("0.14")).Round(2)

		r, err := WithholdINSS(dec("20000"), table)
		require.NoError(t, err)
		assert.Equal(t, capTax.StringFixed(2), r.Tax.StringFixed(2))

		r2, err := WithholdINSS(dec("50000"), table)
		require.NoError(t, err)
		assert.True(t, r.Tax.Equal(r2.Tax), "tax must stay flat above the ceiling")
	})

	t.Run("zero and negative gross", func(t *testing.T) {
		r, err := WithholdINSS(decimal.Zero, table)
		require.NoError(t, err)
		assert.True(t, r.Tax.IsZero())
		assert.True(t, r.EffectiveRate.IsZero())

		r, err = WithholdINSS(dec("-100"), table)
		require.NoError(t, err)
		assert.True(t, r.Tax.IsZero())
	})

	t.Run("tax never decreases as gross grows", func(t *testing.T) {
		prev := decimal.Zero
		for gross := 500; gross <= 12000; gross += 250 {
			r, err := WithholdINSS(decimal.NewFromInt(int64(gross)), table)
			require.NoError(t, err)
			assert.True(t, r.Tax.GreaterThanOrEqual(prev),
				"gross %d: tax %s dropped below %s", gross, r.Tax, prev)
			prev = r.Tax
		}
	})

	t.Run("invalid table rejected", func(t *testing.T) {
		_, err := WithholdINSS(dec("3000"), BracketTable{Kind: KindINSS})
		assert.ErrorIs(t, err, ErrInvalidTable)
	})
}

func TestWithholdIRRF(t *testing.T) {
	table := irrfTable2025()
	depDeduction := dec("189.59")

	t.Run("exempt band", func(t *testing.T) {
		r, err := WithholdIRRF(dec("2000"), table, depDeduction, 0)
		require.NoError(t, err)
		assert.True(t, r.Tax.IsZero())
	})

	t.Run("marginal with deduction", func(t *testing.T) {
		// 3000 * 0.15 - 394.16 = 55.84
		r, err := WithholdIRRF(dec("3000"), table, depDeduction, 0)
		require.NoError(t, err)
		assert.Equal(t, "55.84", r.Tax.StringFixed(2))
	})

	t.Run("dependents shrink the base", func(t *testing.T) {
		// 3000 - 2*189.59 = 2620.82 -> 0.075 bracket: 2620.82*0.075 - 182.16 = 14.40
		r, err := WithholdIRRF(dec("3000"), table, depDeduction, 2)
		require.NoError(t, err)
		assert.Equal(t, "14.40", r.Tax.StringFixed(2))

		noDeps, err := WithholdIRRF(dec("3000"), table, depDeduction, 0)
		require.NoError(t, err)
		assert.True(t, r.Tax.LessThan(noDeps.Tax))
	})

	t.Run("deductions can zero the base", func(t *testing.T) {
		r, err := WithholdIRRF(dec("1000"), table, depDeduction, 6)
		require.NoError(t, err)
		assert.True(t, r.Tax.IsZero())
	})

	t.Run("negative bracket result clamps to zero", func(t *testing.T) {
		// Just above the exempt limit the formula can go negative.
		r, err := WithholdIRRF(dec("2428.81"), table, decimal.Zero, 0)
		require.NoError(t, err)
		assert.False(t, r.Tax.IsNegative())
	})

	t.Run("top bracket", func(t *testing.T) {
		// 10000 * 0.275 - 908.73 = 1841.27
		r, err := WithholdIRRF(dec("10000"), table, decimal.Zero, 0)
		require.NoError(t, err)
		assert.Equal(t, "1841.27", r.Tax.StringFixed(2))
		assert.Equal(t, "0.1841", r.EffectiveRate.StringFixed(4))
	})
}
