package closing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullyReadyChecklist() Checklist {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return Checklist{
		Year:             2025,
		Month:            7,
		RevenueCount:     3,
		HasPayrollRun:    true,
		PayrollLineCount: 2,
		HasINSSTable:     true,
		HasIRRFTable:     true,
		HasIRRFConfig:    true,
		INSSTableFrom:    &from,
		IRRFTableFrom:    &from,
		Guides: []GuideStatus{
			{Kind: "das", Present: true, HasAmount: true, HasDueDate: true},
			{Kind: "fgts", Present: true, HasAmount: true, HasDueDate: true},
			{Kind: "darf", Present: true, HasAmount: true, HasDueDate: true},
		},
	}
}

func TestPendencies(t *testing.T) {
	t.Run("ready competence has none", func(t *testing.T) {
		assert.Empty(t, fullyReadyChecklist().Pendencies())
	})

	t.Run("everything missing", func(t *testing.T) {
		cl := Checklist{Year: 2025, Month: 7, Guides: []GuideStatus{
			{Kind: "das"}, {Kind: "fgts"}, {Kind: "darf"},
		}}
		pend := cl.Pendencies()
		assert.Len(t, pend, 8) // 3 tax, 1 payroll, 1 revenue, 3 guides

		byCategory := map[Category]int{}
		for _, p := range pend {
			byCategory[p.Category]++
		}
		assert.Equal(t, 3, byCategory[CategoryTaxTables])
		assert.Equal(t, 1, byCategory[CategoryPayroll])
		assert.Equal(t, 1, byCategory[CategoryRevenue])
		assert.Equal(t, 3, byCategory[CategoryGuides])
	})

	t.Run("stale table flagged", func(t *testing.T) {
		cl := fullyReadyChecklist()
		old := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
		cl.INSSTableFrom = &old

		pend := cl.Pendencies()
		require.Len(t, pend, 1)
		assert.Equal(t, CategoryTaxTables, pend[0].Category)
		assert.Contains(t, pend[0].Message, "2023-01-01")
	})

	t.Run("same year vintage not stale", func(t *testing.T) {
		cl := fullyReadyChecklist()
		sameYear := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
		cl.IRRFTableFrom = &sameYear
		assert.Empty(t, cl.Pendencies())
	})

	t.Run("run without lines", func(t *testing.T) {
		cl := fullyReadyChecklist()
		cl.PayrollLineCount = 0

		pend := cl.Pendencies()
		require.Len(t, pend, 1)
		assert.Equal(t, CategoryPayroll, pend[0].Category)
	})

	t.Run("guide with no amount", func(t *testing.T) {
		cl := fullyReadyChecklist()
		cl.Guides[1].HasAmount = false

		pend := cl.Pendencies()
		require.Len(t, pend, 1)
		assert.Contains(t, pend[0].Message, "FGTS")
	})
}

func TestRecommendedAction(t *testing.T) {
	t.Run("tax tables come first", func(t *testing.T) {
		cl := Checklist{Year: 2025, Month: 7, Guides: []GuideStatus{{Kind: "das"}}}
		assert.Equal(t, CategoryTaxTables, cl.RecommendedAction(false).Category)
	})

	t.Run("then payroll", func(t *testing.T) {
		cl := fullyReadyChecklist()
		cl.HasPayrollRun = false
		cl.RevenueCount = 0
		assert.Equal(t, CategoryPayroll, cl.RecommendedAction(false).Category)
	})

	t.Run("then revenue", func(t *testing.T) {
		cl := fullyReadyChecklist()
		cl.RevenueCount = 0
		cl.Guides[0].Present = false
		assert.Equal(t, CategoryRevenue, cl.RecommendedAction(false).Category)
	})

	t.Run("then guides", func(t *testing.T) {
		cl := fullyReadyChecklist()
		cl.Guides[2].HasDueDate = false
		assert.Equal(t, CategoryGuides, cl.RecommendedAction(false).Category)
	})

	t.Run("all clear suggests closing", func(t *testing.T) {
		action := fullyReadyChecklist().RecommendedAction(false)
		assert.Equal(t, CategoryClose, action.Category)
		assert.Equal(t, "Close the competence", action.Title)
	})

	t.Run("closed and clear", func(t *testing.T) {
		action := fullyReadyChecklist().RecommendedAction(true)
		assert.Equal(t, CategoryClose, action.Category)
		assert.NotEqual(t, "Close the competence", action.Title)
	})
}

func TestEvaluate(t *testing.T) {
	t.Run("open with pendencies", func(t *testing.T) {
		cl := fullyReadyChecklist()
		cl.RevenueCount = 0

		res := Evaluate(cl, false, nil)
		assert.Equal(t, StateOpen, res.State)
		assert.Nil(t, res.ClosedAt)
		require.Len(t, res.Pendencies, 1)
		assert.Contains(t, res.BlockedReason, "closing is inadvisable")
		assert.Contains(t, res.BlockedReason, "no revenue notes")
	})

	t.Run("closed despite pendencies", func(t *testing.T) {
		cl := fullyReadyChecklist()
		cl.HasPayrollRun = false
		closedAt := time.Date(2025, 8, 5, 10, 0, 0, 0, time.UTC)

		res := Evaluate(cl, true, &closedAt)
		assert.Equal(t, StateClosed, res.State)
		require.NotNil(t, res.ClosedAt)
		assert.NotEmpty(t, res.Pendencies, "pendencies survive the close")
	})

	t.Run("clean close", func(t *testing.T) {
		res := Evaluate(fullyReadyChecklist(), false, nil)
		assert.Empty(t, res.Pendencies)
		assert.Empty(t, res.BlockedReason)
	})
}
