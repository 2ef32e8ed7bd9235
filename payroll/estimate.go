package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"contafacil/tax"
)

// Tables is the read set of active tax tables for one competence. Nil
// pointers mean "no active table": estimates stay unset rather than zero,
// so "not computed" is distinguishable from "computed as zero".
type Tables struct {
	INSS               *tax.BracketTable
	IRRF               *tax.BracketTable
	DependentDeduction decimal.Decimal
	HasIRRFConfig      bool
}

// Estimate carries per-line withholding estimates. A nil field means the
// corresponding table was missing at calculation time.
type Estimate struct {
	INSS *decimal.Decimal `json:"inss,omitempty"`
	IRRF *decimal.Decimal `json:"irrf,omitempty"`
	Net  *decimal.Decimal `json:"net,omitempty"`
}

// EstimateLine computes INSS on the gross and IRRF on gross minus INSS,
// dependent-aware. IRRF needs the INSS estimate, so it is only produced
// when both tables (and the IRRF config) are active.
func (t Tables) EstimateLine(gross decimal.Decimal, dependents int) (Estimate, error) {
	var est Estimate

	if t.INSS != nil {
		r, err := tax.WithholdINSS(gross, *t.INSS)
		if err != nil {
			return Estimate{}, err
		}
		v := r.Tax
		est.INSS = &v
	}

	if t.IRRF != nil && t.HasIRRFConfig && est.INSS != nil {
		r, err := tax.WithholdIRRF(gross.Sub(*est.INSS), *t.IRRF, t.DependentDeduction, dependents)
		if err != nil {
			return Estimate{}, err
		}
		v := r.Tax
		est.IRRF = &v
	}

	if est.INSS != nil && est.IRRF != nil {
		net := gross.Sub(*est.INSS).Sub(*est.IRRF).Round(2)
		est.Net = &net
	}

	return est, nil
}

// EstimateThirteenth applies the installment policy: the first installment
// is untaxed by statute, so its estimates are absent, not zero. Second and
// full installments withhold INSS then IRRF on the whole gross.
func (t Tables) EstimateThirteenth(gross decimal.Decimal, installment Installment, dependents int) (Estimate, error) {
	if installment == InstallmentFirst {
		return Estimate{}, nil
	}
	return t.EstimateLine(gross, dependents)
}

// LineInput is one payroll line's read set for the month summary.
type LineInput struct {
	Gross      decimal.Decimal
	Dependents int
}

// MonthSummary aggregates a competence's payroll lines. Table vintages are
// surfaced so a user can tell whether estimates used stale tables. Totals
// that depend on a missing table stay nil.
type MonthSummary struct {
	Year          int              `json:"year"`
	Month         int              `json:"month"`
	EmployeeCount int              `json:"employee_count"`
	TotalGross    decimal.Decimal  `json:"total_gross"`
	TotalINSS     *decimal.Decimal `json:"total_inss,omitempty"`
	TotalIRRF     *decimal.Decimal `json:"total_irrf,omitempty"`
	TotalNet      *decimal.Decimal `json:"total_net,omitempty"`
	INSSTableFrom *time.Time       `json:"inss_table_from,omitempty"`
	IRRFTableFrom *time.Time       `json:"irrf_table_from,omitempty"`
	HasTables     bool             `json:"has_tables"`
}

// Summarize is a pure read: calling it twice over the same lines and tables
// yields identical output.
func Summarize(year, month int, lines []LineInput, t Tables) (MonthSummary, error) {
	s := MonthSummary{Year: year, Month: month, EmployeeCount: len(lines), TotalGross: decimal.Zero}

	totalINSS := decimal.Zero
	totalIRRF := decimal.Zero
	allINSS := t.INSS != nil
	allIRRF := t.IRRF != nil && t.HasIRRFConfig && allINSS

	for _, ln := range lines {
		s.TotalGross = s.TotalGross.Add(ln.Gross)
		est, err := t.EstimateLine(ln.Gross, ln.Dependents)
		if err != nil {
			return MonthSummary{}, err
		}
		if est.INSS != nil {
			totalINSS = totalINSS.Add(*est.INSS)
		}
		if est.IRRF != nil {
			totalIRRF = totalIRRF.Add(*est.IRRF)
		}
	}

	s.TotalGross = s.TotalGross.Round(2)
	if allINSS {
		v := totalINSS.Round(2)
		s.TotalINSS = &v
		from := t.INSS.ValidFrom
		s.INSSTableFrom = &from
	}
	if allIRRF {
		v := totalIRRF.Round(2)
		s.TotalIRRF = &v
	}
	if t.IRRF != nil {
		from := t.IRRF.ValidFrom
		s.IRRFTableFrom = &from
	}
	if s.TotalINSS != nil && s.TotalIRRF != nil {
		net := s.TotalGross.Sub(*s.TotalINSS).Sub(*s.TotalIRRF).Round(2)
		s.TotalNet = &net
	}
	s.HasTables = allINSS && allIRRF

	return s, nil
}
