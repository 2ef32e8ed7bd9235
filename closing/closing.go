package closing

import (
	"fmt"
	"strings"
	"time"
)

type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

type Category string

const (
	CategoryTaxTables Category = "tax_tables"
	CategoryPayroll   Category = "payroll"
	CategoryRevenue   Category = "revenue"
	CategoryGuides    Category = "guides"
	CategoryClose     Category = "close"
)

// GuideKinds are the statutory obligations tracked per competence.
var GuideKinds = []string{"das", "fgts", "darf"}

type GuideStatus struct {
	Kind       string
	Present    bool
	HasAmount  bool
	HasDueDate bool
}

// Checklist is the read set the engine aggregates for one competence. The
// caller gathers it from storage; the engine itself never touches the
// database.
type Checklist struct {
	Year             int
	Month            int
	RevenueCount     int
	HasPayrollRun    bool
	PayrollLineCount int
	HasINSSTable     bool
	HasIRRFTable     bool
	HasIRRFConfig    bool
	INSSTableFrom    *time.Time
	IRRFTableFrom    *time.Time
	Guides           []GuideStatus
}

type Pendency struct {
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

// Pendencies lists everything that makes closing inadvisable. The list is
// advisory: closing still succeeds, but no known pendency is ever omitted.
func (c Checklist) Pendencies() []Pendency {
	var out []Pendency

	if !c.HasINSSTable {
		out = append(out, Pendency{CategoryTaxTables, "no active INSS bracket table for this competence"})
	} else if c.stale(c.INSSTableFrom) {
		out = append(out, Pendency{CategoryTaxTables, fmt.Sprintf("INSS table dates from %s and may be stale for %d", c.INSSTableFrom.Format("2006-01-02"), c.Year)})
	}
	if !c.HasIRRFTable {
		out = append(out, Pendency{CategoryTaxTables, "no active IRRF bracket table for this competence"})
	} else if c.stale(c.IRRFTableFrom) {
		out = append(out, Pendency{CategoryTaxTables, fmt.Sprintf("IRRF table dates from %s and may be stale for %d", c.IRRFTableFrom.Format("2006-01-02"), c.Year)})
	}
	if !c.HasIRRFConfig {
		out = append(out, Pendency{CategoryTaxTables, "no IRRF dependent-deduction config for this competence"})
	}

	if !c.HasPayrollRun {
		out = append(out, Pendency{CategoryPayroll, "no payroll run created for this competence"})
	} else if c.PayrollLineCount == 0 {
		out = append(out, Pendency{CategoryPayroll, "payroll run has no lines"})
	}

	if c.RevenueCount == 0 {
		out = append(out, Pendency{CategoryRevenue, "no revenue notes recorded for this competence"})
	}

	for _, g := range c.Guides {
		switch {
		case !g.Present:
			out = append(out, Pendency{CategoryGuides, fmt.Sprintf("guide %s not registered", strings.ToUpper(g.Kind))})
		case !g.HasAmount:
			out = append(out, Pendency{CategoryGuides, fmt.Sprintf("guide %s has no amount", strings.ToUpper(g.Kind))})
		case !g.HasDueDate:
			out = append(out, Pendency{CategoryGuides, fmt.Sprintf("guide %s has no due date", strings.ToUpper(g.Kind))})
		}
	}

	return out
}

// stale flags a table vintage older than the competence year.
func (c Checklist) stale(from *time.Time) bool {
	return from != nil && from.Year() < c.Year
}

type Action struct {
	Category Category `json:"category"`
	Title    string   `json:"title"`
}

// RecommendedAction scans pendency categories in fixed priority order:
// tax tables, then payroll completeness, then revenue, then guides. The
// first category with an outstanding issue wins; with none, the
// recommendation is to close the competence.
func (c Checklist) RecommendedAction(closed bool) Action {
	byCategory := map[Category]bool{}
	for _, p := range c.Pendencies() {
		byCategory[p.Category] = true
	}

	switch {
	case byCategory[CategoryTaxTables]:
		return Action{CategoryTaxTables, "Configure the INSS/IRRF tax tables"}
	case byCategory[CategoryPayroll]:
		return Action{CategoryPayroll, "Create or complete the month's payroll"}
	case byCategory[CategoryRevenue]:
		return Action{CategoryRevenue, "Record the month's revenue notes"}
	case byCategory[CategoryGuides]:
		return Action{CategoryGuides, "Register the payment guides (DAS/FGTS/DARF)"}
	case closed:
		return Action{CategoryClose, "All set; competence is closed"}
	default:
		return Action{CategoryClose, "Close the competence"}
	}
}

// Result is what a close-state read or a mark-closed transition returns:
// the state plus the advisory data callers decide how to surface.
type Result struct {
	State             State      `json:"state"`
	ClosedAt          *time.Time `json:"closed_at,omitempty"`
	Pendencies        []Pendency `json:"pendencies"`
	BlockedReason     string     `json:"blocked_reason,omitempty"`
	RecommendedAction Action     `json:"recommended_action"`
}

// Evaluate builds the close result for a competence. Pendencies are always
// recomputed fresh from the checklist, never cached across transitions.
func Evaluate(c Checklist, closed bool, closedAt *time.Time) Result {
	state := StateOpen
	if closed {
		state = StateClosed
	}

	pend := c.Pendencies()
	reason := ""
	if len(pend) > 0 {
		msgs := make([]string, len(pend))
		for i, p := range pend {
			msgs[i] = p.Message
		}
		reason = fmt.Sprintf("closing is inadvisable: %s", strings.Join(msgs, "; "))
	}

	return Result{
		State:             state,
		ClosedAt:          closedAt,
		Pendencies:        pend,
		BlockedReason:     reason,
		RecommendedAction: c.RecommendedAction(closed),
	}
}
