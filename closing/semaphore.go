package closing

import "time"

type Status string

const (
	StatusOnTime  Status = "on_time"
	StatusDueSoon Status = "due_soon"
	StatusLate    Status = "late"
)

// DefaultWarningWindowDays is how close to a due date an obligation turns
// DUE_SOON.
const DefaultWarningWindowDays = 3

// defaultDueDay is the operational deadline used when a guide carries no
// explicit due date: day 20 of the month after the competence.
const defaultDueDay = 20

// DateOnly truncates to a calendar date. The semaphore compares dates, not
// instants; timezone conversion is a presentation concern.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysRemaining is the whole-day distance from reference to due. Negative
// means overdue.
func DaysRemaining(due, reference time.Time) int {
	d := DateOnly(due).Sub(DateOnly(reference))
	return int(d / (24 * time.Hour))
}

// DeadlineStatus computes the traffic light for one obligation. The
// reference date is an explicit input so results are deterministic.
func DeadlineStatus(due, reference time.Time, warningWindow int) (Status, int) {
	days := DaysRemaining(due, reference)
	switch {
	case days < 0:
		return StatusLate, days
	case days <= warningWindow:
		return StatusDueSoon, days
	default:
		return StatusOnTime, days
	}
}

// DefaultDueDate is the fallback operational deadline for an obligation of
// a competence, used when the guide has no explicit due date.
func DefaultDueDate(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, defaultDueDay-1)
}

// Obligation is one statutory item of a competence. DueDate nil falls back
// to the default operational deadline.
type Obligation struct {
	Kind    string
	Label   string
	DueDate *time.Time
	Paid    bool
}

type AgendaItem struct {
	Kind          string    `json:"kind"`
	Label         string    `json:"label"`
	DueDate       time.Time `json:"due_date"`
	Status        Status    `json:"status"`
	DaysRemaining int       `json:"days_remaining"`
	Paid          bool      `json:"paid"`
}

// Agenda is the proactive rollup over a competence's obligations. Paid
// items appear in the list but never in the counters.
type Agenda struct {
	Overdue  int          `json:"overdue"`
	DueToday int          `json:"due_today"`
	DueWeek  int          `json:"due_week"`
	Items    []AgendaItem `json:"items"`
}

func BuildAgenda(year, month int, obligations []Obligation, reference time.Time, warningWindow int) Agenda {
	agenda := Agenda{Items: make([]AgendaItem, 0, len(obligations))}

	for _, ob := range obligations {
		due := DefaultDueDate(year, month)
		if ob.DueDate != nil {
			due = DateOnly(*ob.DueDate)
		}
		status, days := DeadlineStatus(due, reference, warningWindow)

		agenda.Items = append(agenda.Items, AgendaItem{
			Kind:          ob.Kind,
			Label:         ob.Label,
			DueDate:       due,
			Status:        status,
			DaysRemaining: days,
			Paid:          ob.Paid,
		})

		if ob.Paid {
			continue
		}
		if days < 0 {
			agenda.Overdue++
		}
		if days == 0 {
			agenda.DueToday++
		}
		if days >= 0 && days <= 7 {
			agenda.DueWeek++
		}
	}

	return agenda
}
