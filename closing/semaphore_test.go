package closing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysRemaining(t *testing.T) {
	ref := day(2025, 7, 10)

	assert.Equal(t, 5, DaysRemaining(day(2025, 7, 15), ref))
	assert.Equal(t, 0, DaysRemaining(day(2025, 7, 10), ref))
	assert.Equal(t, -3, DaysRemaining(day(2025, 7, 7), ref))

	// Time of day never changes the whole-day distance.
	late := time.Date(2025, 7, 15, 23, 59, 0, 0, time.UTC)
	early := time.Date(2025, 7, 10, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 5, DaysRemaining(late, early))
}

func TestDeadlineStatus(t *testing.T) {
	ref := day(2025, 7, 10)

	tests := []struct {
		name string
		due  time.Time
		want Status
		days int
	}{
		{"one day past", day(2025, 7, 9), StatusLate, -1},
		{"due today", day(2025, 7, 10), StatusDueSoon, 0},
		{"two days out", day(2025, 7, 12), StatusDueSoon, 2},
		{"window boundary", day(2025, 7, 13), StatusDueSoon, 3},
		{"just outside window", day(2025, 7, 14), StatusOnTime, 4},
		{"far out", day(2025, 8, 10), StatusOnTime, 31},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, days := DeadlineStatus(tc.due, ref, DefaultWarningWindowDays)
			assert.Equal(t, tc.want, status)
			assert.Equal(t, tc.days, days)
		})
	}
}

func TestDefaultDueDate(t *testing.T) {
	// The fallback deadline is day 20 of the month after the competence.
	assert.Equal(t, day(2025, 8, 20), DefaultDueDate(2025, 7))
	assert.Equal(t, day(2026, 1, 20), DefaultDueDate(2025, 12))
}

func TestBuildAgenda(t *testing.T) {
	ref := day(2025, 8, 18)
	dueLate := day(2025, 8, 15)
	dueSoon := day(2025, 8, 20)

	t.Run("counters", func(t *testing.T) {
		agenda := BuildAgenda(2025, 7, []Obligation{
			{Kind: "das", Label: "DAS", DueDate: &dueLate},
			{Kind: "fgts", Label: "FGTS", DueDate: &dueSoon},
			{Kind: "darf", Label: "DARF", DueDate: &ref},
		}, ref, DefaultWarningWindowDays)

		require.Len(t, agenda.Items, 3)
		assert.Equal(t, 1, agenda.Overdue)
		assert.Equal(t, 1, agenda.DueToday)
		assert.Equal(t, 2, agenda.DueWeek) // today and the 20th

		assert.Equal(t, StatusLate, agenda.Items[0].Status)
		assert.Equal(t, StatusDueSoon, agenda.Items[1].Status)
		assert.Equal(t, StatusDueSoon, agenda.Items[2].Status)
	})

	t.Run("paid items listed but not counted", func(t *testing.T) {
		agenda := BuildAgenda(2025, 7, []Obligation{
			{Kind: "das", Label: "DAS", DueDate: &dueLate, Paid: true},
		}, ref, DefaultWarningWindowDays)

		require.Len(t, agenda.Items, 1)
		assert.True(t, agenda.Items[0].Paid)
		assert.Equal(t, StatusLate, agenda.Items[0].Status)
		assert.Equal(t, 0, agenda.Overdue)
		assert.Equal(t, 0, agenda.DueWeek)
	})

	t.Run("missing due date falls back to the default", func(t *testing.T) {
		agenda := BuildAgenda(2025, 7, []Obligation{
			{Kind: "fgts", Label: "FGTS"},
		}, ref, DefaultWarningWindowDays)

		require.Len(t, agenda.Items, 1)
		assert.Equal(t, day(2025, 8, 20), agenda.Items[0].DueDate)
		assert.Equal(t, StatusDueSoon, agenda.Items[0].Status)
		assert.Equal(t, 2, agenda.Items[0].DaysRemaining)
	})
}
