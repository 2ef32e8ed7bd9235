package handlers

import (
	"strings"
	"time"

	"contafacil/closing"
	"contafacil/models"
	"contafacil/types"

	"github.com/gofiber/fiber/v2"
)

// GetDashboard is the single landing read for a competence: close state,
// fresh pendencies, the recommended next step and the deadline counters.
func GetDashboard(c *fiber.Ctx) error {
	year, month, ok := competenceFromQuery(c)
	if !ok {
		// Default to the current competence when none is given.
		now := time.Now().UTC()
		year, month = now.Year(), int(now.Month())
	}

	rec, err := closeRecord(year, month)
	if err != nil {
		return dbError(c)
	}
	var closedAt *time.Time
	if rec != nil {
		closedAt = &rec.ClosedAt
	}

	checklist := buildChecklist(year, month)
	result := closing.Evaluate(checklist, rec != nil, closedAt)

	var guides []models.GuideDocument
	if err := DB.Where("year = ? AND month = ?", year, month).Find(&guides).Error; err != nil {
		return dbError(c)
	}
	byKind := make(map[string]models.GuideDocument, len(guides))
	for _, g := range guides {
		byKind[g.Kind] = g
	}
	obligations := make([]closing.Obligation, 0, len(closing.GuideKinds))
	for _, kind := range closing.GuideKinds {
		ob := closing.Obligation{Kind: kind, Label: strings.ToUpper(kind)}
		if g, found := byKind[kind]; found {
			ob.DueDate = g.DueDate
			ob.Paid = g.PaidAt != nil
		}
		obligations = append(obligations, ob)
	}
	agenda := closing.BuildAgenda(year, month, obligations, closing.DateOnly(time.Now().UTC()), closing.DefaultWarningWindowDays)

	var employeeCount int64
	DB.Model(&models.Employee{}).Where("active = ?", true).Count(&employeeCount)

	return c.JSON(types.APIResponse{
		Success: true,
		Data: fiber.Map{
			"year":             year,
			"month":            month,
			"state":            result.State,
			"closed_at":        result.ClosedAt,
			"pendencies":       result.Pendencies,
			"next_step":        result.RecommendedAction,
			"agenda":           agenda,
			"active_employees": employeeCount,
			"revenue_count":    checklist.RevenueCount,
			"has_payroll_run":  checklist.HasPayrollRun,
		},
	})
}
