package handlers

import (
	"strings"
	"time"

	"contafacil/closing"
	"contafacil/models"
	"contafacil/types"

	"github.com/gofiber/fiber/v2"
)

// GetAgenda builds the deadline semaphore for a competence. The reference
// date defaults to today and can be pinned with ?ref=YYYY-MM-DD.
func GetAgenda(c *fiber.Ctx) error {
	year, month, ok := competenceFromQuery(c)
	if !ok {
		return badRequest(c, types.ErrInvalidCompetence)
	}

	reference := closing.DateOnly(time.Now().UTC())
	if ref := c.Query("ref"); ref != "" {
		d, err := parseDate(ref)
		if err != nil {
			return badRequest(c, "Invalid ref date. Use YYYY-MM-DD")
		}
		reference = d
	}

	var guides []models.GuideDocument
	if err := DB.Where("year = ? AND month = ?", year, month).Find(&guides).Error; err != nil {
		return dbError(c)
	}
	byKind := make(map[string]models.GuideDocument, len(guides))
	for _, g := range guides {
		byKind[g.Kind] = g
	}

	// One obligation per tracked kind even when the guide is not registered
	// yet; the default operational deadline still applies.
	obligations := make([]closing.Obligation, 0, len(closing.GuideKinds))
	for _, kind := range closing.GuideKinds {
		ob := closing.Obligation{
			Kind:  kind,
			Label: strings.ToUpper(kind),
		}
		if g, found := byKind[kind]; found {
			ob.DueDate = g.DueDate
			ob.Paid = g.PaidAt != nil
		}
		obligations = append(obligations, ob)
	}

	agenda := closing.BuildAgenda(year, month, obligations, reference, closing.DefaultWarningWindowDays)

	return c.JSON(types.APIResponse{
		Success: true,
		Data: fiber.Map{
			"year":      year,
			"month":     month,
			"reference": reference,
			"agenda":    agenda,
		},
	})
}
