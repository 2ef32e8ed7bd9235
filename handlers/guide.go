package handlers

import (
	"strings"

	"contafacil/closing"
	"contafacil/models"
	"contafacil/types"
	"contafacil/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UpsertGuideRequest struct {
	Year     int              `json:"year"`
	Month    int              `json:"month"`
	Kind     string           `json:"kind"` // das, fgts, darf
	Filename string           `json:"filename"`
	Amount   *decimal.Decimal `json:"amount"`
	DueDate  string           `json:"due_date"` // optional YYYY-MM-DD
	PaidAt   string           `json:"paid_at"`  // optional YYYY-MM-DD
}

func validGuideKind(kind string) bool {
	for _, k := range closing.GuideKinds {
		if kind == k {
			return true
		}
	}
	return false
}

// UpsertGuide creates or updates the competence's guide of a kind. A closed
// competence does not block the write; the response carries a warning.
func UpsertGuide(c *fiber.Ctx) error {
	var req UpsertGuideRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, types.ErrInvalidInput)
	}
	if !validCompetence(req.Year, req.Month) {
		return badRequest(c, types.ErrInvalidCompetence)
	}
	req.Kind = strings.ToLower(strings.TrimSpace(req.Kind))
	if !validGuideKind(req.Kind) {
		return badRequest(c, "Invalid guide kind: use das, fgts or darf")
	}

	var guide models.GuideDocument
	err := DB.Where("year = ? AND month = ? AND kind = ?", req.Year, req.Month, req.Kind).First(&guide).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return dbError(c)
		}
		guide = models.GuideDocument{
			ID:    uuid.New(),
			Year:  req.Year,
			Month: req.Month,
			Kind:  req.Kind,
		}
	}

	if req.Filename != "" {
		f := req.Filename
		guide.Filename = &f
	}
	if req.Amount != nil && req.Amount.IsPositive() {
		guide.Amount = req.Amount
	} else {
		guide.Amount = nil
	}
	guide.DueDate = parseOptionalDate(req.DueDate)
	guide.PaidAt = parseOptionalDate(req.PaidAt)

	if err := DB.Save(&guide).Error; err != nil {
		utils.Logger.Error("Failed to save guide document", zap.Error(err))
		return dbError(c)
	}

	warning := ""
	if isClosed(req.Year, req.Month) {
		warning = closedCompetenceWarning
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "Guide saved",
		Warning: warning,
		Data:    guide,
	})
}

func ListGuides(c *fiber.Ctx) error {
	year, month, ok := competenceFromQuery(c)
	if !ok {
		return badRequest(c, types.ErrInvalidCompetence)
	}

	var guides []models.GuideDocument
	if err := DB.Where("year = ? AND month = ?", year, month).
		Order("kind ASC").
		Find(&guides).Error; err != nil {
		utils.Logger.Error("Failed to fetch guides", zap.Error(err))
		return dbError(c)
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Data:    guides,
	})
}
