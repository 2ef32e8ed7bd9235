package handlers

import (
	"contafacil/models"
	"contafacil/types"
	"contafacil/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AddRevenueRequest struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	IssuedAt     string          `json:"issued_at"` // optional YYYY-MM-DD
	CustomerName string          `json:"customer_name"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
}

func AddRevenue(c *fiber.Ctx) error {
	var req AddRevenueRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, types.ErrInvalidInput)
	}
	if !validCompetence(req.Year, req.Month) {
		return badRequest(c, types.ErrInvalidCompetence)
	}
	if !req.Amount.IsPositive() {
		return badRequest(c, "amount must be greater than zero")
	}

	note := models.RevenueNote{
		ID:           uuid.New(),
		Year:         req.Year,
		Month:        req.Month,
		IssuedAt:     parseOptionalDate(req.IssuedAt),
		CustomerName: req.CustomerName,
		Description:  req.Description,
		Amount:       req.Amount,
	}
	if err := DB.Create(&note).Error; err != nil {
		utils.Logger.Error("Failed to create revenue note", zap.Error(err))
		return dbError(c)
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "Revenue recorded",
		Data:    note,
	})
}

func ListRevenue(c *fiber.Ctx) error {
	year, month, ok := competenceFromQuery(c)
	if !ok {
		return badRequest(c, types.ErrInvalidCompetence)
	}

	var notes []models.RevenueNote
	if err := DB.Where("year = ? AND month = ?", year, month).
		Order("issued_at IS NULL, issued_at ASC").
		Find(&notes).Error; err != nil {
		utils.Logger.Error("Failed to fetch revenue notes", zap.Error(err))
		return dbError(c)
	}

	total := decimal.Zero
	for _, n := range notes {
		total = total.Add(n.Amount)
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Data: fiber.Map{
			"notes": notes,
			"count": len(notes),
			"total": total.Round(2),
		},
	})
}

func DeleteRevenue(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid revenue note ID")
	}

	var note models.RevenueNote
	if err := DB.First(&note, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(types.APIResponse{
				Success: false,
				Error:   types.ErrNotFound,
			})
		}
		return dbError(c)
	}

	if err := DB.Delete(&note).Error; err != nil {
		utils.Logger.Error("Failed to delete revenue note", zap.Error(err))
		return dbError(c)
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "Revenue removed",
	})
}
