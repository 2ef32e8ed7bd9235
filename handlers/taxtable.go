package handlers

import (
	"contafacil/models"
	"contafacil/types"
	"contafacil/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type AddBracketRequest struct {
	ValidFrom string           `json:"valid_from"` // YYYY-MM-DD
	UpTo      *decimal.Decimal `json:"up_to"`      // null = unbounded last bracket
	Rate      decimal.Decimal  `json:"rate"`       // e.g. 0.075 for 7.5%
	Deduction decimal.Decimal  `json:"deduction"`  // IRRF only
}

type SetIRRFConfigRequest struct {
	ValidFrom          string          `json:"valid_from"`
	DependentDeduction decimal.Decimal `json:"dependent_deduction"`
}

func AddINSSBracket(c *fiber.Ctx) error {
	var req AddBracketRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, types.ErrInvalidInput)
	}
	validFrom, err := parseDate(req.ValidFrom)
	if err != nil {
		return badRequest(c, "Invalid valid_from date. Use YYYY-MM-DD")
	}
	if !req.Rate.IsPositive() {
		return badRequest(c, "Invalid rate. Use 0.075 for 7.5%")
	}

	row := models.TaxINSSBracket{
		ID:        uuid.New(),
		ValidFrom: validFrom,
		UpTo:      req.UpTo,
		Rate:      req.Rate,
	}
	if err := DB.Create(&row).Error; err != nil {
		utils.Logger.Error("Failed to create INSS bracket", zap.Error(err))
		return dbError(c)
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "INSS bracket added",
		Data:    row,
	})
}

func AddIRRFBracket(c *fiber.Ctx) error {
	var req AddBracketRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, types.ErrInvalidInput)
	}
	validFrom, err := parseDate(req.ValidFrom)
	if err != nil {
		return badRequest(c, "Invalid valid_from date. Use YYYY-MM-DD")
	}
	if req.Rate.IsNegative() {
		return badRequest(c, "Invalid rate")
	}

	row := models.TaxIRRFBracket{
		ID:        uuid.New(),
		ValidFrom: validFrom,
		UpTo:      req.UpTo,
		Rate:      req.Rate,
		Deduction: req.Deduction,
	}
	if err := DB.Create(&row).Error; err != nil {
		utils.Logger.Error("Failed to create IRRF bracket", zap.Error(err))
		return dbError(c)
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "IRRF bracket added",
		Data:    row,
	})
}

// SetIRRFConfig upserts the per-dependent deduction for a vintage.
func SetIRRFConfig(c *fiber.Ctx) error {
	var req SetIRRFConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, types.ErrInvalidInput)
	}
	validFrom, err := parseDate(req.ValidFrom)
	if err != nil {
		return badRequest(c, "Invalid valid_from date. Use YYYY-MM-DD")
	}
	if req.DependentDeduction.IsNegative() {
		req.DependentDeduction = decimal.Zero
	}

	var cfg models.IRRFConfig
	err = DB.Where("valid_from = ?", validFrom).First(&cfg).Error
	if err == nil {
		cfg.DependentDeduction = req.DependentDeduction
		if err := DB.Save(&cfg).Error; err != nil {
			utils.Logger.Error("Failed to update IRRF config", zap.Error(err))
			return dbError(c)
		}
	} else {
		cfg = models.IRRFConfig{
			ID:                 uuid.New(),
			ValidFrom:          validFrom,
			DependentDeduction: req.DependentDeduction,
		}
		if err := DB.Create(&cfg).Error; err != nil {
			utils.Logger.Error("Failed to create IRRF config", zap.Error(err))
			return dbError(c)
		}
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "IRRF config saved",
		Data:    cfg,
	})
}

func ListTaxTables(c *fiber.Ctx) error {
	var inss []models.TaxINSSBracket
	if err := DB.Order("valid_from DESC, up_to IS NULL, up_to ASC").Find(&inss).Error; err != nil {
		return dbError(c)
	}

	var irrf []models.TaxIRRFBracket
	if err := DB.Order("valid_from DESC, up_to IS NULL, up_to ASC").Find(&irrf).Error; err != nil {
		return dbError(c)
	}

	var configs []models.IRRFConfig
	if err := DB.Order("valid_from DESC").Find(&configs).Error; err != nil {
		return dbError(c)
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Data: fiber.Map{
			"inss_brackets": inss,
			"irrf_brackets": irrf,
			"irrf_configs":  configs,
		},
	})
}
