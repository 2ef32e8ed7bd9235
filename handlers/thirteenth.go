package handlers

import (
	"errors"

	"contafacil/models"
	"contafacil/payroll"
	"contafacil/types"
	"contafacil/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateThirteenthRequest struct {
	ReferenceYear int    `json:"reference_year"`
	PaymentYear   int    `json:"payment_year"`
	PaymentMonth  int    `json:"payment_month"`
	Installment   string `json:"installment"` // first, second, full
	MonthsWorked  int    `json:"months_worked"`
}

// CreateThirteenth computes one 13th-salary installment and writes a frozen
// snapshot. A duplicate (employee, reference year, installment) is rejected
// so the audit history is never silently overwritten.
func CreateThirteenth(c *fiber.Ctx) error {
	employeeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid employee ID")
	}

	var req CreateThirteenthRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, types.ErrInvalidInput)
	}
	if req.ReferenceYear < 2000 {
		return badRequest(c, "Invalid reference_year")
	}
	if !validCompetence(req.PaymentYear, req.PaymentMonth) {
		return badRequest(c, types.ErrInvalidCompetence)
	}
	installment := payroll.Installment(req.Installment)
	if !installment.Valid() {
		return badRequest(c, "Invalid installment: use first, second or full")
	}

	found, err := ensureEmployee(c, employeeID)
	if !found {
		return err
	}

	baseSalary := effectiveSalary(employeeID, req.PaymentYear, req.PaymentMonth)
	amounts, err := payroll.ComputeThirteenth(baseSalary, req.MonthsWorked)
	if err != nil {
		if errors.Is(err, payroll.ErrInvalidRange) {
			return badRequest(c, "Invalid months_worked: must be 1-12")
		}
		return badRequest(c, types.ErrInvalidInput)
	}

	var count int64
	DB.Model(&models.ThirteenthRecord{}).
		Where("employee_id = ? AND reference_year = ? AND installment = ?", employeeID, req.ReferenceYear, req.Installment).
		Count(&count)
	if count > 0 {
		return c.Status(409).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDuplicateRecord,
		})
	}

	tables := Tables.LoadTables(competenceStart(req.PaymentYear, req.PaymentMonth))
	estimate, err := tables.EstimateThirteenth(amounts.GrossAmount, installment, dependentsCount(employeeID))
	if err != nil {
		utils.Logger.Error("Failed to estimate thirteenth taxes", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrInternalError,
		})
	}

	record := models.ThirteenthRecord{
		ID:               uuid.New(),
		EmployeeID:       employeeID,
		ReferenceYear:    req.ReferenceYear,
		Installment:      req.Installment,
		PaymentYear:      req.PaymentYear,
		PaymentMonth:     req.PaymentMonth,
		MonthsWorked:     req.MonthsWorked,
		BaseSalaryAtCalc: baseSalary,
		GrossAmount:      amounts.GrossAmount,
		INSSEstimate:     estimate.INSS,
		IRRFEstimate:     estimate.IRRF,
		NetEstimate:      estimate.Net,
	}
	if err := DB.Create(&record).Error; err != nil {
		utils.Logger.Error("Failed to create thirteenth record", zap.Error(err))
		return dbError(c)
	}

	warning := ""
	if isClosed(req.PaymentYear, req.PaymentMonth) {
		warning = closedCompetenceWarning
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "13th salary recorded",
		Warning: warning,
		Data:    record,
	})
}

func ListThirteenth(c *fiber.Ctx) error {
	employeeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid employee ID")
	}

	var records []models.ThirteenthRecord
	if err := DB.Where("employee_id = ?", employeeID).
		Order("reference_year DESC, payment_year DESC, payment_month DESC").
		Find(&records).Error; err != nil {
		utils.Logger.Error("Failed to fetch thirteenth records", zap.Error(err))
		return dbError(c)
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Data:    records,
	})
}
