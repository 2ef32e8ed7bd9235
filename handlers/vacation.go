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

type CreateVacationRequest struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	PayDate   string `json:"pay_date"`   // optional
	DaysTaken int    `json:"days_taken"`
	DaysSold  int    `json:"days_sold"`
}

// CreateVacation computes the vacation amounts and writes one frozen
// snapshot. The record is never recomputed: base salary and estimates are
// whatever was in force at calculation time.
func CreateVacation(c *fiber.Ctx) error {
	employeeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid employee ID")
	}

	var req CreateVacationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, types.ErrInvalidInput)
	}
	if !validCompetence(req.Year, req.Month) {
		return badRequest(c, types.ErrInvalidCompetence)
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return badRequest(c, "Invalid start_date. Use YYYY-MM-DD")
	}

	found, err := ensureEmployee(c, employeeID)
	if !found {
		return err
	}

	baseSalary := effectiveSalary(employeeID, req.Year, req.Month)
	amounts, err := payroll.ComputeVacation(baseSalary, req.DaysTaken, req.DaysSold)
	if err != nil {
		if errors.Is(err, payroll.ErrInvalidRange) {
			return badRequest(c, "Invalid days: taken must be 1-30, sold 0-10, sum at most 30")
		}
		return badRequest(c, types.ErrInvalidInput)
	}

	// One snapshot per vacation event; a correction is a new record.
	var count int64
	DB.Model(&models.VacationRecord{}).
		Where("employee_id = ? AND year = ? AND month = ? AND start_date = ?", employeeID, req.Year, req.Month, startDate).
		Count(&count)
	if count > 0 {
		return c.Status(409).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDuplicateRecord,
		})
	}

	tables := Tables.LoadTables(competenceStart(req.Year, req.Month))
	estimate, err := tables.EstimateLine(amounts.GrossTotal, dependentsCount(employeeID))
	if err != nil {
		utils.Logger.Error("Failed to estimate vacation taxes", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrInternalError,
		})
	}

	record := models.VacationRecord{
		ID:               uuid.New(),
		EmployeeID:       employeeID,
		Year:             req.Year,
		Month:            req.Month,
		StartDate:        startDate,
		PayDate:          parseOptionalDate(req.PayDate),
		DaysTaken:        req.DaysTaken,
		DaysSold:         req.DaysSold,
		BaseSalaryAtCalc: baseSalary,
		VacationPay:      amounts.VacationPay,
		OneThirdBonus:    amounts.OneThirdBonus,
		SoldDaysPay:      amounts.SoldDaysPay,
		SoldDaysOneThird: amounts.SoldDaysOneThird,
		GrossTotal:       amounts.GrossTotal,
		INSSEstimate:     estimate.INSS,
		IRRFEstimate:     estimate.IRRF,
		NetEstimate:      estimate.Net,
	}
	if err := DB.Create(&record).Error; err != nil {
		utils.Logger.Error("Failed to create vacation record", zap.Error(err))
		return dbError(c)
	}

	warning := ""
	if isClosed(req.Year, req.Month) {
		warning = closedCompetenceWarning
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "Vacation recorded",
		Warning: warning,
		Data:    record,
	})
}

func ListVacations(c *fiber.Ctx) error {
	employeeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid employee ID")
	}

	var records []models.VacationRecord
	if err := DB.Where("employee_id = ?", employeeID).
		Order("year DESC, month DESC, start_date DESC").
		Find(&records).Error; err != nil {
		utils.Logger.Error("Failed to fetch vacations", zap.Error(err))
		return dbError(c)
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Data:    records,
	})
}
