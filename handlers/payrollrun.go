package handlers

import (
	"contafacil/models"
	"contafacil/payroll"
	"contafacil/types"
	"contafacil/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var defaultOvertimeHourRate = decimal.RequireFromString("12.45")

type CreateRunRequest struct {
	Year             int              `json:"year"`
	Month            int              `json:"month"`
	OvertimeHourRate *decimal.Decimal `json:"overtime_hour_rate"`
}

type UpdateRunLinesRequest struct {
	OvertimeHourRate *decimal.Decimal  `json:"overtime_hour_rate"`
	Lines            []UpdateLineInput `json:"lines"`
}

type UpdateLineInput struct {
	EmployeeID    uuid.UUID       `json:"employee_id"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
}

// CreateOrOpenRun creates the competence's payroll run with one line per
// active employee at its effective salary, or returns the existing run.
func CreateOrOpenRun(c *fiber.Ctx) error {
	var req CreateRunRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, types.ErrInvalidInput)
	}
	if !validCompetence(req.Year, req.Month) {
		return badRequest(c, types.ErrInvalidCompetence)
	}

	var run models.PayrollRun
	err := DB.Where("year = ? AND month = ?", req.Year, req.Month).First(&run).Error
	if err == nil {
		return respondRun(c, run, "")
	}
	if err != gorm.ErrRecordNotFound {
		return dbError(c)
	}

	rate := defaultOvertimeHourRate
	if req.OvertimeHourRate != nil && req.OvertimeHourRate.IsPositive() {
		rate = *req.OvertimeHourRate
	}

	run = models.PayrollRun{
		ID:               uuid.New(),
		Year:             req.Year,
		Month:            req.Month,
		OvertimeHourRate: rate,
	}

	var employees []models.Employee
	if err := DB.Where("active = ?", true).Order("full_name ASC").Find(&employees).Error; err != nil {
		return dbError(c)
	}

	tx := DB.Begin()
	if err := tx.Create(&run).Error; err != nil {
		tx.Rollback()
		utils.Logger.Error("Failed to create payroll run", zap.Error(err))
		return dbError(c)
	}
	for _, e := range employees {
		base := effectiveSalary(e.ID, req.Year, req.Month)
		line := models.PayrollLine{
			ID:               uuid.New(),
			PayrollRunID:     run.ID,
			EmployeeID:       e.ID,
			BaseSalary:       base,
			OvertimeHours:    decimal.Zero,
			OvertimeHourRate: rate,
			OvertimeAmount:   decimal.Zero,
			GrossTotal:       base,
		}
		if err := tx.Create(&line).Error; err != nil {
			tx.Rollback()
			utils.Logger.Error("Failed to create payroll line", zap.Error(err))
			return dbError(c)
		}
	}
	tx.Commit()

	return respondRun(c, run, "Payroll run created")
}

func GetRun(c *fiber.Ctx) error {
	year, month, ok := competenceFromQuery(c)
	if !ok {
		return badRequest(c, types.ErrInvalidCompetence)
	}

	var run models.PayrollRun
	if err := DB.Where("year = ? AND month = ?", year, month).First(&run).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(types.APIResponse{
				Success: false,
				Error:   types.ErrNotFound,
			})
		}
		return dbError(c)
	}

	return respondRun(c, run, "")
}

// UpdateRunLines saves overtime hours for the run's lines. A closed
// competence does not block the save; the response carries a warning.
func UpdateRunLines(c *fiber.Ctx) error {
	runID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid run ID")
	}

	var req UpdateRunLinesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, types.ErrInvalidInput)
	}

	var run models.PayrollRun
	if err := DB.First(&run, "id = ?", runID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(types.APIResponse{
				Success: false,
				Error:   types.ErrNotFound,
			})
		}
		return dbError(c)
	}

	rate := run.OvertimeHourRate
	if req.OvertimeHourRate != nil && req.OvertimeHourRate.IsPositive() {
		rate = *req.OvertimeHourRate
	}

	hoursByEmployee := make(map[uuid.UUID]decimal.Decimal, len(req.Lines))
	for _, ln := range req.Lines {
		hours := ln.OvertimeHours
		if hours.IsNegative() {
			hours = decimal.Zero
		}
		hoursByEmployee[ln.EmployeeID] = hours
	}

	var lines []models.PayrollLine
	if err := DB.Where("payroll_run_id = ?", runID).Find(&lines).Error; err != nil {
		return dbError(c)
	}

	tx := DB.Begin()
	run.OvertimeHourRate = rate
	if err := tx.Save(&run).Error; err != nil {
		tx.Rollback()
		return dbError(c)
	}
	for i := range lines {
		hours, ok := hoursByEmployee[lines[i].EmployeeID]
		if !ok {
			hours = lines[i].OvertimeHours
		}
		lines[i].OvertimeHours = hours
		lines[i].OvertimeHourRate = rate
		lines[i].OvertimeAmount = payroll.OvertimeAmount(hours, rate)
		lines[i].GrossTotal = lines[i].BaseSalary.Add(lines[i].OvertimeAmount).Round(2)
		if err := tx.Save(&lines[i]).Error; err != nil {
			tx.Rollback()
			utils.Logger.Error("Failed to save payroll line", zap.Error(err))
			return dbError(c)
		}
	}
	tx.Commit()

	warning := ""
	if isClosed(run.Year, run.Month) {
		warning = closedCompetenceWarning
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "Payroll saved",
		Warning: warning,
		Data: fiber.Map{
			"run":   run,
			"lines": lines,
		},
	})
}

// GetHolerite estimates one employee's pay slip for the run: INSS on the
// gross, IRRF on gross minus INSS with the dependent deduction.
func GetHolerite(c *fiber.Ctx) error {
	runID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid run ID")
	}
	employeeID, err := uuid.Parse(c.Params("employeeID"))
	if err != nil {
		return badRequest(c, "Invalid employee ID")
	}

	var run models.PayrollRun
	if err := DB.First(&run, "id = ?", runID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(types.APIResponse{
				Success: false,
				Error:   types.ErrNotFound,
			})
		}
		return dbError(c)
	}

	var line models.PayrollLine
	if err := DB.Preload("Employee").
		Where("payroll_run_id = ? AND employee_id = ?", runID, employeeID).
		First(&line).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(types.APIResponse{
				Success: false,
				Error:   "Employee not found in this payroll run",
			})
		}
		return dbError(c)
	}

	tables := Tables.LoadTables(competenceStart(run.Year, run.Month))
	estimate, err := tables.EstimateLine(line.GrossTotal, dependentsCount(employeeID))
	if err != nil {
		utils.Logger.Error("Failed to estimate payroll line", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrInternalError,
		})
	}

	data := fiber.Map{
		"run":        run,
		"line":       line,
		"dependents": dependentsCount(employeeID),
		"estimate":   estimate,
	}
	if tables.INSS != nil {
		data["inss_table_from"] = tables.INSS.ValidFrom
	}
	if tables.IRRF != nil {
		data["irrf_table_from"] = tables.IRRF.ValidFrom
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Data:    data,
	})
}

// GetMonthSummary aggregates the competence's lines. Reading twice with
// unchanged data yields identical output; nothing is written here.
func GetMonthSummary(c *fiber.Ctx) error {
	year, month, ok := competenceFromQuery(c)
	if !ok {
		return badRequest(c, types.ErrInvalidCompetence)
	}

	var run models.PayrollRun
	if err := DB.Where("year = ? AND month = ?", year, month).First(&run).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(types.APIResponse{
				Success: false,
				Error:   types.ErrNotFound,
			})
		}
		return dbError(c)
	}

	var lines []models.PayrollLine
	if err := DB.Where("payroll_run_id = ?", run.ID).Find(&lines).Error; err != nil {
		return dbError(c)
	}

	inputs := make([]payroll.LineInput, 0, len(lines))
	for _, ln := range lines {
		inputs = append(inputs, payroll.LineInput{
			Gross:      ln.GrossTotal,
			Dependents: dependentsCount(ln.EmployeeID),
		})
	}

	tables := Tables.LoadTables(competenceStart(year, month))
	summary, err := payroll.Summarize(year, month, inputs, tables)
	if err != nil {
		utils.Logger.Error("Failed to summarize payroll", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrInternalError,
		})
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Data:    summary,
	})
}

func respondRun(c *fiber.Ctx, run models.PayrollRun, message string) error {
	var lines []models.PayrollLine
	if err := DB.Preload("Employee").
		Where("payroll_run_id = ?", run.ID).
		Order("created_at ASC").
		Find(&lines).Error; err != nil {
		return dbError(c)
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Message: message,
		Data: fiber.Map{
			"run":   run,
			"lines": lines,
		},
	})
}
