package handlers

import (
	"time"

	"contafacil/closing"
	"contafacil/models"
	"contafacil/types"
	"contafacil/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// buildChecklist gathers the competence's read set for the closing engine.
func buildChecklist(year, month int) closing.Checklist {
	cl := closing.Checklist{Year: year, Month: month}

	var revenueCount int64
	DB.Model(&models.RevenueNote{}).Where("year = ? AND month = ?", year, month).Count(&revenueCount)
	cl.RevenueCount = int(revenueCount)

	var run models.PayrollRun
	if err := DB.Where("year = ? AND month = ?", year, month).First(&run).Error; err == nil {
		cl.HasPayrollRun = true
		var lineCount int64
		DB.Model(&models.PayrollLine{}).Where("payroll_run_id = ?", run.ID).Count(&lineCount)
		cl.PayrollLineCount = int(lineCount)
	}

	tables := Tables.LoadTables(competenceStart(year, month))
	if tables.INSS != nil {
		cl.HasINSSTable = true
		from := tables.INSS.ValidFrom
		cl.INSSTableFrom = &from
	}
	if tables.IRRF != nil {
		cl.HasIRRFTable = true
		from := tables.IRRF.ValidFrom
		cl.IRRFTableFrom = &from
	}
	cl.HasIRRFConfig = tables.HasIRRFConfig

	var guides []models.GuideDocument
	DB.Where("year = ? AND month = ?", year, month).Find(&guides)
	byKind := make(map[string]models.GuideDocument, len(guides))
	for _, g := range guides {
		byKind[g.Kind] = g
	}
	for _, kind := range closing.GuideKinds {
		g, ok := byKind[kind]
		cl.Guides = append(cl.Guides, closing.GuideStatus{
			Kind:       kind,
			Present:    ok,
			HasAmount:  ok && g.Amount != nil,
			HasDueDate: ok && g.DueDate != nil,
		})
	}

	return cl
}

func closeRecord(year, month int) (*models.CompetenceClose, error) {
	var rec models.CompetenceClose
	err := DB.Where("year = ? AND month = ?", year, month).First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// GetCloseState returns the competence's state with fresh pendencies and the
// recommended next action.
func GetCloseState(c *fiber.Ctx) error {
	year, month, ok := competenceFromQuery(c)
	if !ok {
		return badRequest(c, types.ErrInvalidCompetence)
	}

	rec, err := closeRecord(year, month)
	if err != nil {
		return dbError(c)
	}

	var closedAt *time.Time
	if rec != nil {
		closedAt = &rec.ClosedAt
	}

	result := closing.Evaluate(buildChecklist(year, month), rec != nil, closedAt)
	return c.JSON(types.APIResponse{
		Success: true,
		Data:    result,
	})
}

type MarkClosedRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// MarkClosed marks the competence closed. Pendencies never block the
// transition; they come back in the response so the operator can judge.
func MarkClosed(c *fiber.Ctx) error {
	var req MarkClosedRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, types.ErrInvalidInput)
	}
	if !validCompetence(req.Year, req.Month) {
		return badRequest(c, types.ErrInvalidCompetence)
	}

	rec, err := closeRecord(req.Year, req.Month)
	if err != nil {
		return dbError(c)
	}
	if rec == nil {
		rec = &models.CompetenceClose{
			ID:       uuid.New(),
			Year:     req.Year,
			Month:    req.Month,
			ClosedAt: time.Now().UTC(),
		}
		if err := DB.Create(rec).Error; err != nil {
			utils.Logger.Error("Failed to mark competence closed", zap.Error(err))
			return dbError(c)
		}
		utils.Logger.Info("Competence closed",
			zap.Int("year", req.Year),
			zap.Int("month", req.Month))
	}

	result := closing.Evaluate(buildChecklist(req.Year, req.Month), true, &rec.ClosedAt)

	warning := ""
	if len(result.Pendencies) > 0 {
		warning = result.BlockedReason
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "Competence closed",
		Warning: warning,
		Data:    result,
	})
}

// Reopen removes the closed mark. Nothing else is rolled back; records and
// snapshots written while closed stay as they are.
func Reopen(c *fiber.Ctx) error {
	var req MarkClosedRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, types.ErrInvalidInput)
	}
	if !validCompetence(req.Year, req.Month) {
		return badRequest(c, types.ErrInvalidCompetence)
	}

	rec, err := closeRecord(req.Year, req.Month)
	if err != nil {
		return dbError(c)
	}
	if rec != nil {
		if err := DB.Delete(rec).Error; err != nil {
			utils.Logger.Error("Failed to reopen competence", zap.Error(err))
			return dbError(c)
		}
		utils.Logger.Info("Competence reopened",
			zap.Int("year", req.Year),
			zap.Int("month", req.Month))
	}

	result := closing.Evaluate(buildChecklist(req.Year, req.Month), false, nil)
	return c.JSON(types.APIResponse{
		Success: true,
		Message: "Competence reopened",
		Data:    result,
	})
}
