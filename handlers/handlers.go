package handlers

import (
	"time"

	"contafacil/models"
	"contafacil/types"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	DB     *gorm.DB
	Tables *TableSource
)

func InitHandlers(db *gorm.DB) {
	DB = db
	Tables = &TableSource{DB: db}
}

// competenceFromQuery reads and validates ?year=&month=. Both are required.
func competenceFromQuery(c *fiber.Ctx) (int, int, bool) {
	year := c.QueryInt("year")
	month := c.QueryInt("month")
	return year, month, validCompetence(year, month)
}

func validCompetence(year, month int) bool {
	return year >= 2000 && month >= 1 && month <= 12
}

func competenceStart(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func parseOptionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	d, err := parseDate(s)
	if err != nil {
		return nil
	}
	return &d
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(400).JSON(types.APIResponse{
		Success: false,
		Error:   msg,
	})
}

func dbError(c *fiber.Ctx) error {
	return c.Status(500).JSON(types.APIResponse{
		Success: false,
		Error:   types.ErrDatabaseError,
	})
}

// isClosed reports whether the competence is marked closed. Mutations on a
// closed competence still succeed; callers attach a warning.
func isClosed(year, month int) bool {
	var count int64
	DB.Model(&models.CompetenceClose{}).Where("year = ? AND month = ?", year, month).Count(&count)
	return count > 0
}

const closedCompetenceWarning = "This competence is marked CLOSED. The change was saved; review the closing reports and guides to keep them consistent."

// effectiveSalary resolves the salary in force at the competence start: the
// row with the latest effective_from not after it. Zero when none exists.
func effectiveSalary(employeeID uuid.UUID, year, month int) decimal.Decimal {
	var s models.EmployeeSalary
	err := DB.Where("employee_id = ? AND effective_from <= ?", employeeID, competenceStart(year, month)).
		Order("effective_from DESC").
		First(&s).Error
	if err != nil {
		return decimal.Zero
	}
	return s.BaseSalary
}

func dependentsCount(employeeID uuid.UUID) int {
	var count int64
	DB.Model(&models.EmployeeDependent{}).Where("employee_id = ?", employeeID).Count(&count)
	return int(count)
}
