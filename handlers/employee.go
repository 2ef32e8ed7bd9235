package handlers

import (
	"time"

	"contafacil/models"
	"contafacil/types"
	"contafacil/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AddEmployeeRequest struct {
	FullName string `json:"full_name"`
	CPF      string `json:"cpf"`
	HiredAt  string `json:"hired_at"` // YYYY-MM-DD, optional
}

type AddSalaryRequest struct {
	EffectiveFrom string          `json:"effective_from"` // YYYY-MM-DD
	BaseSalary    decimal.Decimal `json:"base_salary"`
}

type AddDependentRequest struct {
	FullName string `json:"full_name"`
	CPF      string `json:"cpf"`
}

func CreateEmployee(c *fiber.Ctx) error {
	var req AddEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, types.ErrInvalidInput)
	}
	if req.FullName == "" {
		return badRequest(c, "full_name is required")
	}

	employee := models.Employee{
		ID:       uuid.New(),
		FullName: req.FullName,
		CPF:      req.CPF,
		HiredAt:  parseOptionalDate(req.HiredAt),
		Active:   true,
	}

	if err := DB.Create(&employee).Error; err != nil {
		utils.Logger.Error("Failed to create employee", zap.Error(err))
		return dbError(c)
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "Employee created",
		Data:    employee,
	})
}

func ListEmployees(c *fiber.Ctx) error {
	var employees []models.Employee
	if err := DB.Order("active DESC, full_name ASC").Find(&employees).Error; err != nil {
		utils.Logger.Error("Failed to fetch employees", zap.Error(err))
		return dbError(c)
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Data:    employees,
	})
}

func GetEmployee(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid employee ID")
	}

	var employee models.Employee
	if err := DB.First(&employee, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(types.APIResponse{
				Success: false,
				Error:   types.ErrNotFound,
			})
		}
		return dbError(c)
	}

	var dependents []models.EmployeeDependent
	DB.Where("employee_id = ?", id).Order("created_at DESC").Find(&dependents)

	var salaries []models.EmployeeSalary
	DB.Where("employee_id = ?", id).Order("effective_from DESC").Find(&salaries)

	return c.JSON(types.APIResponse{
		Success: true,
		Data: fiber.Map{
			"employee":   employee,
			"dependents": dependents,
			"salaries":   salaries,
		},
	})
}

// AddSalary appends to the salary history. Existing rows are never updated:
// the history is what keeps old snapshots explainable.
func AddSalary(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid employee ID")
	}

	var req AddSalaryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, types.ErrInvalidInput)
	}
	effectiveFrom, err := parseDate(req.EffectiveFrom)
	if err != nil {
		return badRequest(c, "Invalid effective_from date. Use YYYY-MM-DD")
	}
	if !req.BaseSalary.IsPositive() {
		return badRequest(c, "base_salary must be greater than zero")
	}

	found, err := ensureEmployee(c, id)
	if !found {
		return err
	}

	salary := models.EmployeeSalary{
		ID:            uuid.New(),
		EmployeeID:    id,
		EffectiveFrom: effectiveFrom,
		BaseSalary:    req.BaseSalary,
	}
	if err := DB.Create(&salary).Error; err != nil {
		utils.Logger.Error("Failed to create salary", zap.Error(err))
		return dbError(c)
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "Salary recorded",
		Data:    salary,
	})
}

func AddDependent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid employee ID")
	}

	var req AddDependentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, types.ErrInvalidInput)
	}
	if req.FullName == "" {
		return badRequest(c, "full_name is required")
	}

	found, err := ensureEmployee(c, id)
	if !found {
		return err
	}

	dependent := models.EmployeeDependent{
		ID:         uuid.New(),
		EmployeeID: id,
		FullName:   req.FullName,
		CPF:        req.CPF,
		CreatedAt:  time.Now(),
	}
	if err := DB.Create(&dependent).Error; err != nil {
		utils.Logger.Error("Failed to create dependent", zap.Error(err))
		return dbError(c)
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "Dependent recorded",
		Data:    dependent,
	})
}

// ensureEmployee writes the 404/500 response itself when the employee is
// missing and reports whether it exists.
func ensureEmployee(c *fiber.Ctx, id uuid.UUID) (bool, error) {
	var employee models.Employee
	if err := DB.First(&employee, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, c.Status(404).JSON(types.APIResponse{
				Success: false,
				Error:   types.ErrNotFound,
			})
		}
		return false, dbError(c)
	}
	return true, nil
}
