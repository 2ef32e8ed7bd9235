package main

import (
	"log"

	"contafacil/config"
	"contafacil/handlers"
	"contafacil/middleware"
	"contafacil/models"
	"contafacil/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func initServices() error {
	var err error
	DB, err = gorm.Open(sqlite.Open(config.AppConfig.DBPath), &gorm.Config{})
	if err != nil {
		return err
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Employee{},
		&models.EmployeeDependent{},
		&models.EmployeeSalary{},
		&models.PayrollRun{},
		&models.PayrollLine{},
		&models.VacationRecord{},
		&models.ThirteenthRecord{},
		&models.RevenueNote{},
		&models.GuideDocument{},
		&models.CompetenceClose{},
		&models.TaxINSSBracket{},
		&models.TaxIRRFBracket{},
		&models.IRRFConfig{},
	)
	if err != nil {
		return err
	}

	handlers.InitHandlers(DB)
	return seedAdmin()
}

// seedAdmin creates the first login when the users table is empty and an
// admin password is configured.
func seedAdmin() error {
	var count int64
	if err := DB.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 || config.AppConfig.AdminPassword == "" {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(config.AppConfig.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		ID:           uuid.New(),
		Email:        config.AppConfig.AdminEmail,
		PasswordHash: string(hash),
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}
	utils.Logger.Info("Seeded admin user", zap.String("email", admin.Email))
	return nil
}

func setupRoutes(app *fiber.App) {
	app.Post("/auth/login", handlers.Login)

	api := app.Group("/", middleware.RequireAuth)

	api.Post("/employees", handlers.CreateEmployee)
	api.Get("/employees", handlers.ListEmployees)
	api.Get("/employees/:id", handlers.GetEmployee)
	api.Post("/employees/:id/salaries", handlers.AddSalary)
	api.Post("/employees/:id/dependents", handlers.AddDependent)

	api.Post("/tax-tables/inss", handlers.AddINSSBracket)
	api.Post("/tax-tables/irrf", handlers.AddIRRFBracket)
	api.Put("/tax-tables/irrf-config", handlers.SetIRRFConfig)
	api.Get("/tax-tables", handlers.ListTaxTables)

	api.Post("/payroll/runs", handlers.CreateOrOpenRun)
	api.Get("/payroll/runs", handlers.GetRun)
	api.Put("/payroll/runs/:id/lines", handlers.UpdateRunLines)
	api.Get("/payroll/runs/:id/holerite/:employeeID", handlers.GetHolerite)
	api.Get("/payroll/summary", handlers.GetMonthSummary)

	api.Post("/employees/:id/vacations", handlers.CreateVacation)
	api.Get("/employees/:id/vacations", handlers.ListVacations)
	api.Post("/employees/:id/thirteenth", handlers.CreateThirteenth)
	api.Get("/employees/:id/thirteenth", handlers.ListThirteenth)

	api.Post("/revenue", handlers.AddRevenue)
	api.Get("/revenue", handlers.ListRevenue)
	api.Delete("/revenue/:id", handlers.DeleteRevenue)

	api.Put("/guides", handlers.UpsertGuide)
	api.Get("/guides", handlers.ListGuides)

	api.Get("/closing", handlers.GetCloseState)
	api.Post("/closing/close", handlers.MarkClosed)
	api.Post("/closing/reopen", handlers.Reopen)
	api.Get("/agenda", handlers.GetAgenda)
	api.Get("/dashboard", handlers.GetDashboard)
}

func main() {
	config.LoadConfig()
	utils.InitLogger()
	defer utils.Logger.Sync()

	if err := initServices(); err != nil {
		log.Fatal("Failed to initialize services:", err)
	}

	app := fiber.New()
	setupRoutes(app)

	utils.Logger.Info("Starting server", zap.String("port", config.AppConfig.Port))
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
