package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email        string    `gorm:"unique;not null" json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

type Employee struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	FullName  string     `gorm:"not null" json:"full_name"`
	CPF       string     `json:"cpf,omitempty"`
	HiredAt   *time.Time `gorm:"type:date" json:"hired_at,omitempty"`
	Active    bool       `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}

// Dependent counts toward the per-dependent IRRF deduction.
type EmployeeDependent struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee   Employee  `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"-"`
	FullName   string    `gorm:"not null" json:"full_name"`
	CPF        string    `json:"cpf,omitempty"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

// EmployeeSalary is a history row: the salary in force at a competence is
// the one with the latest effective_from not after the competence start.
type EmployeeSalary struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	EmployeeID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee      Employee        `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"-"`
	EffectiveFrom time.Time       `gorm:"type:date;not null;index" json:"effective_from"`
	BaseSalary    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"base_salary"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
}

type PayrollRun struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Year             int             `gorm:"not null;uniqueIndex:uq_payroll_run_competence" json:"year"`
	Month            int             `gorm:"not null;uniqueIndex:uq_payroll_run_competence" json:"month"`
	OvertimeHourRate decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"overtime_hour_rate"`
	CreatedAt        time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"not null" json:"updated_at"`
}

type PayrollLine struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	PayrollRunID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_line_run_employee" json:"payroll_run_id"`
	EmployeeID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_line_run_employee" json:"employee_id"`
	Employee         Employee        `gorm:"foreignKey:EmployeeID" json:"employee"`
	BaseSalary       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"base_salary"`
	OvertimeHours    decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"overtime_hours"`
	OvertimeHourRate decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"overtime_hour_rate"`
	OvertimeAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"overtime_amount"`
	GrossTotal       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"gross_total"`
	CreatedAt        time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"not null" json:"updated_at"`
}

// VacationRecord is a frozen snapshot: every value used in the calculation
// is copied in at creation time and never recomputed.
type VacationRecord struct {
	ID               uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	EmployeeID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee         Employee         `gorm:"foreignKey:EmployeeID" json:"-"`
	Year             int              `gorm:"not null;index:idx_vacation_competence" json:"year"`
	Month            int              `gorm:"not null;index:idx_vacation_competence" json:"month"`
	StartDate        time.Time        `gorm:"type:date;not null" json:"start_date"`
	PayDate          *time.Time       `gorm:"type:date" json:"pay_date,omitempty"`
	DaysTaken        int              `gorm:"not null" json:"days_taken"`
	DaysSold         int              `gorm:"not null" json:"days_sold"`
	BaseSalaryAtCalc decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"base_salary_at_calc"`
	VacationPay      decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"vacation_pay"`
	OneThirdBonus    decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"one_third_bonus"`
	SoldDaysPay      decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"sold_days_pay"`
	SoldDaysOneThird decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"sold_days_one_third"`
	GrossTotal       decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"gross_total"`
	INSSEstimate     *decimal.Decimal `gorm:"type:decimal(12,2)" json:"inss_estimate,omitempty"`
	IRRFEstimate     *decimal.Decimal `gorm:"type:decimal(12,2)" json:"irrf_estimate,omitempty"`
	NetEstimate      *decimal.Decimal `gorm:"type:decimal(12,2)" json:"net_estimate,omitempty"`
	CreatedAt        time.Time        `gorm:"not null" json:"created_at"`
}

// ThirteenthRecord is a frozen snapshot of one 13th-salary installment.
// Estimates stay null on the first installment, which is untaxed by statute.
type ThirteenthRecord struct {
	ID               uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	EmployeeID       uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_thirteenth_employee_year_installment" json:"employee_id"`
	Employee         Employee         `gorm:"foreignKey:EmployeeID" json:"-"`
	ReferenceYear    int              `gorm:"not null;uniqueIndex:uq_thirteenth_employee_year_installment" json:"reference_year"`
	Installment      string           `gorm:"not null;uniqueIndex:uq_thirteenth_employee_year_installment" json:"installment"`
	PaymentYear      int              `gorm:"not null" json:"payment_year"`
	PaymentMonth     int              `gorm:"not null" json:"payment_month"`
	MonthsWorked     int              `gorm:"not null" json:"months_worked"`
	BaseSalaryAtCalc decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"base_salary_at_calc"`
	GrossAmount      decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"gross_amount"`
	INSSEstimate     *decimal.Decimal `gorm:"type:decimal(12,2)" json:"inss_estimate,omitempty"`
	IRRFEstimate     *decimal.Decimal `gorm:"type:decimal(12,2)" json:"irrf_estimate,omitempty"`
	NetEstimate      *decimal.Decimal `gorm:"type:decimal(12,2)" json:"net_estimate,omitempty"`
	CreatedAt        time.Time        `gorm:"not null" json:"created_at"`
}

type RevenueNote struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Year         int             `gorm:"not null;index:idx_revenue_competence" json:"year"`
	Month        int             `gorm:"not null;index:idx_revenue_competence" json:"month"`
	IssuedAt     *time.Time      `gorm:"type:date" json:"issued_at,omitempty"`
	CustomerName string          `json:"customer_name,omitempty"`
	Description  string          `json:"description,omitempty"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
}

// GuideDocument holds one statutory payment guide (DAS/FGTS/DARF) per
// competence. The PDF itself lives outside the core; Filename is metadata.
type GuideDocument struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Year      int              `gorm:"not null;uniqueIndex:uq_guide_competence_kind" json:"year"`
	Month     int              `gorm:"not null;uniqueIndex:uq_guide_competence_kind" json:"month"`
	Kind      string           `gorm:"not null;uniqueIndex:uq_guide_competence_kind" json:"kind"` // das, fgts, darf
	Filename  *string          `json:"filename,omitempty"`
	Amount    *decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount,omitempty"`
	DueDate   *time.Time       `gorm:"type:date" json:"due_date,omitempty"`
	PaidAt    *time.Time       `gorm:"type:date" json:"paid_at,omitempty"`
	CreatedAt time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time        `gorm:"not null" json:"updated_at"`
}

// CompetenceClose marks a competence as closed. Closing is warn-only:
// the row gates nothing, it only triggers warnings on later mutations.
type CompetenceClose struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Year      int       `gorm:"not null;uniqueIndex:uq_competence_close" json:"year"`
	Month     int       `gorm:"not null;uniqueIndex:uq_competence_close" json:"month"`
	ClosedAt  time.Time `gorm:"not null" json:"closed_at"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

type TaxINSSBracket struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	ValidFrom time.Time        `gorm:"type:date;not null;index" json:"valid_from"`
	UpTo      *decimal.Decimal `gorm:"type:decimal(12,2)" json:"up_to,omitempty"` // nil = unbounded last bracket
	Rate      decimal.Decimal  `gorm:"type:decimal(8,6);not null" json:"rate"`    // e.g. 0.075
	CreatedAt time.Time        `gorm:"not null" json:"created_at"`
}

type TaxIRRFBracket struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	ValidFrom time.Time        `gorm:"type:date;not null;index" json:"valid_from"`
	UpTo      *decimal.Decimal `gorm:"type:decimal(12,2)" json:"up_to,omitempty"`
	Rate      decimal.Decimal  `gorm:"type:decimal(8,6);not null" json:"rate"`
	Deduction decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"deduction"` // parcela a deduzir
	CreatedAt time.Time        `gorm:"not null" json:"created_at"`
}

type IRRFConfig struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ValidFrom          time.Time       `gorm:"type:date;not null;uniqueIndex" json:"valid_from"`
	DependentDeduction decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"dependent_deduction"`
	CreatedAt          time.Time       `gorm:"not null" json:"created_at"`
}
