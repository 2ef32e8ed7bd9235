package payroll

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidRange rejects out-of-range day/month inputs before any
// computation happens.
var ErrInvalidRange = errors.New("payroll: input out of range")

type Installment string

const (
	InstallmentFirst  Installment = "first"
	InstallmentSecond Installment = "second"
	InstallmentFull   Installment = "full"
)

func (i Installment) Valid() bool {
	return i == InstallmentFirst || i == InstallmentSecond || i == InstallmentFull
}

var (
	three  = decimal.NewFromInt(3)
	twelve = decimal.NewFromInt(12)
	thirty = decimal.NewFromInt(30)
)

// VacationAmounts uses the fixed-salary model over a 30-day base: no
// variable-pay averaging.
type VacationAmounts struct {
	DailyRate        decimal.Decimal `json:"daily_rate"`
	VacationPay      decimal.Decimal `json:"vacation_pay"`
	OneThirdBonus    decimal.Decimal `json:"one_third_bonus"`
	SoldDaysPay      decimal.Decimal `json:"sold_days_pay"`
	SoldDaysOneThird decimal.Decimal `json:"sold_days_one_third"`
	GrossTotal       decimal.Decimal `json:"gross_total"`
}

// ComputeVacation derives vacation pay with the constitutional one-third
// bonus and the optional sold-days allowance (abono). daysTaken must be
// 1..30, daysSold 0..10 and the sum at most 30.
func ComputeVacation(baseSalary decimal.Decimal, daysTaken, daysSold int) (VacationAmounts, error) {
	if daysTaken < 1 || daysTaken > 30 {
		return VacationAmounts{}, ErrInvalidRange
	}
	if daysSold < 0 || daysSold > 10 {
		return VacationAmounts{}, ErrInvalidRange
	}
	if daysTaken+daysSold > 30 {
		return VacationAmounts{}, ErrInvalidRange
	}

	daily := decimal.Zero
	if baseSalary.IsPositive() {
		daily = baseSalary.Div(thirty)
	}

	vacationPay := daily.Mul(decimal.NewFromInt(int64(daysTaken))).Round(2)
	oneThird := vacationPay.Div(three).Round(2)
	soldPay := daily.Mul(decimal.NewFromInt(int64(daysSold))).Round(2)
	soldOneThird := soldPay.Div(three).Round(2)

	return VacationAmounts{
		DailyRate:        daily.Round(4),
		VacationPay:      vacationPay,
		OneThirdBonus:    oneThird,
		SoldDaysPay:      soldPay,
		SoldDaysOneThird: soldOneThird,
		GrossTotal:       vacationPay.Add(oneThird).Add(soldPay).Add(soldOneThird),
	}, nil
}

type ThirteenthAmounts struct {
	GrossAmount decimal.Decimal `json:"gross_amount"`
}

// ComputeThirteenth derives the 13th-salary gross: one twelfth of the base
// salary per month worked in the reference year (1..12).
func ComputeThirteenth(baseSalary decimal.Decimal, monthsWorked int) (ThirteenthAmounts, error) {
	if monthsWorked < 1 || monthsWorked > 12 {
		return ThirteenthAmounts{}, ErrInvalidRange
	}
	gross := baseSalary.Div(twelve).Mul(decimal.NewFromInt(int64(monthsWorked))).Round(2)
	return ThirteenthAmounts{GrossAmount: gross}, nil
}

// OvertimeAmount is hours times the hourly rate, at 2 decimal places.
func OvertimeAmount(hours, hourRate decimal.Decimal) decimal.Decimal {
	return hours.Mul(hourRate).Round(2)
}
