package handlers

import (
	"errors"
	"time"

	"contafacil/models"
	"contafacil/payroll"
	"contafacil/tax"
	"contafacil/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TableSource resolves active bracket tables from storage. It implements
// tax.Provider so the calculators stay pure functions over explicit tables.
type TableSource struct {
	DB *gorm.DB
}

var _ tax.Provider = (*TableSource)(nil)

func (s *TableSource) ActiveTable(kind tax.Kind, reference time.Time) (tax.BracketTable, error) {
	switch kind {
	case tax.KindINSS:
		var latest models.TaxINSSBracket
		err := s.DB.Where("valid_from <= ?", reference).
			Order("valid_from DESC").
			First(&latest).Error
		if err != nil {
			return tax.BracketTable{}, tax.ErrMissingTaxTable
		}
		validFrom := latest.ValidFrom

		var rows []models.TaxINSSBracket
		if err := s.DB.Where("valid_from = ?", validFrom).
			Order("up_to IS NULL, up_to ASC").
			Find(&rows).Error; err != nil || len(rows) == 0 {
			return tax.BracketTable{}, tax.ErrMissingTaxTable
		}

		table := tax.BracketTable{Kind: tax.KindINSS, ValidFrom: validFrom}
		for _, r := range rows {
			table.Brackets = append(table.Brackets, tax.Bracket{UpTo: r.UpTo, Rate: r.Rate})
		}
		return table, nil

	case tax.KindIRRF:
		var latest models.TaxIRRFBracket
		err := s.DB.Where("valid_from <= ?", reference).
			Order("valid_from DESC").
			First(&latest).Error
		if err != nil {
			return tax.BracketTable{}, tax.ErrMissingTaxTable
		}
		validFrom := latest.ValidFrom

		var rows []models.TaxIRRFBracket
		if err := s.DB.Where("valid_from = ?", validFrom).
			Order("up_to IS NULL, up_to ASC").
			Find(&rows).Error; err != nil || len(rows) == 0 {
			return tax.BracketTable{}, tax.ErrMissingTaxTable
		}

		table := tax.BracketTable{Kind: tax.KindIRRF, ValidFrom: validFrom}
		for _, r := range rows {
			table.Brackets = append(table.Brackets, tax.Bracket{UpTo: r.UpTo, Rate: r.Rate, Deduction: r.Deduction})
		}
		return table, nil
	}

	return tax.BracketTable{}, tax.ErrMissingTaxTable
}

func (s *TableSource) DependentDeduction(reference time.Time) (decimal.Decimal, error) {
	var cfg models.IRRFConfig
	err := s.DB.Where("valid_from <= ?", reference).
		Order("valid_from DESC").
		First(&cfg).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Logger.Error("Failed to load IRRF config", zap.Error(err))
		}
		return decimal.Zero, tax.ErrMissingTaxTable
	}
	return cfg.DependentDeduction, nil
}

// LoadTables gathers whatever is active at the reference date. Missing
// tables come back as nil so estimates stay unset instead of guessed.
func (s *TableSource) LoadTables(reference time.Time) payroll.Tables {
	t := payroll.Tables{}
	if inss, err := s.ActiveTable(tax.KindINSS, reference); err == nil {
		t.INSS = &inss
	}
	if irrf, err := s.ActiveTable(tax.KindIRRF, reference); err == nil {
		t.IRRF = &irrf
	}
	if ded, err := s.DependentDeduction(reference); err == nil {
		t.DependentDeduction = ded
		t.HasIRRFConfig = true
	}
	return t
}
