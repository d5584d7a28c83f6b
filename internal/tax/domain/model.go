// Package domain contains the static tax-rate reference tables.
package domain

import "github.com/shopspring/decimal"

// PPN is a value-added tax rate applied to the invoice base amount.
type PPN struct {
	PPNID          int64           `gorm:"column:ppn_id;primaryKey" json:"ppn_id"`
	PPNDescription string          `gorm:"column:ppn_description" json:"ppn_description"`
	PPNRate        decimal.Decimal `gorm:"column:ppn_rate;type:numeric(8,4)" json:"ppn_rate"`
}

func (PPN) TableName() string { return "inv_ppn" }

// PPH is a withholding tax rate applied to a manually entered base amount.
type PPH struct {
	PPHID          int64           `gorm:"column:pph_id;primaryKey" json:"pph_id"`
	PPHDescription string          `gorm:"column:pph_description" json:"pph_description"`
	PPHRate        decimal.Decimal `gorm:"column:pph_rate;type:numeric(8,4)" json:"pph_rate"`
}

func (PPH) TableName() string { return "inv_pph" }

// RateOption is the (id, description) pair exposed by the rate lookup endpoints.
type RateOption struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
}
