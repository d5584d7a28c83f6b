// Package partner resolves business-partner master data used in
// notification bodies. Missing partners degrade to empty fields.
package partner

import (
	"context"
	"errors"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("partner.service",
	fx.Provide(NewService),
)

// Partner is the business-partner master record.
type Partner struct {
	BPCode   string `gorm:"column:bp_code;primaryKey" json:"bp_code"`
	BPName   string `gorm:"column:bp_name" json:"bp_name"`
	AdrLine1 string `gorm:"column:adr_line_1" json:"adr_line_1"`
}

func (Partner) TableName() string { return "partner" }

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// AddressFor returns the first address line for a partner code,
// or empty when the partner is unknown.
func (s *Service) AddressFor(ctx context.Context, bpCode string) (string, error) {
	var p Partner
	err := s.db.WithContext(ctx).Where("bp_code = ?", bpCode).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return p.AdrLine1, nil
}
