package repository

import (
	"context"
	"errors"

	"github.com/sanoh-intern/be-finance-accounting/internal/tax/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListPPN(ctx context.Context, db *gorm.DB) ([]domain.PPN, error) {
	var rates []domain.PPN
	if err := db.WithContext(ctx).Order("ppn_id").Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *repo) ListPPH(ctx context.Context, db *gorm.DB) ([]domain.PPH, error) {
	var rates []domain.PPH
	if err := db.WithContext(ctx).Order("pph_id").Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *repo) GetPPN(ctx context.Context, db *gorm.DB, id int64) (*domain.PPN, error) {
	var rate domain.PPN
	err := db.WithContext(ctx).Where("ppn_id = ?", id).First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRateNotFound
		}
		return nil, err
	}
	return &rate, nil
}

func (r *repo) GetPPH(ctx context.Context, db *gorm.DB, id int64) (*domain.PPH, error) {
	var rate domain.PPH
	err := db.WithContext(ctx).Where("pph_id = ?", id).First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRateNotFound
		}
		return nil, err
	}
	return &rate, nil
}
