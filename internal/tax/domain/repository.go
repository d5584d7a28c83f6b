package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	ListPPN(ctx context.Context, db *gorm.DB) ([]PPN, error)
	ListPPH(ctx context.Context, db *gorm.DB) ([]PPH, error)
	GetPPN(ctx context.Context, db *gorm.DB, id int64) (*PPN, error)
	GetPPH(ctx context.Context, db *gorm.DB, id int64) (*PPH, error)
}
