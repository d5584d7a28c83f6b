package service

import (
	"context"

	"github.com/sanoh-intern/be-finance-accounting/internal/tax/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("tax.service"),
		repo: p.Repo,
	}
}

func (s *Service) ListPPN(ctx context.Context) ([]domain.RateOption, error) {
	rates, err := s.repo.ListPPN(ctx, s.db)
	if err != nil {
		return nil, err
	}
	options := make([]domain.RateOption, 0, len(rates))
	for _, r := range rates {
		options = append(options, domain.RateOption{ID: r.PPNID, Description: r.PPNDescription})
	}
	return options, nil
}

func (s *Service) ListPPH(ctx context.Context) ([]domain.RateOption, error) {
	rates, err := s.repo.ListPPH(ctx, s.db)
	if err != nil {
		return nil, err
	}
	options := make([]domain.RateOption, 0, len(rates))
	for _, r := range rates {
		options = append(options, domain.RateOption{ID: r.PPHID, Description: r.PPHDescription})
	}
	return options, nil
}

func (s *Service) GetPPN(ctx context.Context, id int64) (*domain.PPN, error) {
	return s.repo.GetPPN(ctx, s.db, id)
}

func (s *Service) GetPPH(ctx context.Context, id int64) (*domain.PPH, error) {
	return s.repo.GetPPH(ctx, s.db, id)
}
