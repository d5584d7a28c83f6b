package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sanoh-intern/be-finance-accounting/internal/tax/domain"
	"github.com/sanoh-intern/be-finance-accounting/internal/tax/repository"
)

func setupTaxService(t *testing.T) domain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.PPN{}, &domain.PPH{}))

	require.NoError(t, db.Create(&domain.PPN{
		PPNID: 1, PPNDescription: "PPN 11%", PPNRate: decimal.NewFromFloat(0.11),
	}).Error)
	require.NoError(t, db.Create(&domain.PPH{
		PPHID: 1, PPHDescription: "PPh 23 - Services 2%", PPHRate: decimal.NewFromFloat(0.02),
	}).Error)

	return NewService(ServiceParam{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})
}

func TestListRatesReturnOptionsOnly(t *testing.T) {
	svc := setupTaxService(t)

	ppn, err := svc.ListPPN(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.RateOption{{ID: 1, Description: "PPN 11%"}}, ppn)

	pph, err := svc.ListPPH(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.RateOption{{ID: 1, Description: "PPh 23 - Services 2%"}}, pph)
}

func TestGetRate(t *testing.T) {
	svc := setupTaxService(t)

	ppn, err := svc.GetPPN(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "0.11", ppn.PPNRate.String())

	_, err = svc.GetPPN(context.Background(), 99)
	require.ErrorIs(t, err, domain.ErrRateNotFound)

	_, err = svc.GetPPH(context.Background(), 99)
	require.ErrorIs(t, err, domain.ErrRateNotFound)
}
