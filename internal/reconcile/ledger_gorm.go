package reconcile

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sanoh-intern/be-finance-accounting/internal/config"
	"github.com/sanoh-intern/be-finance-accounting/pkg/db"
)

// GormLedger reads the ERP receipt table over its own read-only
// connection, separate from the primary database.
type GormLedger struct {
	db *gorm.DB
}

func NewGormLedger(cfg config.Config) (*GormLedger, error) {
	conn, err := db.Open(db.LedgerSettings(cfg))
	if err != nil {
		return nil, fmt.Errorf("open erp ledger: %w", err)
	}
	zap.L().Info("connected to erp receipt ledger", zap.String("db_type", cfg.ERPDBType))
	return &GormLedger{db: conn}, nil
}

func (l *GormLedger) FetchPaid(ctx context.Context, from, to time.Time) ([]ReceiptRecord, error) {
	var records []ReceiptRecord
	err := l.db.WithContext(ctx).
		Where("payment_doc_date IS NOT NULL").
		Where("payment_doc_date >= ? AND payment_doc_date < ?", from, to).
		Order("payment_doc_date DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("fetch paid receipts: %w", err)
	}
	return records, nil
}
