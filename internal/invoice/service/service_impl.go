package service

import (
	"context"
	"errors"
	"io"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sanoh-intern/be-finance-accounting/internal/clock"
	"github.com/sanoh-intern/be-finance-accounting/internal/config"
	invoicedomain "github.com/sanoh-intern/be-finance-accounting/internal/invoice/domain"
	"github.com/sanoh-intern/be-finance-accounting/internal/providers/email"
	"github.com/sanoh-intern/be-finance-accounting/internal/providers/pdf"
	"github.com/sanoh-intern/be-finance-accounting/internal/sequence"
	"github.com/sanoh-intern/be-finance-accounting/internal/storage"
	taxdomain "github.com/sanoh-intern/be-finance-accounting/internal/tax/domain"
)

// ReceiptRenderer renders the payment-authorization receipt document.
type ReceiptRenderer interface {
	GenerateReceipt(ctx context.Context, data pdf.ReceiptData) (io.Reader, error)
}

// AddressResolver looks up a business partner's address for notifications.
type AddressResolver interface {
	AddressFor(ctx context.Context, bpCode string) (string, error)
}

type ServiceParam struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Cfg       config.Config
	TaxSvc    taxdomain.Service
	Store     storage.Store
	Renderer  ReceiptRenderer
	Mailer    email.Provider
	Counter   sequence.ReceiptCounter
	Addresses AddressResolver
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	cfg   config.Config

	taxSvc    taxdomain.Service
	store     storage.Store
	renderer  ReceiptRenderer
	mailer    email.Provider
	counter   sequence.ReceiptCounter
	addresses AddressResolver
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("invoice.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		cfg:       p.Cfg,
		taxSvc:    p.TaxSvc,
		store:     p.Store,
		renderer:  p.Renderer,
		mailer:    p.Mailer,
		counter:   p.Counter,
		addresses: p.Addresses,
	}
}

func (s *Service) List(ctx context.Context) ([]invoicedomain.InvHeader, error) {
	var headers []invoicedomain.InvHeader
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&headers).Error
	if err != nil {
		return nil, err
	}
	return headers, nil
}

func (s *Service) ListByBPCode(ctx context.Context, bpCode string) ([]invoicedomain.InvHeader, error) {
	var headers []invoicedomain.InvHeader
	err := s.db.WithContext(ctx).
		Where("bp_code = ?", bpCode).
		Order("created_at DESC").
		Find(&headers).Error
	if err != nil {
		return nil, err
	}
	return headers, nil
}

func (s *Service) Get(ctx context.Context, invNo string) (*invoicedomain.InvHeader, error) {
	var header invoicedomain.InvHeader
	err := s.db.WithContext(ctx).Where("inv_no = ?", invNo).First(&header).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invoicedomain.ErrNotFound
		}
		return nil, err
	}
	return &header, nil
}

func (s *Service) ListLines(ctx context.Context, invNo string) ([]invoicedomain.InvLine, error) {
	var lines []invoicedomain.InvLine
	err := s.db.WithContext(ctx).
		Where("inv_supplier_no = ?", invNo).
		Order("po_no, gr_no").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *Service) ListOutstandingLines(ctx context.Context, bpCode string) ([]invoicedomain.InvLine, error) {
	stmt := s.db.WithContext(ctx).Where("inv_supplier_no IS NULL")
	if bpCode != "" {
		stmt = stmt.Where("bp_id = ?", bpCode)
	}
	var lines []invoicedomain.InvLine
	if err := stmt.Order("po_no, gr_no").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *Service) ListDocuments(ctx context.Context, invNo string) ([]invoicedomain.InvDocument, error) {
	var docs []invoicedomain.InvDocument
	err := s.db.WithContext(ctx).
		Where("inv_no = ?", invNo).
		Order("created_at").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// lockHeader loads a header row for update inside a transaction,
// serializing concurrent transitions on the same invoice number.
func lockHeader(tx *gorm.DB, invNo string) (*invoicedomain.InvHeader, error) {
	stmt := tx
	if tx.Dialector.Name() != "sqlite" {
		stmt = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var header invoicedomain.InvHeader
	err := stmt.Where("inv_no = ?", invNo).First(&header).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invoicedomain.ErrNotFound
		}
		return nil, err
	}
	return &header, nil
}
