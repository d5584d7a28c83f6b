package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sanoh-intern/be-finance-accounting/internal/auth"
	invoicedomain "github.com/sanoh-intern/be-finance-accounting/internal/invoice/domain"
	"github.com/sanoh-intern/be-finance-accounting/internal/observability/metrics"
	"github.com/sanoh-intern/be-finance-accounting/internal/storage"
	"github.com/sanoh-intern/be-finance-accounting/pkg/db"
)

// Create builds a new invoice header from available lines, attaches the
// lines and persists any uploaded documents as one atomic unit.
func (s *Service) Create(ctx context.Context, actor auth.Actor, req invoicedomain.CreateRequest) (*invoicedomain.InvHeader, error) {
	if len(req.LineIDs) == 0 {
		return nil, invoicedomain.ErrNoLines
	}

	ppn, err := s.taxSvc.GetPPN(ctx, req.PPNID)
	if err != nil {
		return nil, err
	}

	var header *invoicedomain.InvHeader
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines := make([]invoicedomain.InvLine, 0, len(req.LineIDs))
		totalDPP := decimal.Zero
		for _, id := range req.LineIDs {
			var line invoicedomain.InvLine
			if err := tx.Where("inv_line_id = ?", id).First(&line).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: line %d", invoicedomain.ErrLineNotFound, id)
				}
				return err
			}
			if line.InvSupplierNo != nil {
				return fmt.Errorf("%w: line %d attached to %s", invoicedomain.ErrLineTaken, id, *line.InvSupplierNo)
			}
			lines = append(lines, line)
			totalDPP = totalDPP.Add(line.ReceiptValue())
		}

		// Supplier actors own their invoices; finance derives the owner
		// from the first selected line.
		bpCode := actor.BPCode
		if actor.Role != auth.RoleSupplier {
			bpCode = lines[0].BPID
		}

		taxBase := totalDPP
		taxAmount := taxBase.Add(taxBase.Mul(ppn.PPNRate))

		now := s.clock.Now()
		header = &invoicedomain.InvHeader{
			InvNo:         req.InvNo,
			BPCode:        bpCode,
			InvDate:       req.InvDate,
			InvFaktur:     req.InvFaktur,
			InvFakturDate: req.InvFakturDate,
			TotalDPP:      totalDPP,
			PPNID:         req.PPNID,
			TaxBaseAmount: taxBase,
			TaxAmount:     taxAmount,
			TotalAmount:   taxAmount,
			Status:        invoicedomain.StatusNew,
			Reason:        req.Reason,
			CreatedBy:     actor.Name,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Create(header).Error; err != nil {
			if db.IsDuplicateKeyErr(err) {
				return invoicedomain.ErrDuplicateInvoice
			}
			return err
		}

		for _, upload := range req.Uploads {
			path := storage.DocumentPath(upload.Type, req.InvNo)
			if _, err := s.store.Save(ctx, path, upload.Content); err != nil {
				return fmt.Errorf("store %s document: %w", upload.Type, err)
			}
			doc := invoicedomain.InvDocument{
				InvDocID:  s.genID.Generate(),
				InvNo:     req.InvNo,
				Type:      string(upload.Type),
				File:      path,
				CreatedAt: now,
			}
			if err := tx.Create(&doc).Error; err != nil {
				return err
			}
		}

		for _, line := range lines {
			err := tx.Model(&invoicedomain.InvLine{}).
				Where("inv_line_id = ?", line.InvLineID).
				Updates(map[string]interface{}{
					"inv_supplier_no": req.InvNo,
					"inv_due_date":    req.InvDate,
				}).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncTransition(string(invoicedomain.StatusNew))
	s.notifyCreated(ctx, header)
	return header, nil
}

// Decide reviews an invoice: rejection releases the attached lines,
// the approval path applies the withholding selection and recomputes the
// payable total. When the resulting status is Ready To Payment the
// receipt side effect runs after the transaction commits.
func (s *Service) Decide(ctx context.Context, actor auth.Actor, invNo string, req invoicedomain.DecideRequest) (*invoicedomain.InvHeader, error) {
	if !req.Status.Valid() {
		return nil, invoicedomain.ErrInvalidTransition
	}
	// Checked before any mutation.
	if req.Status == invoicedomain.StatusRejected && req.Reason == "" {
		return nil, invoicedomain.ErrReasonRequired
	}

	var pphRate decimal.Decimal
	if req.Status != invoicedomain.StatusRejected {
		pph, err := s.taxSvc.GetPPH(ctx, req.PPHID)
		if err != nil {
			return nil, err
		}
		pphRate = pph.PPHRate
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		header, err := lockHeader(tx, invNo)
		if err != nil {
			return err
		}
		if !invoicedomain.CanTransition(header.Status, req.Status) {
			return invoicedomain.ErrInvalidTransition
		}

		now := s.clock.Now()

		if req.Status == invoicedomain.StatusRejected {
			err := tx.Model(&invoicedomain.InvHeader{}).
				Where("inv_no = ?", invNo).
				Updates(map[string]interface{}{
					"status":     invoicedomain.StatusRejected,
					"reason":     req.Reason,
					"updated_by": actor.Name,
					"updated_at": now,
				}).Error
			if err != nil {
				return err
			}

			// Release every attached line so it becomes available again.
			return tx.Model(&invoicedomain.InvLine{}).
				Where("inv_supplier_no = ?", invNo).
				Updates(map[string]interface{}{
					"inv_supplier_no": nil,
					"inv_due_date":    nil,
				}).Error
		}

		for _, id := range req.RemoveLineIDs {
			err := tx.Model(&invoicedomain.InvLine{}).
				Where("inv_line_id = ? AND inv_supplier_no = ?", id, invNo).
				Updates(map[string]interface{}{
					"inv_supplier_no": nil,
					"inv_due_date":    nil,
				}).Error
			if err != nil {
				return err
			}
		}

		// tax_amount is fixed at creation time; only the withholding side
		// and the payable total move here.
		pphAmount := req.PPHBaseAmount.Add(req.PPHBaseAmount.Mul(pphRate))
		totalAmount := header.TaxAmount.Sub(pphAmount)

		return tx.Model(&invoicedomain.InvHeader{}).
			Where("inv_no = ?", invNo).
			Updates(map[string]interface{}{
				"pph_id":          req.PPHID,
				"pph_base_amount": req.PPHBaseAmount,
				"pph_amount":      pphAmount,
				"total_amount":    totalAmount,
				"status":          req.Status,
				"plan_date":       req.PlanDate,
				"reason":          req.Reason,
				"updated_by":      actor.Name,
				"updated_at":      now,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.IncTransition(string(req.Status))

	if req.Status == invoicedomain.StatusReadyToPayment {
		if _, err := s.GenerateReceipt(ctx, invNo); err != nil {
			// The transition is committed; the caller sees the artifact
			// failure and can retry receipt generation.
			return nil, err
		}
	}

	return s.Get(ctx, invNo)
}

// MarkInProcess advances a header from New to In Process.
func (s *Service) MarkInProcess(ctx context.Context, actor auth.Actor, invNo string) (*invoicedomain.InvHeader, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		header, err := lockHeader(tx, invNo)
		if err != nil {
			return err
		}
		if header.Status != invoicedomain.StatusNew {
			return invoicedomain.ErrNotFound
		}

		return tx.Model(&invoicedomain.InvHeader{}).
			Where("inv_no = ?", invNo).
			Updates(map[string]interface{}{
				"status":     invoicedomain.StatusInProcess,
				"updated_by": actor.Name,
				"updated_at": s.clock.Now(),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.IncTransition(string(invoicedomain.StatusInProcess))
	return s.Get(ctx, invNo)
}

// UploadPayment marks a Ready To Payment invoice as Paid, either with a
// payment-proof upload or a caller-supplied actual payment date.
func (s *Service) UploadPayment(ctx context.Context, actor auth.Actor, invNo string, req invoicedomain.PaymentRequest) (*invoicedomain.InvHeader, error) {
	if req.PaymentFile == nil && req.ActualDate == nil {
		return nil, invoicedomain.ErrActualDateMissing
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		header, err := lockHeader(tx, invNo)
		if err != nil {
			return err
		}
		if header.Status != invoicedomain.StatusReadyToPayment {
			return invoicedomain.ErrNotFound
		}

		now := s.clock.Now()
		actualDate := now
		if req.PaymentFile != nil {
			path := storage.DocumentPath(storage.DocumentPayment, invNo)
			if _, err := s.store.Save(ctx, path, req.PaymentFile.Content); err != nil {
				return fmt.Errorf("store payment document: %w", err)
			}
			doc := invoicedomain.InvDocument{
				InvDocID:  s.genID.Generate(),
				InvNo:     invNo,
				Type:      string(storage.DocumentPayment),
				File:      path,
				CreatedAt: now,
			}
			if err := tx.Create(&doc).Error; err != nil {
				return err
			}
		} else {
			actualDate = *req.ActualDate
		}

		return tx.Model(&invoicedomain.InvHeader{}).
			Where("inv_no = ?", invNo).
			Updates(map[string]interface{}{
				"status":      invoicedomain.StatusPaid,
				"actual_date": actualDate,
				"updated_by":  actor.Name,
				"updated_at":  now,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.IncTransition(string(invoicedomain.StatusPaid))
	return s.Get(ctx, invNo)
}

func (s *Service) notifyCreated(ctx context.Context, header *invoicedomain.InvHeader) {
	address, err := s.addresses.AddressFor(ctx, header.BPCode)
	if err != nil {
		s.log.Warn("partner address lookup failed",
			zap.String("bp_code", header.BPCode),
			zap.Error(err),
		)
	}

	subject := fmt.Sprintf("Invoice %s created", header.InvNo)
	body := createdMailBody(header, address)
	if err := s.mailer.Send(ctx, []string{s.cfg.FinanceEmail}, subject, body); err != nil {
		s.log.Warn("invoice created notification failed",
			zap.String("inv_no", header.InvNo),
			zap.Error(err),
		)
	}
}
