package reconcile

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sanoh-intern/be-finance-accounting/internal/clock"
	"github.com/sanoh-intern/be-finance-accounting/internal/invoice/domain"
	"github.com/sanoh-intern/be-finance-accounting/internal/observability/metrics"
)

// syncUpdateColumns are the ledger-owned fields refreshed when a
// (po_no, gr_no) row already exists. inv_supplier_no and inv_due_date
// are workflow-owned and never touched on conflict.
var syncUpdateColumns = []string{
	"bp_id", "bp_name",
	"currency", "po_type", "po_reference", "po_line", "po_sequence", "po_receipt_sequence",
	"actual_receipt_date", "actual_receipt_year", "actual_receipt_period",
	"receipt_no", "receipt_line", "packing_slip",
	"item_no", "ics_code", "ics_part", "part_no", "item_desc",
	"item_group", "item_type", "item_type_desc",
	"request_qty", "actual_receipt_qty", "approve_qty", "unit",
	"receipt_amount", "receipt_unit_price",
	"is_final_receipt", "is_confirmed",
	"inv_doc_no", "inv_doc_date", "inv_qty", "inv_amount",
	"payment_doc", "payment_doc_date",
	"updated_at",
}

type SyncerParam struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Ledger ReceiptLedger
}

// Syncer upserts paid ERP receipt rows into inv_line. A failed record
// is logged and counted but never aborts the run.
type Syncer struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	clock  clock.Clock
	ledger ReceiptLedger
}

func NewSyncer(p SyncerParam) *Syncer {
	return &Syncer{
		db:     p.DB,
		log:    p.Log.Named("reconcile.syncer"),
		genID:  p.GenID,
		clock:  p.Clock,
		ledger: p.Ledger,
	}
}

// Run executes one reconciliation pass over the current sync window.
func (s *Syncer) Run(ctx context.Context) error {
	from, to := SyncWindow(s.clock.Now())
	records, err := s.ledger.FetchPaid(ctx, from, to)
	if err != nil {
		return err
	}

	var failed int
	for _, rec := range records {
		if err := s.upsert(ctx, rec); err != nil {
			failed++
			metrics.IncReconcileRecord(metrics.ReconcileResultFailed)
			s.log.Warn("receipt record sync failed",
				zap.String("po_no", rec.PONo),
				zap.String("gr_no", rec.GRNo),
				zap.Error(err))
		}
	}

	s.log.Info("reconciliation pass complete",
		zap.Time("window_from", from),
		zap.Time("window_to", to),
		zap.Int("fetched", len(records)),
		zap.Int("failed", failed))
	return nil
}

func (s *Syncer) upsert(ctx context.Context, rec ReceiptRecord) error {
	now := s.clock.Now()
	line := domain.InvLine{
		InvLineID: s.genID.Generate(),

		PONo: rec.PONo,
		GRNo: rec.GRNo,

		BPID:   rec.BPID,
		BPName: rec.BPName,

		Currency:          rec.Currency,
		POType:            rec.POType,
		POReference:       rec.POReference,
		POLine:            rec.POLine,
		POSequence:        rec.POSequence,
		POReceiptSequence: rec.POReceiptSequence,

		ActualReceiptDate:   rec.ActualReceiptDate,
		ActualReceiptYear:   rec.ActualReceiptYear,
		ActualReceiptPeriod: rec.ActualReceiptPeriod,

		ReceiptNo:   rec.ReceiptNo,
		ReceiptLine: rec.ReceiptLine,
		PackingSlip: rec.PackingSlip,

		ItemNo:       rec.ItemNo,
		ICSCode:      rec.ICSCode,
		ICSPart:      rec.ICSPart,
		PartNo:       rec.PartNo,
		ItemDesc:     rec.ItemDesc,
		ItemGroup:    rec.ItemGroup,
		ItemType:     rec.ItemType,
		ItemTypeDesc: rec.ItemTypeDesc,

		RequestQty:       rec.RequestQty,
		ActualReceiptQty: rec.ActualReceiptQty,
		ApproveQty:       rec.ApproveQty,
		Unit:             rec.Unit,

		ReceiptAmount:    rec.ReceiptAmount,
		ReceiptUnitPrice: rec.ReceiptUnitPrice,

		IsFinalReceipt: rec.IsFinalReceipt,
		IsConfirmed:    rec.IsConfirmed,

		InvDocNo:   rec.InvDocNo,
		InvDocDate: rec.InvDocDate,
		InvQty:     rec.InvQty,
		InvAmount:  rec.InvAmount,

		InvSupplierNo: rec.InvSupplierNo,
		InvDueDate:    rec.InvDueDate,

		PaymentDoc:     rec.PaymentDoc,
		PaymentDocDate: rec.PaymentDocDate,

		CreatedAt: now,
		UpdatedAt: now,
	}

	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "po_no"}, {Name: "gr_no"}},
		DoUpdates: clause.AssignmentColumns(syncUpdateColumns),
	}).Create(&line)
	if res.Error != nil {
		return res.Error
	}

	// A conflict-update also reports one affected row, so the split
	// between inserted and updated is approximated by checking whether
	// our generated primary key survived.
	var stored domain.InvLine
	if err := s.db.WithContext(ctx).
		Select("inv_line_id").
		Where("po_no = ? AND gr_no = ?", rec.PONo, rec.GRNo).
		First(&stored).Error; err == nil && stored.InvLineID == line.InvLineID {
		metrics.IncReconcileRecord(metrics.ReconcileResultInserted)
	} else {
		metrics.IncReconcileRecord(metrics.ReconcileResultUpdated)
	}
	return nil
}
