// Package reconcile mirrors paid receipt lines from the external ERP
// ledger into the local invoice-line table.
package reconcile

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptRecord is one row of the read-only ERP receipt ledger.
type ReceiptRecord struct {
	PONo string `gorm:"column:po_no"`
	GRNo string `gorm:"column:gr_no"`

	BPID   string `gorm:"column:bp_id"`
	BPName string `gorm:"column:bp_name"`

	Currency          string `gorm:"column:currency"`
	POType            string `gorm:"column:po_type"`
	POReference       string `gorm:"column:po_reference"`
	POLine            string `gorm:"column:po_line"`
	POSequence        string `gorm:"column:po_sequence"`
	POReceiptSequence string `gorm:"column:po_receipt_sequence"`

	ActualReceiptDate   *time.Time `gorm:"column:actual_receipt_date"`
	ActualReceiptYear   int        `gorm:"column:actual_receipt_year"`
	ActualReceiptPeriod int        `gorm:"column:actual_receipt_period"`

	ReceiptNo   string `gorm:"column:receipt_no"`
	ReceiptLine string `gorm:"column:receipt_line"`
	PackingSlip string `gorm:"column:packing_slip"`

	ItemNo       string `gorm:"column:item_no"`
	ICSCode      string `gorm:"column:ics_code"`
	ICSPart      string `gorm:"column:ics_part"`
	PartNo       string `gorm:"column:part_no"`
	ItemDesc     string `gorm:"column:item_desc"`
	ItemGroup    string `gorm:"column:item_group"`
	ItemType     string `gorm:"column:item_type"`
	ItemTypeDesc string `gorm:"column:item_type_desc"`

	RequestQty       decimal.Decimal `gorm:"column:request_qty"`
	ActualReceiptQty decimal.Decimal `gorm:"column:actual_receipt_qty"`
	ApproveQty       decimal.Decimal `gorm:"column:approve_qty"`
	Unit             string          `gorm:"column:unit"`

	ReceiptAmount    decimal.Decimal `gorm:"column:receipt_amount"`
	ReceiptUnitPrice decimal.Decimal `gorm:"column:receipt_unit_price"`

	IsFinalReceipt bool `gorm:"column:is_final_receipt"`
	IsConfirmed    bool `gorm:"column:is_confirmed"`

	InvDocNo   string          `gorm:"column:inv_doc_no"`
	InvDocDate *time.Time      `gorm:"column:inv_doc_date"`
	InvQty     decimal.Decimal `gorm:"column:inv_qty"`
	InvAmount  decimal.Decimal `gorm:"column:inv_amount"`

	InvSupplierNo *string    `gorm:"column:inv_supplier_no"`
	InvDueDate    *time.Time `gorm:"column:inv_due_date"`

	PaymentDoc     string     `gorm:"column:payment_doc"`
	PaymentDocDate *time.Time `gorm:"column:payment_doc_date"`
}

func (ReceiptRecord) TableName() string { return "inv_receipt" }

// ReceiptLedger reads paid receipt rows from the ERP side, newest first.
type ReceiptLedger interface {
	FetchPaid(ctx context.Context, from, to time.Time) ([]ReceiptRecord, error)
}

// SyncWindow computes the rolling reconciliation window for a run at
// `now`: the current and immediately preceding calendar month, clamped
// to the current year (in January the window is January alone).
func SyncWindow(now time.Time) (from, to time.Time) {
	now = now.UTC()
	from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	if from.Year() != now.Year() {
		from = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	to = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return from, to
}
