// Package domain contains persistence models for the invoice workflow.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// InvHeader is one invoice submission, the unit of workflow state.
// Amount fields are immutable once the invoice reaches Paid.
type InvHeader struct {
	InvNo         string     `gorm:"column:inv_no;primaryKey" json:"inv_no"`
	BPCode        string     `gorm:"column:bp_code;index" json:"bp_code"`
	InvDate       time.Time  `gorm:"column:inv_date" json:"inv_date"`
	InvFaktur     string     `gorm:"column:inv_faktur" json:"inv_faktur"`
	InvFakturDate *time.Time `gorm:"column:inv_faktur_date" json:"inv_faktur_date"`

	TotalDPP decimal.Decimal `gorm:"column:total_dpp;type:numeric(18,2)" json:"total_dpp"`

	PPNID         int64           `gorm:"column:ppn_id" json:"ppn_id"`
	TaxBaseAmount decimal.Decimal `gorm:"column:tax_base_amount;type:numeric(18,2)" json:"tax_base_amount"`
	TaxAmount     decimal.Decimal `gorm:"column:tax_amount;type:numeric(18,2)" json:"tax_amount"`

	PPHID         *int64          `gorm:"column:pph_id" json:"pph_id"`
	PPHBaseAmount decimal.Decimal `gorm:"column:pph_base_amount;type:numeric(18,2)" json:"pph_base_amount"`
	PPHAmount     decimal.Decimal `gorm:"column:pph_amount;type:numeric(18,2)" json:"pph_amount"`

	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(18,2)" json:"total_amount"`

	Status Status `gorm:"column:status;type:text;not null;default:'New'" json:"status"`
	Reason string `gorm:"column:reason" json:"reason"`

	PlanDate   *time.Time `gorm:"column:plan_date" json:"plan_date"`
	ActualDate *time.Time `gorm:"column:actual_date" json:"actual_date"`

	ReceiptPath   string `gorm:"column:receipt_path" json:"receipt_path"`
	ReceiptNumber string `gorm:"column:receipt_number" json:"receipt_number"`

	CreatedBy string    `gorm:"column:created_by" json:"created_by"`
	UpdatedBy string    `gorm:"column:updated_by" json:"updated_by"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (InvHeader) TableName() string { return "inv_header" }

// InvLine mirrors one purchase-order-receipt record from the ERP ledger.
// (po_no, gr_no) is the natural composite key the reconciliation job
// upserts on. A line with a null InvSupplierNo is available for selection
// into a new or edited invoice.
type InvLine struct {
	InvLineID snowflake.ID `gorm:"column:inv_line_id;primaryKey" json:"inv_line_id"`

	PONo string `gorm:"column:po_no;uniqueIndex:ux_inv_line_po_gr" json:"po_no"`
	GRNo string `gorm:"column:gr_no;uniqueIndex:ux_inv_line_po_gr" json:"gr_no"`

	BPID   string `gorm:"column:bp_id;index" json:"bp_id"`
	BPName string `gorm:"column:bp_name" json:"bp_name"`

	Currency          string `gorm:"column:currency" json:"currency"`
	POType            string `gorm:"column:po_type" json:"po_type"`
	POReference       string `gorm:"column:po_reference" json:"po_reference"`
	POLine            string `gorm:"column:po_line" json:"po_line"`
	POSequence        string `gorm:"column:po_sequence" json:"po_sequence"`
	POReceiptSequence string `gorm:"column:po_receipt_sequence" json:"po_receipt_sequence"`

	ActualReceiptDate   *time.Time `gorm:"column:actual_receipt_date" json:"actual_receipt_date"`
	ActualReceiptYear   int        `gorm:"column:actual_receipt_year" json:"actual_receipt_year"`
	ActualReceiptPeriod int        `gorm:"column:actual_receipt_period" json:"actual_receipt_period"`

	ReceiptNo   string `gorm:"column:receipt_no" json:"receipt_no"`
	ReceiptLine string `gorm:"column:receipt_line" json:"receipt_line"`
	PackingSlip string `gorm:"column:packing_slip" json:"packing_slip"`

	ItemNo       string `gorm:"column:item_no" json:"item_no"`
	ICSCode      string `gorm:"column:ics_code" json:"ics_code"`
	ICSPart      string `gorm:"column:ics_part" json:"ics_part"`
	PartNo       string `gorm:"column:part_no" json:"part_no"`
	ItemDesc     string `gorm:"column:item_desc" json:"item_desc"`
	ItemGroup    string `gorm:"column:item_group" json:"item_group"`
	ItemType     string `gorm:"column:item_type" json:"item_type"`
	ItemTypeDesc string `gorm:"column:item_type_desc" json:"item_type_desc"`

	RequestQty       decimal.Decimal `gorm:"column:request_qty;type:numeric(18,4)" json:"request_qty"`
	ActualReceiptQty decimal.Decimal `gorm:"column:actual_receipt_qty;type:numeric(18,4)" json:"actual_receipt_qty"`
	ApproveQty       decimal.Decimal `gorm:"column:approve_qty;type:numeric(18,4)" json:"approve_qty"`
	Unit             string          `gorm:"column:unit" json:"unit"`

	ReceiptAmount    decimal.Decimal `gorm:"column:receipt_amount;type:numeric(18,2)" json:"receipt_amount"`
	ReceiptUnitPrice decimal.Decimal `gorm:"column:receipt_unit_price;type:numeric(18,4)" json:"receipt_unit_price"`

	IsFinalReceipt bool `gorm:"column:is_final_receipt" json:"is_final_receipt"`
	IsConfirmed    bool `gorm:"column:is_confirmed" json:"is_confirmed"`

	InvDocNo   string          `gorm:"column:inv_doc_no" json:"inv_doc_no"`
	InvDocDate *time.Time      `gorm:"column:inv_doc_date" json:"inv_doc_date"`
	InvQty     decimal.Decimal `gorm:"column:inv_qty;type:numeric(18,4)" json:"inv_qty"`
	InvAmount  decimal.Decimal `gorm:"column:inv_amount;type:numeric(18,2)" json:"inv_amount"`

	// Workflow-owned attachment back-reference. Set exactly while the
	// line belongs to an invoice header; null means available.
	InvSupplierNo *string    `gorm:"column:inv_supplier_no;index" json:"inv_supplier_no"`
	InvDueDate    *time.Time `gorm:"column:inv_due_date" json:"inv_due_date"`

	PaymentDoc     string     `gorm:"column:payment_doc" json:"payment_doc"`
	PaymentDocDate *time.Time `gorm:"column:payment_doc_date" json:"payment_doc_date"`

	CreatedAt time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (InvLine) TableName() string { return "inv_line" }

// ReceiptValue is the line's monetary contribution to an invoice.
func (l InvLine) ReceiptValue() decimal.Decimal {
	return l.ApproveQty.Mul(l.ReceiptUnitPrice)
}

// InvDocument is one uploaded artifact associated with an invoice.
// Created, never updated; multiple documents per invoice and type are
// permitted.
type InvDocument struct {
	InvDocID  snowflake.ID `gorm:"column:inv_doc_id;primaryKey" json:"inv_doc_id"`
	InvNo     string       `gorm:"column:inv_no;index" json:"inv_no"`
	Type      string       `gorm:"column:type" json:"type"`
	File      string       `gorm:"column:file" json:"file"`
	CreatedAt time.Time    `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (InvDocument) TableName() string { return "inv_document" }
