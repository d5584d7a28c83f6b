package domain

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sanoh-intern/be-finance-accounting/internal/auth"
	"github.com/sanoh-intern/be-finance-accounting/internal/storage"
)

// Upload is one multipart file received with a create or payment request.
type Upload struct {
	Type    storage.DocumentType
	Content io.Reader
}

// CreateRequest creates a new invoice header from available lines.
type CreateRequest struct {
	InvNo         string
	InvDate       time.Time
	InvFaktur     string
	InvFakturDate *time.Time
	PPNID         int64
	LineIDs       []int64
	Reason        string
	Uploads       []Upload
}

// DecideRequest reviews an invoice: either a rejection (reason required)
// or an approval-path update carrying the withholding selection.
type DecideRequest struct {
	Status        Status
	Reason        string
	PPHID         int64
	PPHBaseAmount decimal.Decimal
	PlanDate      *time.Time
	RemoveLineIDs []int64
}

// PaymentRequest marks a Ready To Payment invoice as Paid. Either a
// payment-proof upload (actual date = now) or a caller-supplied actual
// date without a file.
type PaymentRequest struct {
	PaymentFile *Upload
	ActualDate  *time.Time
}

// ReceiptResult reports the artifacts produced by the Ready To Payment
// side effect.
type ReceiptResult struct {
	ReceiptPath   string
	ReceiptNumber string
}

// Service is the invoice workflow engine.
type Service interface {
	List(ctx context.Context) ([]InvHeader, error)
	ListByBPCode(ctx context.Context, bpCode string) ([]InvHeader, error)
	Get(ctx context.Context, invNo string) (*InvHeader, error)

	Create(ctx context.Context, actor auth.Actor, req CreateRequest) (*InvHeader, error)
	Decide(ctx context.Context, actor auth.Actor, invNo string, req DecideRequest) (*InvHeader, error)
	MarkInProcess(ctx context.Context, actor auth.Actor, invNo string) (*InvHeader, error)
	UploadPayment(ctx context.Context, actor auth.Actor, invNo string, req PaymentRequest) (*InvHeader, error)

	// GenerateReceipt runs (or retries) the Ready To Payment side effect:
	// receipt number, PDF, notification. Idempotent against a header that
	// is already in Ready To Payment without a receipt path.
	GenerateReceipt(ctx context.Context, invNo string) (*ReceiptResult, error)

	ListLines(ctx context.Context, invNo string) ([]InvLine, error)
	ListOutstandingLines(ctx context.Context, bpCode string) ([]InvLine, error)
	ListDocuments(ctx context.Context, invNo string) ([]InvDocument, error)
}
