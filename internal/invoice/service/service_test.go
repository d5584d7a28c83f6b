package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sanoh-intern/be-finance-accounting/internal/auth"
	"github.com/sanoh-intern/be-finance-accounting/internal/clock"
	"github.com/sanoh-intern/be-finance-accounting/internal/config"
	invoicedomain "github.com/sanoh-intern/be-finance-accounting/internal/invoice/domain"
	"github.com/sanoh-intern/be-finance-accounting/internal/providers/email"
	"github.com/sanoh-intern/be-finance-accounting/internal/providers/pdf"
	taxdomain "github.com/sanoh-intern/be-finance-accounting/internal/tax/domain"
)

type taxStub struct {
	ppn map[int64]decimal.Decimal
	pph map[int64]decimal.Decimal
}

func (s *taxStub) ListPPN(context.Context) ([]taxdomain.RateOption, error) { return nil, nil }
func (s *taxStub) ListPPH(context.Context) ([]taxdomain.RateOption, error) { return nil, nil }

func (s *taxStub) GetPPN(_ context.Context, id int64) (*taxdomain.PPN, error) {
	rate, ok := s.ppn[id]
	if !ok {
		return nil, taxdomain.ErrRateNotFound
	}
	return &taxdomain.PPN{PPNID: id, PPNRate: rate}, nil
}

func (s *taxStub) GetPPH(_ context.Context, id int64) (*taxdomain.PPH, error) {
	rate, ok := s.pph[id]
	if !ok {
		return nil, taxdomain.ErrRateNotFound
	}
	return &taxdomain.PPH{PPHID: id, PPHRate: rate}, nil
}

type memStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{files: make(map[string][]byte)}
}

func (s *memStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = content
	return name, nil
}

func (s *memStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.files[name]
	if !ok {
		return nil, fmt.Errorf("open %s: not stored", name)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

type rendererStub struct {
	err   error
	calls int
}

func (r *rendererStub) GenerateReceipt(context.Context, pdf.ReceiptData) (io.Reader, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return strings.NewReader("%PDF-receipt"), nil
}

type sentMail struct {
	to         []string
	subject    string
	attachment *email.Attachment
}

type mailerStub struct {
	sent []sentMail
	err  error
}

func (m *mailerStub) Send(_ context.Context, to []string, subject, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject})
	return nil
}

func (m *mailerStub) SendWithAttachment(_ context.Context, to []string, subject, _ string, att email.Attachment) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, attachment: &att})
	return nil
}

// counterStub mirrors the per-day INCR semantics of the redis counter.
type counterStub struct {
	mu    sync.Mutex
	seq   map[string]int64
	calls int
}

func newCounterStub() *counterStub {
	return &counterStub{seq: make(map[string]int64)}
}

func (c *counterStub) Next(_ context.Context, day time.Time) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	key := day.UTC().Format("20060102")
	c.seq[key]++
	return c.seq[key], nil
}

type addressStub struct {
	addresses map[string]string
}

func (a *addressStub) AddressFor(_ context.Context, bpCode string) (string, error) {
	return a.addresses[bpCode], nil
}

type testDeps struct {
	db       *gorm.DB
	clock    *clock.FakeClock
	store    *memStore
	renderer *rendererStub
	mailer   *mailerStub
	counter  *counterStub
}

func setupService(t *testing.T) (invoicedomain.Service, *testDeps) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&invoicedomain.InvHeader{},
		&invoicedomain.InvLine{},
		&invoicedomain.InvDocument{},
	))

	node, err := snowflake.NewNode(9)
	require.NoError(t, err)

	deps := &testDeps{
		db:       db,
		clock:    clock.NewFakeClock(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)),
		store:    newMemStore(),
		renderer: &rendererStub{},
		mailer:   &mailerStub{},
		counter:  newCounterStub(),
	}

	svc := NewService(ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: deps.clock,
		Cfg:   config.Config{FinanceEmail: "finance@sanoh.co.id"},
		TaxSvc: &taxStub{
			ppn: map[int64]decimal.Decimal{1: decimal.NewFromFloat(0.11)},
			pph: map[int64]decimal.Decimal{1: decimal.NewFromFloat(0.11), 2: decimal.NewFromFloat(0.02)},
		},
		Store:     deps.store,
		Renderer:  deps.renderer,
		Mailer:    deps.mailer,
		Counter:   deps.counter,
		Addresses: &addressStub{addresses: map[string]string{"BP001": "Jl. Industri No. 1"}},
	})
	return svc, deps
}

func seedLine(t *testing.T, db *gorm.DB, id int64, poNo, grNo, bpID string, qty, price float64) {
	t.Helper()
	line := invoicedomain.InvLine{
		InvLineID:        snowflake.ID(id),
		PONo:             poNo,
		GRNo:             grNo,
		BPID:             bpID,
		BPName:           "PT Supplier",
		ApproveQty:       decimal.NewFromFloat(qty),
		ReceiptUnitPrice: decimal.NewFromFloat(price),
	}
	require.NoError(t, db.Create(&line).Error)
}

var (
	supplierActor = auth.Actor{UserID: "u1", Name: "supplier one", Role: auth.RoleSupplier, BPCode: "BP001"}
	financeActor  = auth.Actor{UserID: "u2", Name: "finance one", Role: auth.RoleFinance}
)

func createInvoice(t *testing.T, svc invoicedomain.Service, invNo string, lineIDs ...int64) *invoicedomain.InvHeader {
	t.Helper()
	header, err := svc.Create(context.Background(), supplierActor, invoicedomain.CreateRequest{
		InvNo:   invNo,
		InvDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		PPNID:   1,
		LineIDs: lineIDs,
	})
	require.NoError(t, err)
	return header
}

func TestCreateComputesTotals(t *testing.T) {
	svc, deps := setupService(t)
	seedLine(t, deps.db, 1, "PO-100", "GR-1", "BP001", 10, 150)
	seedLine(t, deps.db, 2, "PO-100", "GR-2", "BP001", 5, 100)

	header := createInvoice(t, svc, "INV-001", 1, 2)

	require.Equal(t, invoicedomain.StatusNew, header.Status)
	require.Equal(t, "BP001", header.BPCode)
	require.Equal(t, "2000.00", header.TotalDPP.StringFixed(2))
	require.Equal(t, "2220.00", header.TaxAmount.StringFixed(2))
	require.Equal(t, "2220.00", header.TotalAmount.StringFixed(2))

	lines, err := svc.ListLines(context.Background(), "INV-001")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	for _, line := range lines {
		require.NotNil(t, line.InvSupplierNo)
		require.Equal(t, "INV-001", *line.InvSupplierNo)
		require.NotNil(t, line.InvDueDate)
	}

	outstanding, err := svc.ListOutstandingLines(context.Background(), "BP001")
	require.NoError(t, err)
	require.Empty(t, outstanding)

	require.Len(t, deps.mailer.sent, 1)
	require.Equal(t, []string{"finance@sanoh.co.id"}, deps.mailer.sent[0].to)
}

func TestCreateGuards(t *testing.T) {
	svc, deps := setupService(t)
	seedLine(t, deps.db, 1, "PO-100", "GR-1", "BP001", 1, 100)

	_, err := svc.Create(context.Background(), supplierActor, invoicedomain.CreateRequest{
		InvNo: "INV-001", PPNID: 1,
	})
	require.ErrorIs(t, err, invoicedomain.ErrNoLines)

	_, err = svc.Create(context.Background(), supplierActor, invoicedomain.CreateRequest{
		InvNo: "INV-001", PPNID: 1, LineIDs: []int64{999},
	})
	require.ErrorIs(t, err, invoicedomain.ErrLineNotFound)

	createInvoice(t, svc, "INV-001", 1)

	// The line now belongs to INV-001.
	seedLine(t, deps.db, 2, "PO-200", "GR-1", "BP001", 1, 100)
	_, err = svc.Create(context.Background(), supplierActor, invoicedomain.CreateRequest{
		InvNo: "INV-002", PPNID: 1, LineIDs: []int64{1},
	})
	require.ErrorIs(t, err, invoicedomain.ErrLineTaken)

	_, err = svc.Create(context.Background(), supplierActor, invoicedomain.CreateRequest{
		InvNo: "INV-001", PPNID: 1, LineIDs: []int64{2},
	})
	require.ErrorIs(t, err, invoicedomain.ErrDuplicateInvoice)

	// A failed create keeps its lines available.
	outstanding, err := svc.ListOutstandingLines(context.Background(), "BP001")
	require.NoError(t, err)
	require.Len(t, outstanding, 1)
}

func TestCreateDerivesBPCodeForFinance(t *testing.T) {
	svc, deps := setupService(t)
	seedLine(t, deps.db, 1, "PO-100", "GR-1", "BP777", 1, 100)

	header, err := svc.Create(context.Background(), financeActor, invoicedomain.CreateRequest{
		InvNo:   "INV-001",
		InvDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		PPNID:   1,
		LineIDs: []int64{1},
	})
	require.NoError(t, err)
	require.Equal(t, "BP777", header.BPCode)
}

func TestRejectReleasesLinesAndAllowsRecreate(t *testing.T) {
	svc, deps := setupService(t)
	seedLine(t, deps.db, 1, "PO-100", "GR-1", "BP001", 10, 150)
	createInvoice(t, svc, "INV-001", 1)

	header, err := svc.Decide(context.Background(), financeActor, "INV-001", invoicedomain.DecideRequest{
		Status: invoicedomain.StatusRejected,
		Reason: "wrong faktur",
	})
	require.NoError(t, err)
	require.Equal(t, invoicedomain.StatusRejected, header.Status)
	require.Equal(t, "wrong faktur", header.Reason)

	outstanding, err := svc.ListOutstandingLines(context.Background(), "BP001")
	require.NoError(t, err)
	require.Len(t, outstanding, 1)
	require.Nil(t, outstanding[0].InvSupplierNo)
	require.Nil(t, outstanding[0].InvDueDate)

	// The released line can be invoiced again under a new number.
	recreated := createInvoice(t, svc, "INV-002", 1)
	require.Equal(t, invoicedomain.StatusNew, recreated.Status)
}

func TestRejectRequiresReason(t *testing.T) {
	svc, deps := setupService(t)
	seedLine(t, deps.db, 1, "PO-100", "GR-1", "BP001", 1, 100)
	createInvoice(t, svc, "INV-001", 1)

	_, err := svc.Decide(context.Background(), financeActor, "INV-001", invoicedomain.DecideRequest{
		Status: invoicedomain.StatusRejected,
	})
	require.ErrorIs(t, err, invoicedomain.ErrReasonRequired)

	header, err := svc.Get(context.Background(), "INV-001")
	require.NoError(t, err)
	require.Equal(t, invoicedomain.StatusNew, header.Status)
}

func TestApproveComputesPayableTotal(t *testing.T) {
	svc, deps := setupService(t)
	seedLine(t, deps.db, 1, "PO-100", "GR-1", "BP001", 10, 200)
	createInvoice(t, svc, "INV-001", 1)

	planDate := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	header, err := svc.Decide(context.Background(), financeActor, "INV-001", invoicedomain.DecideRequest{
		Status:        invoicedomain.StatusReadyToPayment,
		PPHID:         1,
		PPHBaseAmount: decimal.NewFromInt(2040),
		PlanDate:      &planDate,
	})
	require.NoError(t, err)

	// tax = 2000 + 2000*0.11 = 2220; pph = 2040 + 2040*0.11 = 2264.40.
	// The payable total can legitimately go negative.
	require.Equal(t, invoicedomain.StatusReadyToPayment, header.Status)
	require.Equal(t, "2220.00", header.TaxAmount.StringFixed(2))
	require.Equal(t, "2264.40", header.PPHAmount.StringFixed(2))
	require.Equal(t, "-44.40", header.TotalAmount.StringFixed(2))
	require.NotNil(t, header.PlanDate)
}

func TestApproveRemovesSelectedLines(t *testing.T) {
	svc, deps := setupService(t)
	seedLine(t, deps.db, 1, "PO-100", "GR-1", "BP001", 1, 100)
	seedLine(t, deps.db, 2, "PO-100", "GR-2", "BP001", 1, 100)
	createInvoice(t, svc, "INV-001", 1, 2)

	_, err := svc.Decide(context.Background(), financeActor, "INV-001", invoicedomain.DecideRequest{
		Status:        invoicedomain.StatusReadyToPayment,
		PPHID:         2,
		PPHBaseAmount: decimal.NewFromInt(100),
		RemoveLineIDs: []int64{2},
	})
	require.NoError(t, err)

	lines, err := svc.ListLines(context.Background(), "INV-001")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, snowflake.ID(1), lines[0].InvLineID)

	outstanding, err := svc.ListOutstandingLines(context.Background(), "BP001")
	require.NoError(t, err)
	require.Len(t, outstanding, 1)
	require.Equal(t, snowflake.ID(2), outstanding[0].InvLineID)
}

func TestTransitionGuards(t *testing.T) {
	svc, deps := setupService(t)
	seedLine(t, deps.db, 1, "PO-100", "GR-1", "BP001", 1, 100)
	createInvoice(t, svc, "INV-001", 1)

	// Paid is unreachable from New.
	_, err := svc.Decide(context.Background(), financeActor, "INV-001", invoicedomain.DecideRequest{
		Status: invoicedomain.StatusPaid,
		PPHID:  2,
	})
	require.ErrorIs(t, err, invoicedomain.ErrInvalidTransition)

	_, err = svc.MarkInProcess(context.Background(), financeActor, "INV-001")
	require.NoError(t, err)

	// In Process is not re-enterable.
	_, err = svc.MarkInProcess(context.Background(), financeActor, "INV-001")
	require.ErrorIs(t, err, invoicedomain.ErrNotFound)

	// Terminal states accept nothing further.
	_, err = svc.Decide(context.Background(), financeActor, "INV-001", invoicedomain.DecideRequest{
		Status: invoicedomain.StatusRejected,
		Reason: "late",
	})
	require.NoError(t, err)
	_, err = svc.Decide(context.Background(), financeActor, "INV-001", invoicedomain.DecideRequest{
		Status: invoicedomain.StatusRejected,
		Reason: "again",
	})
	require.ErrorIs(t, err, invoicedomain.ErrInvalidTransition)
}

func approveInvoice(t *testing.T, svc invoicedomain.Service, invNo string) *invoicedomain.InvHeader {
	t.Helper()
	header, err := svc.Decide(context.Background(), financeActor, invNo, invoicedomain.DecideRequest{
		Status:        invoicedomain.StatusReadyToPayment,
		PPHID:         2,
		PPHBaseAmount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	return header
}

func TestApproveGeneratesReceipt(t *testing.T) {
	svc, deps := setupService(t)
	seedLine(t, deps.db, 1, "PO-100", "GR-1", "BP001", 10, 150)
	seedLine(t, deps.db, 2, "PO-200", "GR-1", "BP001", 5, 100)
	createInvoice(t, svc, "INV-001", 1, 2)
	deps.mailer.sent = nil

	header := approveInvoice(t, svc, "INV-001")

	require.Equal(t, "SANOH20250115/1", header.ReceiptNumber)
	require.Equal(t, "receipts/RECEIPT_INV-001.pdf", header.ReceiptPath)

	_, err := deps.store.Open(context.Background(), header.ReceiptPath)
	require.NoError(t, err)

	require.Len(t, deps.mailer.sent, 1)
	require.NotNil(t, deps.mailer.sent[0].attachment)
	require.Equal(t, "RECEIPT_INV-001.pdf", deps.mailer.sent[0].attachment.Filename)
}

func TestReceiptNumbersSequencePerDay(t *testing.T) {
	svc, deps := setupService(t)
	seedLine(t, deps.db, 1, "PO-100", "GR-1", "BP001", 1, 100)
	seedLine(t, deps.db, 2, "PO-200", "GR-1", "BP002", 1, 100)
	createInvoice(t, svc, "INV-001", 1)
	createInvoice(t, svc, "INV-002", 2)

	first := approveInvoice(t, svc, "INV-001")
	require.Equal(t, "SANOH20250115/1", first.ReceiptNumber)

	deps.clock.Advance(2 * time.Hour)
	second := approveInvoice(t, svc, "INV-002")
	require.Equal(t, "SANOH20250115/2", second.ReceiptNumber)
}

func TestReceiptFailureKeepsTransitionCommitted(t *testing.T) {
	svc, deps := setupService(t)
	seedLine(t, deps.db, 1, "PO-100", "GR-1", "BP001", 1, 100)
	createInvoice(t, svc, "INV-001", 1)

	deps.renderer.err = errors.New("render broke")
	_, err := svc.Decide(context.Background(), financeActor, "INV-001", invoicedomain.DecideRequest{
		Status:        invoicedomain.StatusReadyToPayment,
		PPHID:         2,
		PPHBaseAmount: decimal.NewFromInt(100),
	})
	require.ErrorIs(t, err, invoicedomain.ErrArtifact)

	// The transition survives the artifact failure.
	header, err := svc.Get(context.Background(), "INV-001")
	require.NoError(t, err)
	require.Equal(t, invoicedomain.StatusReadyToPayment, header.Status)
	require.Empty(t, header.ReceiptPath)

	// Retry succeeds once the renderer recovers.
	deps.renderer.err = nil
	result, err := svc.GenerateReceipt(context.Background(), "INV-001")
	require.NoError(t, err)
	require.Equal(t, "SANOH20250115/2", result.ReceiptNumber)

	header, err = svc.Get(context.Background(), "INV-001")
	require.NoError(t, err)
	require.Equal(t, result.ReceiptPath, header.ReceiptPath)
}

func TestGenerateReceiptIsIdempotent(t *testing.T) {
	svc, deps := setupService(t)
	seedLine(t, deps.db, 1, "PO-100", "GR-1", "BP001", 1, 100)
	createInvoice(t, svc, "INV-001", 1)
	approveInvoice(t, svc, "INV-001")

	calls := deps.counter.calls
	result, err := svc.GenerateReceipt(context.Background(), "INV-001")
	require.NoError(t, err)
	require.Equal(t, "SANOH20250115/1", result.ReceiptNumber)
	require.Equal(t, calls, deps.counter.calls)
}

func TestUploadPaymentWithFile(t *testing.T) {
	svc, deps := setupService(t)
	seedLine(t, deps.db, 1, "PO-100", "GR-1", "BP001", 1, 100)
	createInvoice(t, svc, "INV-001", 1)
	approveInvoice(t, svc, "INV-001")

	header, err := svc.UploadPayment(context.Background(), financeActor, "INV-001", invoicedomain.PaymentRequest{
		PaymentFile: &invoicedomain.Upload{Content: strings.NewReader("%PDF-proof")},
	})
	require.NoError(t, err)
	require.Equal(t, invoicedomain.StatusPaid, header.Status)
	require.NotNil(t, header.ActualDate)
	require.Equal(t, deps.clock.Now(), header.ActualDate.UTC())

	_, err = deps.store.Open(context.Background(), "payments/PAYMENT_INV-001.pdf")
	require.NoError(t, err)

	docs, err := svc.ListDocuments(context.Background(), "INV-001")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "payment", docs[0].Type)
}

func TestUploadPaymentWithActualDate(t *testing.T) {
	svc, deps := setupService(t)
	seedLine(t, deps.db, 1, "PO-100", "GR-1", "BP001", 1, 100)
	createInvoice(t, svc, "INV-001", 1)
	approveInvoice(t, svc, "INV-001")

	actual := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	header, err := svc.UploadPayment(context.Background(), financeActor, "INV-001", invoicedomain.PaymentRequest{
		ActualDate: &actual,
	})
	require.NoError(t, err)
	require.Equal(t, invoicedomain.StatusPaid, header.Status)
	require.Equal(t, actual, header.ActualDate.UTC())
}

func TestUploadPaymentGuards(t *testing.T) {
	svc, deps := setupService(t)
	seedLine(t, deps.db, 1, "PO-100", "GR-1", "BP001", 1, 100)
	createInvoice(t, svc, "INV-001", 1)

	_, err := svc.UploadPayment(context.Background(), financeActor, "INV-001", invoicedomain.PaymentRequest{})
	require.ErrorIs(t, err, invoicedomain.ErrActualDateMissing)

	actual := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	_, err = svc.UploadPayment(context.Background(), financeActor, "INV-001", invoicedomain.PaymentRequest{
		ActualDate: &actual,
	})
	require.ErrorIs(t, err, invoicedomain.ErrNotFound)
}
