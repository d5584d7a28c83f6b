package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	invoicedomain "github.com/sanoh-intern/be-finance-accounting/internal/invoice/domain"
	"github.com/sanoh-intern/be-finance-accounting/internal/providers/email"
	"github.com/sanoh-intern/be-finance-accounting/internal/providers/pdf"
	"github.com/sanoh-intern/be-finance-accounting/internal/sequence"
	"github.com/sanoh-intern/be-finance-accounting/internal/storage"
)

// GenerateReceipt runs the Ready To Payment side effect: a per-day
// sequential receipt number, the rendered receipt PDF and the outbound
// notification. The transition that triggered it is already committed,
// so every failure here is wrapped as an artifact failure and the whole
// operation can be retried against a header that has no receipt path yet.
func (s *Service) GenerateReceipt(ctx context.Context, invNo string) (*invoicedomain.ReceiptResult, error) {
	header, err := s.Get(ctx, invNo)
	if err != nil {
		return nil, err
	}
	if header.Status != invoicedomain.StatusReadyToPayment {
		return nil, invoicedomain.ErrNotFound
	}
	if header.ReceiptPath != "" {
		// Already generated; nothing to redo.
		return &invoicedomain.ReceiptResult{
			ReceiptPath:   header.ReceiptPath,
			ReceiptNumber: header.ReceiptNumber,
		}, nil
	}

	result, err := s.generateReceipt(ctx, header)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", invoicedomain.ErrArtifact, err)
	}
	return result, nil
}

func (s *Service) generateReceipt(ctx context.Context, header *invoicedomain.InvHeader) (*invoicedomain.ReceiptResult, error) {
	now := s.clock.Now()

	seq, err := s.counter.Next(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("receipt sequence: %w", err)
	}
	receiptNumber := sequence.FormatReceiptNumber(sequence.ReceiptPrefix, now, seq)

	lines, err := s.ListLines(ctx, header.InvNo)
	if err != nil {
		return nil, err
	}

	address, err := s.addresses.AddressFor(ctx, header.BPCode)
	if err != nil {
		return nil, fmt.Errorf("partner address: %w", err)
	}

	// Display amounts are recomputed from the stored base amounts and the
	// resolved rates, independent of the persisted workflow totals.
	ppn, err := s.taxSvc.GetPPN(ctx, header.PPNID)
	if err != nil {
		return nil, err
	}
	displayTax := header.TotalDPP.Mul(ppn.PPNRate)

	displayPPH := decimal.Zero
	if header.PPHID != nil {
		pph, err := s.taxSvc.GetPPH(ctx, *header.PPHID)
		if err != nil {
			return nil, err
		}
		displayPPH = header.PPHBaseAmount.Mul(pph.PPHRate)
	}

	data := pdf.ReceiptData{
		ReceiptNumber:  receiptNumber,
		InvoiceNumber:  header.InvNo,
		BPCode:         header.BPCode,
		PartnerAddress: address,
		InvoiceDate:    header.InvDate.Format("2006-01-02"),
		PlanDate:       formatDate(header.PlanDate),
		PONumbers:      distinctPONumbers(lines),
		TotalDPP:       header.TotalDPP.StringFixed(2),
		TaxAmount:      displayTax.StringFixed(2),
		PPHBaseAmount:  header.PPHBaseAmount.StringFixed(2),
		PPHAmount:      displayPPH.StringFixed(2),
		TotalAmount:    header.TotalAmount.StringFixed(2),
	}

	doc, err := s.renderer.GenerateReceipt(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}

	content, err := io.ReadAll(doc)
	if err != nil {
		return nil, fmt.Errorf("read receipt: %w", err)
	}

	path := storage.DocumentPath(storage.DocumentReceipt, header.InvNo)
	if _, err := s.store.Save(ctx, path, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("store receipt: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&invoicedomain.InvHeader{}).
		Where("inv_no = ?", header.InvNo).
		Updates(map[string]interface{}{
			"receipt_path":   path,
			"receipt_number": receiptNumber,
		}).Error
	if err != nil {
		return nil, err
	}

	subject := fmt.Sprintf("Invoice %s is Ready To Payment", header.InvNo)
	body := readyMailBody(header, address, displayTax, displayPPH)
	att := email.Attachment{
		Filename: fmt.Sprintf("RECEIPT_%s.pdf", header.InvNo),
		Content:  content,
	}
	if err := s.mailer.SendWithAttachment(ctx, []string{s.cfg.FinanceEmail}, subject, body, att); err != nil {
		return nil, fmt.Errorf("send notification: %w", err)
	}

	return &invoicedomain.ReceiptResult{
		ReceiptPath:   path,
		ReceiptNumber: receiptNumber,
	}, nil
}

func distinctPONumbers(lines []invoicedomain.InvLine) string {
	seen := make(map[string]bool, len(lines))
	numbers := make([]string, 0, len(lines))
	for _, line := range lines {
		if seen[line.PONo] {
			continue
		}
		seen[line.PONo] = true
		numbers = append(numbers, line.PONo)
	}
	return strings.Join(numbers, ", ")
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func createdMailBody(header *invoicedomain.InvHeader, address string) string {
	var b strings.Builder
	b.WriteString("<h3>New invoice submitted</h3>")
	fmt.Fprintf(&b, "<p>Invoice number: %s</p>", header.InvNo)
	fmt.Fprintf(&b, "<p>Supplier: %s</p>", header.BPCode)
	fmt.Fprintf(&b, "<p>Supplier address: %s</p>", address)
	fmt.Fprintf(&b, "<p>Status: %s</p>", header.Status)
	fmt.Fprintf(&b, "<p>Total amount: %s</p>", header.TotalAmount.StringFixed(2))
	return b.String()
}

func readyMailBody(header *invoicedomain.InvHeader, address string, taxAmount, pphAmount decimal.Decimal) string {
	var b strings.Builder
	b.WriteString("<h3>Invoice ready to payment</h3>")
	fmt.Fprintf(&b, "<p>Invoice number: %s</p>", header.InvNo)
	fmt.Fprintf(&b, "<p>Supplier: %s</p>", header.BPCode)
	fmt.Fprintf(&b, "<p>Supplier address: %s</p>", address)
	fmt.Fprintf(&b, "<p>Planned payment date: %s</p>", formatDate(header.PlanDate))
	fmt.Fprintf(&b, "<p>VAT amount: %s</p>", taxAmount.StringFixed(2))
	fmt.Fprintf(&b, "<p>Withholding amount: %s</p>", pphAmount.StringFixed(2))
	fmt.Fprintf(&b, "<p>Total amount: %s</p>", header.TotalAmount.StringFixed(2))
	return b.String()
}
