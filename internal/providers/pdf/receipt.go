package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ReceiptData carries everything the payment-authorization receipt shows.
type ReceiptData struct {
	ReceiptNumber  string
	InvoiceNumber  string
	BPCode         string
	PartnerAddress string
	InvoiceDate    string
	PlanDate       string
	PONumbers      string
	TotalDPP       string
	TaxAmount      string
	PPHBaseAmount  string
	PPHAmount      string
	TotalAmount    string
}

// GenerateReceipt renders the receipt PDF and returns its bytes.
func (p *Provider) GenerateReceipt(ctx context.Context, data ReceiptData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(8, "Payment Receipt", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, data.ReceiptNumber, props.Text{
			Size:  12,
			Align: align.Right,
			Top:   4,
		}),
	)

	m.AddRow(24,
		col.New(6).Add(
			text.New("Invoice number: "+data.InvoiceNumber, props.Text{Top: 0}),
			text.New("Invoice date: "+data.InvoiceDate, props.Text{Top: 5}),
			text.New("Planned payment: "+data.PlanDate, props.Text{Top: 10}),
		),
		col.New(6).Add(
			text.New("Supplier: "+data.BPCode, props.Text{Top: 0, Style: fontstyle.Bold}),
			text.New(data.PartnerAddress, props.Text{Top: 5}),
		),
	)

	m.AddRow(12,
		text.NewCol(12, "Purchase orders: "+data.PONumbers, props.Text{Size: 9}),
	)

	m.AddRow(4, line.NewCol(12))

	amountRow := func(label, value string, bold bool) {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		m.AddRow(8,
			text.NewCol(8, label, props.Text{Size: 10, Style: style}),
			text.NewCol(4, value, props.Text{Size: 10, Align: align.Right, Style: style}),
		)
	}

	amountRow("Tax base amount (DPP)", data.TotalDPP, false)
	amountRow("VAT", data.TaxAmount, false)
	amountRow("Withholding base", data.PPHBaseAmount, false)
	amountRow("Withholding (PPh)", data.PPHAmount, false)
	amountRow("Total payable", data.TotalAmount, true)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate receipt pdf: %w", err)
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
