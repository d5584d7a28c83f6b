package invoice

import (
	"github.com/sanoh-intern/be-finance-accounting/internal/invoice/service"
	"github.com/sanoh-intern/be-finance-accounting/internal/partner"
	"github.com/sanoh-intern/be-finance-accounting/internal/providers/pdf"
	"github.com/sanoh-intern/be-finance-accounting/internal/tax"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	tax.Module,
	partner.Module,
	fx.Provide(func(p *pdf.Provider) service.ReceiptRenderer { return p }),
	fx.Provide(func(p *partner.Service) service.AddressResolver { return p }),
	fx.Provide(service.NewService),
)
