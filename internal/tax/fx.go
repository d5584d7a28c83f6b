package tax

import (
	"github.com/sanoh-intern/be-finance-accounting/internal/tax/repository"
	"github.com/sanoh-intern/be-finance-accounting/internal/tax/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tax.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
