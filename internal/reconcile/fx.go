package reconcile

import "go.uber.org/fx"

var Module = fx.Module("reconcile",
	fx.Provide(
		NewGormLedger,
		func(l *GormLedger) ReceiptLedger { return l },
		NewSyncer,
	),
)
