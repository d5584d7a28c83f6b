// Package pdf renders workflow documents with maroto.
package pdf

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.pdf",
	fx.Provide(NewProvider),
)

type Provider struct {
	log *zap.Logger
}

func NewProvider(log *zap.Logger) *Provider {
	return &Provider{log: log.Named("providers.pdf")}
}
