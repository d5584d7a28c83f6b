// Package email delivers workflow notifications over SMTP.
package email

import (
	"context"

	"go.uber.org/fx"

	"github.com/sanoh-intern/be-finance-accounting/internal/config"
)

var Module = fx.Module("providers.email",
	fx.Provide(NewFromConfig),
)

// Attachment is a file carried inline with a message.
type Attachment struct {
	Filename string
	Content  []byte
}

type Provider interface {
	Send(ctx context.Context, to []string, subject, htmlBody string) error
	SendWithAttachment(ctx context.Context, to []string, subject, htmlBody string, att Attachment) error
}

func NewFromConfig(cfg config.Config) Provider {
	if cfg.SMTPHost == "" {
		return &NoOpProvider{}
	}
	return NewSMTP(Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
}

// NoOpProvider drops messages; used when SMTP is not configured.
type NoOpProvider struct{}

func (p *NoOpProvider) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	return nil
}

func (p *NoOpProvider) SendWithAttachment(ctx context.Context, to []string, subject, htmlBody string, att Attachment) error {
	return nil
}
