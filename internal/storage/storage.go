// Package storage persists workflow artifacts (uploads, receipts, payment
// proofs) behind a small interface so the workflow engine is testable
// without a filesystem.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/fx"

	"github.com/sanoh-intern/be-finance-accounting/internal/config"
)

var Module = fx.Module("storage",
	fx.Provide(NewFilesystem),
)

// DocumentType enumerates the artifacts attached to an invoice.
type DocumentType string

const (
	DocumentInvoice     DocumentType = "invoice"
	DocumentFakturPajak DocumentType = "fakturpajak"
	DocumentSuratJalan  DocumentType = "suratjalan"
	DocumentPO          DocumentType = "po"
	DocumentPayment     DocumentType = "payment"
	DocumentReceipt     DocumentType = "receipt"
)

// DocumentPath derives the canonical storage path for an invoice artifact.
// Paths are a pure function of (document type, invoice number).
func DocumentPath(t DocumentType, invNo string) string {
	switch t {
	case DocumentInvoice:
		return fmt.Sprintf("invoices/INVOICE_%s.pdf", invNo)
	case DocumentFakturPajak:
		return fmt.Sprintf("faktur/FAKTURPAJAK_%s.pdf", invNo)
	case DocumentSuratJalan:
		return fmt.Sprintf("suratjalan/SURATJALAN_%s.pdf", invNo)
	case DocumentPO:
		return fmt.Sprintf("po/PO_%s.pdf", invNo)
	case DocumentPayment:
		return fmt.Sprintf("payments/PAYMENT_%s.pdf", invNo)
	case DocumentReceipt:
		return fmt.Sprintf("receipts/RECEIPT_%s.pdf", invNo)
	}
	return fmt.Sprintf("misc/%s_%s.pdf", t, invNo)
}

// Store saves and reopens artifacts by their canonical path.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// Filesystem stores artifacts under a configured root directory.
type Filesystem struct {
	root string
}

func NewFilesystem(cfg config.Config) Store {
	return &Filesystem{root: cfg.StorageRoot}
}

func NewFilesystemAt(root string) *Filesystem {
	return &Filesystem{root: root}
}

func (f *Filesystem) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	full := filepath.Join(f.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}

	out, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return name, nil
}

func (f *Filesystem) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(f.root, filepath.FromSlash(name)))
}
