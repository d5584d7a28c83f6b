package domain

import "context"

// Service reads the tax-rate reference tables. The tables are static from
// the workflow's perspective: read-only lookups, no mutation.
type Service interface {
	ListPPN(ctx context.Context) ([]RateOption, error)
	ListPPH(ctx context.Context) ([]RateOption, error)
	GetPPN(ctx context.Context, id int64) (*PPN, error)
	GetPPH(ctx context.Context, id int64) (*PPH, error)
}
