package domain

import "errors"

var (
	ErrNotFound          = errors.New("invoice_not_found")
	ErrLineNotFound      = errors.New("invoice_line_not_found")
	ErrLineTaken         = errors.New("invoice_line_taken")
	ErrNoLines           = errors.New("no_invoice_lines_selected")
	ErrDuplicateInvoice  = errors.New("duplicate_invoice_number")
	ErrInvalidTransition = errors.New("invalid_status_transition")
	ErrReasonRequired    = errors.New("reason_required")
	ErrActualDateMissing = errors.New("actual_date_required")

	// ErrArtifact wraps failures of receipt rendering, file writes or
	// notification delivery. The status transition that triggered the
	// side effect stays committed; GenerateReceipt can be retried.
	ErrArtifact = errors.New("artifact_failure")
)
