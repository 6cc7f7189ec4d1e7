package entity

import "time"

// ApprovalRecord registro append-only de una decisión sobre un comprobante.
type ApprovalRecord struct {
	ID         string
	Kind       ReceiptKind
	ReceiptID  string
	ApproverID string
	Decision   ReceiptStatus // approved | rejected
	Reason     string
	DecidedAt  time.Time
}
