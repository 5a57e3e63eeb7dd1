package billing

import "time"

const (
	StatusDraft = "draft"
	StatusOpen  = "open"
	StatusPaid  = "paid"
	StatusVoid  = "void"
)

// Invoice is a bill issued to a portal user. Creation is a staff action;
// clients only read their own invoices.
type Invoice struct {
	ID          string
	UserID      string
	Number      string
	Period      string
	AmountCents int64
	Currency    string
	Status      string
	IssuedAt    time.Time
	DueAt       *time.Time
}

func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusOpen, StatusPaid, StatusVoid:
		return true
	}
	return false
}
