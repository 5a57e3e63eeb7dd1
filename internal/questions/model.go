package questions

import "time"

const (
	StatusPending  = "pending"
	StatusAnswered = "answered"
	StatusClosed   = "closed"
)

// Question is a client question addressed to the firm.
type Question struct {
	ID        string
	UserID    string
	Subject   string
	Message   string
	Status    string
	Answer    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusAnswered || s == StatusClosed
}
