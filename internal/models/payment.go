package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment methods accepted by the payment intake flow.
const (
	PaymentMethodCash   = "cash"
	PaymentMethodOnline = "online"
	PaymentMethodBorrow = "borrow"
	PaymentMethodOther  = "other"
)

// Payment records a single purchase or borrow transaction. Immutable after
// creation except for admin delete.
type Payment struct {
	BaseModel
	BookID        *uuid.UUID `gorm:"type:uuid" json:"bookId"`
	BookName      string     `json:"bookName"`
	UserName      string     `json:"userName"`
	ContactNumber string     `json:"contactNumber"`
	Email         string     `json:"email"`
	Language      string     `json:"language"`
	Quantity      int        `json:"quantity"`
	Price         float64    `json:"price"`
	PaymentMethod string     `json:"paymentMethod"`
	InvoiceNumber string     `json:"invoiceNumber"`
	Screenshot    string     `json:"screenshot"`
	PurchaseDate  time.Time  `json:"purchaseDate"`
}
