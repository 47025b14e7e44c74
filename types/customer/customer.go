package customer

import (
	"github.com/shopspring/decimal"
)

// BranchInput is one receiver branch in a customer payload.
type BranchInput struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Location string `json:"location" validate:"omitempty,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Contact  string `json:"contact" validate:"omitempty,max=255"`
}

// PaymentInput is one receiver payment history row in a customer payload.
type PaymentInput struct {
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	PaidAt    string          `json:"paid_at" validate:"required"`
	Reference string          `json:"reference" validate:"omitempty,max=255"`
	Notes     string          `json:"notes"`
}

// CreateCustomerRequest creates a sender or receiver customer. Sender-only
// and receiver-only fields are dropped when they do not match the type.
type CreateCustomerRequest struct {
	CustomerType   string           `json:"customer_type" validate:"required,oneof=Sender Receiver"`
	Name           string           `json:"name" validate:"required,min=1,max=255"`
	Phone          string           `json:"phone" validate:"omitempty,max=20"`
	Email          *string          `json:"email" validate:"omitempty,email"`
	Address        string           `json:"address"`
	AccountDetails *string          `json:"account_details"`
	Branches       []BranchInput    `json:"branches" validate:"omitempty,dive"`
	Credit         *decimal.Decimal `json:"credit"`
	Discount       *decimal.Decimal `json:"discount"`
}

// UpdateCustomerRequest carries a partial customer update. Nil fields are
// left untouched.
type UpdateCustomerRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Phone          *string          `json:"phone" validate:"omitempty,max=20"`
	Email          *string          `json:"email" validate:"omitempty,email"`
	Address        *string          `json:"address"`
	AccountDetails *string          `json:"account_details"`
	Branches       []BranchInput    `json:"branches" validate:"omitempty,dive"`
	Credit         *decimal.Decimal `json:"credit"`
	Discount       *decimal.Decimal `json:"discount"`
}

// AddPaymentRequest appends a payment history row to a receiver.
type AddPaymentRequest struct {
	PaymentInput
}
