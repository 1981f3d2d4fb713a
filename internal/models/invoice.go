package models

import (
	"github.com/samber/lo"
)

const (
	DefaultCurrency = "USD"
	DefaultStatus   = "unpaid"
)

// Status values used by convention. Status is open text and is not checked
// against this list.
const (
	StatusUnpaid    = "unpaid"
	StatusPaid      = "paid"
	StatusOverdue   = "overdue"
	StatusCancelled = "cancelled"
)

// InvoiceItem is a line on an invoice. It only ever exists embedded in its
// invoice.
type InvoiceItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Invoice is the stored shape of an invoice document. ID is assigned by the
// store and is not part of the document body.
type Invoice struct {
	ID              string        `json:"-"`
	CustomerName    string        `json:"customer_name"`
	CustomerEmail   string        `json:"customer_email"`
	CustomerAddress *string       `json:"customer_address"`
	InvoiceNumber   *string       `json:"invoice_number"`
	IssueDate       Date          `json:"issue_date"`
	DueDate         *Date         `json:"due_date"`
	Currency        string        `json:"currency"`
	Items           []InvoiceItem `json:"items"`
	Notes           *string       `json:"notes"`
	Status          string        `json:"status"`
	Subtotal        float64       `json:"subtotal"`
	Tax             float64       `json:"tax"`
	Discount        float64       `json:"discount"`
	Total           float64       `json:"total"`
}

type CreateInvoiceItemRequest struct {
	Description string   `json:"description" validate:"required"`
	Quantity    *float64 `json:"quantity" validate:"omitempty,gte=0"`
	UnitPrice   *float64 `json:"unit_price" validate:"required,gte=0"`
}

// CreateInvoiceRequest is the creation payload. Subtotal and Total are
// accepted when non-negative but never trusted.
type CreateInvoiceRequest struct {
	CustomerName    string                     `json:"customer_name" validate:"required"`
	CustomerEmail   string                     `json:"customer_email" validate:"required,email"`
	CustomerAddress *string                    `json:"customer_address"`
	InvoiceNumber   *string                    `json:"invoice_number"`
	IssueDate       string                     `json:"issue_date" validate:"required,datetime=2006-01-02"`
	DueDate         *string                    `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Currency        *string                    `json:"currency"`
	Items           []CreateInvoiceItemRequest `json:"items" validate:"dive"`
	Notes           *string                    `json:"notes"`
	Status          *string                    `json:"status"`
	Subtotal        *float64                   `json:"subtotal" validate:"omitempty,gte=0"`
	Tax             *float64                   `json:"tax" validate:"omitempty,gte=0"`
	Discount        *float64                   `json:"discount" validate:"omitempty,gte=0"`
	Total           *float64                   `json:"total" validate:"omitempty,gte=0"`
}

// ToInvoice applies defaults. Subtotal and Total are left at zero for the
// totals calculator to fill in.
func (r *CreateInvoiceRequest) ToInvoice() (*Invoice, error) {
	issueDate, err := ParseDate(r.IssueDate)
	if err != nil {
		return nil, err
	}

	var dueDate *Date
	if r.DueDate != nil {
		d, err := ParseDate(*r.DueDate)
		if err != nil {
			return nil, err
		}
		dueDate = &d
	}

	items := lo.Map(r.Items, func(item CreateInvoiceItemRequest, _ int) InvoiceItem {
		return InvoiceItem{
			Description: item.Description,
			Quantity:    lo.FromPtrOr(item.Quantity, 1),
			UnitPrice:   lo.FromPtr(item.UnitPrice),
		}
	})

	return &Invoice{
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerAddress: r.CustomerAddress,
		InvoiceNumber:   r.InvoiceNumber,
		IssueDate:       issueDate,
		DueDate:         dueDate,
		Currency:        lo.FromPtrOr(r.Currency, DefaultCurrency),
		Items:           items,
		Notes:           r.Notes,
		Status:          lo.FromPtrOr(r.Status, DefaultStatus),
		Tax:             lo.FromPtr(r.Tax),
		Discount:        lo.FromPtr(r.Discount),
	}, nil
}

type CreateInvoiceResponse struct {
	ID       string `json:"id"`
	ShareURL string `json:"share_url"`
}

// ListInvoicesQuery is the query string of the listing endpoint.
type ListInvoicesQuery struct {
	Limit  int    `form:"limit,default=50" json:"limit" validate:"min=1,max=1000"`
	Status string `form:"status" json:"status"`
}
