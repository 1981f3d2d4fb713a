package repository

import (
	"context"
	"encoding/json"

	ierr "invoice-link-backend/internal/errors"
	"invoice-link-backend/internal/models"
	"invoice-link-backend/internal/store"
)

// InvoiceCollection is the collection invoices are stored in.
const InvoiceCollection = "invoice"

type InvoiceRepository struct {
	store *store.Store
}

func NewInvoiceRepository(s *store.Store) *InvoiceRepository {
	return &InvoiceRepository{store: s}
}

// Store exposes the underlying gateway for diagnostics.
func (r *InvoiceRepository) Store() *store.Store {
	return r.store
}

// InvoiceFilter narrows a listing. Zero values mean "no constraint".
type InvoiceFilter struct {
	Status string
	Limit  int
}

// Create persists inv and returns the generated identifier.
func (r *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice) (string, error) {
	doc, err := toDocument(inv)
	if err != nil {
		return "", err
	}
	return r.store.Insert(ctx, InvoiceCollection, doc)
}

// List returns stored invoice documents as-is, in store order.
func (r *InvoiceRepository) List(ctx context.Context, filter InvoiceFilter) ([]store.Document, error) {
	var query store.Document
	if filter.Status != "" {
		query = store.Document{"status": filter.Status}
	}
	return r.store.Find(ctx, InvoiceCollection, query, filter.Limit)
}

// GetByID fetches a single invoice document.
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (store.Document, error) {
	return r.store.FindOne(ctx, InvoiceCollection, id)
}

func toDocument(inv *models.Invoice) (store.Document, error) {
	raw, err := json.Marshal(inv)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invoice could not be encoded").
			Mark(ierr.ErrSystem)
	}
	var doc store.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invoice could not be encoded").
			Mark(ierr.ErrSystem)
	}
	return doc, nil
}
