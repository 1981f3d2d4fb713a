package invoicing

import (
	"context"
	"fmt"

	ierr "invoice-link-backend/internal/errors"
	"invoice-link-backend/internal/logger"
	"invoice-link-backend/internal/models"
	"invoice-link-backend/internal/repository"
	"invoice-link-backend/internal/services/totals"
	"invoice-link-backend/internal/store"
	"invoice-link-backend/internal/validator"

	"github.com/samber/lo"
)

// ShareURL returns the relative public path for an invoice.
func ShareURL(id string) string {
	return fmt.Sprintf("/public/invoices/%s", id)
}

type InvoiceService struct {
	repo   *repository.InvoiceRepository
	logger *logger.Logger
}

func NewInvoiceService(repo *repository.InvoiceRepository, logger *logger.Logger) *InvoiceService {
	return &InvoiceService{
		repo:   repo,
		logger: logger,
	}
}

// CreateInvoice validates the payload, recomputes totals and stores the
// invoice. Client supplied subtotal and total are discarded.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req *models.CreateInvoiceRequest) (*models.CreateInvoiceResponse, error) {
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	inv, err := req.ToInvoice()
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Request validation failed").
			Mark(ierr.ErrValidation)
	}
	totals.Apply(inv)

	id, err := s.repo.Create(ctx, inv)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("invoice created",
		"invoice_id", id,
		"items", len(inv.Items),
		"subtotal", inv.Subtotal,
		"total", inv.Total,
		"client_total_ignored", req.Total != nil && lo.FromPtr(req.Total) != inv.Total,
	)

	return &models.CreateInvoiceResponse{
		ID:       id,
		ShareURL: ShareURL(id),
	}, nil
}

// ListInvoices returns serialized owner-view invoices.
func (s *InvoiceService) ListInvoices(ctx context.Context, filter repository.InvoiceFilter) ([]map[string]any, error) {
	docs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return lo.Map(docs, func(doc store.Document, _ int) map[string]any {
		return Serialize(doc)
	}), nil
}

// GetInvoice returns the full owner view of one invoice.
func (s *InvoiceService) GetInvoice(ctx context.Context, id string) (map[string]any, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return Serialize(doc), nil
}

// GetPublicInvoice returns the share-link view of one invoice.
func (s *InvoiceService) GetPublicInvoice(ctx context.Context, id string) (map[string]any, error) {
	inv, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	return ProjectPublic(inv), nil
}
