package invoicing

import (
	"context"
	"testing"

	ierr "invoice-link-backend/internal/errors"
	"invoice-link-backend/internal/logger"
	"invoice-link-backend/internal/models"
	"invoice-link-backend/internal/repository"
	"invoice-link-backend/internal/store"
	"invoice-link-backend/internal/testutil"
	"invoice-link-backend/internal/validator"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type InvoiceServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *store.Store
	service *InvoiceService
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	validator.NewValidator()
	s.ctx = context.Background()
	s.store = testutil.NewSQLiteStore(s.T())
	s.service = NewInvoiceService(repository.NewInvoiceRepository(s.store), logger.NewNopLogger())
}

func validRequest() *models.CreateInvoiceRequest {
	return &models.CreateInvoiceRequest{
		CustomerName:    "Grace Hopper",
		CustomerEmail:   "grace@example.com",
		CustomerAddress: lo.ToPtr("1 Navy Way"),
		InvoiceNumber:   lo.ToPtr("INV-001"),
		IssueDate:       "2024-03-01",
		DueDate:         lo.ToPtr("2024-03-31"),
		Items: []models.CreateInvoiceItemRequest{
			{Description: "Widget", Quantity: lo.ToPtr(2.0), UnitPrice: lo.ToPtr(9.99)},
		},
		Tax: lo.ToPtr(1.5),
	}
}

func (s *InvoiceServiceSuite) TestCreateInvoiceRoundTrip() {
	req := validRequest()
	req.Subtotal = lo.ToPtr(1.0)
	req.Total = lo.ToPtr(1000.0)

	resp, err := s.service.CreateInvoice(s.ctx, req)
	s.Require().NoError(err)
	s.Equal("/public/invoices/"+resp.ID, resp.ShareURL)

	inv, err := s.service.GetInvoice(s.ctx, resp.ID)
	s.Require().NoError(err)

	s.Equal(resp.ID, inv["id"])
	s.NotContains(inv, store.IDKey)
	s.Equal("Grace Hopper", inv["customer_name"])
	s.Equal("grace@example.com", inv["customer_email"])
	s.Equal("1 Navy Way", inv["customer_address"])
	s.Equal("INV-001", inv["invoice_number"])
	s.Equal("2024-03-01", inv["issue_date"])
	s.Equal("2024-03-31", inv["due_date"])
	s.Equal("USD", inv["currency"])
	s.Equal("unpaid", inv["status"])
	s.Nil(inv["notes"])
	s.Equal(19.98, inv["subtotal"])
	s.Equal(1.5, inv["tax"])
	s.Equal(0.0, inv["discount"])
	s.Equal(21.48, inv["total"])
	s.NotEmpty(inv["created_at"])
	s.NotEmpty(inv["updated_at"])
}

func (s *InvoiceServiceSuite) TestCreateInvoiceDefaults() {
	req := &models.CreateInvoiceRequest{
		CustomerName:  "Alan",
		CustomerEmail: "alan@example.com",
		IssueDate:     "2024-01-01",
		Items: []models.CreateInvoiceItemRequest{
			{Description: "Hour", UnitPrice: lo.ToPtr(40.0)},
		},
		Discount: lo.ToPtr(5.0),
		Status:   lo.ToPtr("any-status-is-kept"),
	}

	resp, err := s.service.CreateInvoice(s.ctx, req)
	s.Require().NoError(err)

	inv, err := s.service.GetInvoice(s.ctx, resp.ID)
	s.Require().NoError(err)
	s.Equal("any-status-is-kept", inv["status"])
	s.Nil(inv["due_date"])
	s.Equal(40.0, inv["subtotal"])
	s.Equal(35.0, inv["total"])

	items := inv["items"].([]any)
	s.Require().Len(items, 1)
	s.Equal(1.0, items[0].(map[string]any)["quantity"])
}

func (s *InvoiceServiceSuite) TestCreateInvoiceClampsTotal() {
	req := validRequest()
	req.Items = nil
	req.Tax = nil
	req.Discount = lo.ToPtr(5.0)

	resp, err := s.service.CreateInvoice(s.ctx, req)
	s.Require().NoError(err)

	inv, err := s.service.GetInvoice(s.ctx, resp.ID)
	s.Require().NoError(err)
	s.Equal(0.0, inv["subtotal"])
	s.Equal(0.0, inv["total"])
	s.Equal([]any{}, inv["items"])
}

func (s *InvoiceServiceSuite) TestCreateInvoiceValidation() {
	testCases := []struct {
		name   string
		mutate func(r *models.CreateInvoiceRequest)
		field  string
	}{
		{"missing customer name", func(r *models.CreateInvoiceRequest) { r.CustomerName = "" }, "customer_name"},
		{"bad email", func(r *models.CreateInvoiceRequest) { r.CustomerEmail = "not-an-email" }, "customer_email"},
		{"missing issue date", func(r *models.CreateInvoiceRequest) { r.IssueDate = "" }, "issue_date"},
		{"bad issue date", func(r *models.CreateInvoiceRequest) { r.IssueDate = "01/03/2024" }, "issue_date"},
		{"bad due date", func(r *models.CreateInvoiceRequest) { r.DueDate = lo.ToPtr("2024-02-30") }, "due_date"},
		{"negative tax", func(r *models.CreateInvoiceRequest) { r.Tax = lo.ToPtr(-1.0) }, "tax"},
		{"negative discount", func(r *models.CreateInvoiceRequest) { r.Discount = lo.ToPtr(-0.01) }, "discount"},
		{"negative client total", func(r *models.CreateInvoiceRequest) { r.Total = lo.ToPtr(-3.0) }, "total"},
		{"item without description", func(r *models.CreateInvoiceRequest) { r.Items[0].Description = "" }, "items[0].description"},
		{"item without price", func(r *models.CreateInvoiceRequest) { r.Items[0].UnitPrice = nil }, "items[0].unit_price"},
		{"item negative quantity", func(r *models.CreateInvoiceRequest) { r.Items[0].Quantity = lo.ToPtr(-2.0) }, "items[0].quantity"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			req := validRequest()
			tc.mutate(req)

			_, err := s.service.CreateInvoice(s.ctx, req)
			s.Require().Error(err)
			s.True(ierr.IsValidation(err))

			s.Contains(ierr.ReportableDetails(err), tc.field)
		})
	}

	docs, err := s.store.Find(s.ctx, repository.InvoiceCollection, nil, 0)
	s.Require().NoError(err)
	s.Empty(docs)
}

func (s *InvoiceServiceSuite) TestZeroUnitPriceIsAccepted() {
	req := validRequest()
	req.Items[0].UnitPrice = lo.ToPtr(0.0)

	_, err := s.service.CreateInvoice(s.ctx, req)
	s.NoError(err)
}

func (s *InvoiceServiceSuite) TestGetInvoiceErrors() {
	_, err := s.service.GetInvoice(s.ctx, "bogus")
	s.True(ierr.IsInvalidIdentifier(err))

	_, err = s.service.GetPublicInvoice(s.ctx, uuid.NewString())
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestPublicInvoiceUsesAllowlist() {
	id, err := s.store.Insert(s.ctx, repository.InvoiceCollection, store.Document{
		"customer_name":  "Linus",
		"customer_email": "linus@example.com",
		"issue_date":     "2024-05-05",
		"total":          10.0,
		"owner_secret":   "do-not-leak",
		"internal_notes": "private",
	})
	s.Require().NoError(err)

	pub, err := s.service.GetPublicInvoice(s.ctx, id)
	s.Require().NoError(err)

	s.ElementsMatch(PublicFields, lo.Keys(pub))
	s.Len(pub, 15)
	s.Equal(id, pub["id"])
	s.Equal("Linus", pub["customer_name"])
	s.Equal([]any{}, pub["items"])
	s.Nil(pub["invoice_number"])
	s.NotContains(pub, "owner_secret")
	s.NotContains(pub, "created_at")
}

func (s *InvoiceServiceSuite) TestListInvoicesRespectsLimit() {
	for i := 0; i < 3; i++ {
		_, err := s.service.CreateInvoice(s.ctx, validRequest())
		s.Require().NoError(err)
	}

	one, err := s.service.ListInvoices(s.ctx, repository.InvoiceFilter{Limit: 1})
	s.Require().NoError(err)
	s.Len(one, 1)
	s.NotEmpty(one[0]["id"])

	all, err := s.service.ListInvoices(s.ctx, repository.InvoiceFilter{})
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *InvoiceServiceSuite) TestUnavailableStore() {
	svc := NewInvoiceService(
		repository.NewInvoiceRepository(store.Unavailable(logger.NewNopLogger())),
		logger.NewNopLogger(),
	)

	_, err := svc.CreateInvoice(s.ctx, validRequest())
	s.True(ierr.IsStoreUnavailable(err))

	_, err = svc.ListInvoices(s.ctx, repository.InvoiceFilter{})
	s.True(ierr.IsStoreUnavailable(err))
}
