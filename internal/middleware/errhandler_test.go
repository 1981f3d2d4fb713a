package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	ierr "invoice-link-backend/internal/errors"
	"invoice-link-backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware, RequestLogger(logger.NewNopLogger()), ErrorHandler())
	r.GET("/missing", func(c *gin.Context) {
		c.Error(ierr.NewError("invoice 42 not in store").
			WithHint("Invoice not found").
			Mark(ierr.ErrNotFound))
	})
	r.GET("/invalid", func(c *gin.Context) {
		c.Error(ierr.NewError("bad payload").
			WithHint("Request validation failed").
			WithReportableDetails(map[string]any{"customer_email": "field required"}).
			Mark(ierr.ErrValidation))
	})
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": GetRequestID(c.Request.Context())})
	})

	tests := []struct {
		path    string
		status  int
		message string
		details map[string]any
	}{
		{"/missing", http.StatusNotFound, "Invoice not found", nil},
		{"/invalid", http.StatusUnprocessableEntity, "Request validation failed", map[string]any{"customer_email": "field required"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, tt.status, w.Code)

			var body ierr.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Error.Display)
			assert.Equal(t, tt.details, body.Error.Details)
			assert.NotContains(t, w.Body.String(), "not in store")
		})
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware)
	r.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(HeaderRequestID))
	assert.Equal(t, "req-123", w.Body.String())
}
