package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venturis/worktrack-api/internal/domain"
	"github.com/venturis/worktrack-api/internal/service"
)

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) domain.APIError {
	var apiErr domain.APIError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
	return apiErr
}

func TestRespondServiceError_ValidationErrorNamesFields(t *testing.T) {
	rec := httptest.NewRecorder()

	// the shape quotation creation returns when neither source resolves
	err := fmt.Errorf("%w: %w", service.ErrInvalidInput,
		domain.NewValidationError("a quotation requires an RFQ or a technical recommendation", "rfqId", "trId"))
	respondServiceError(rec, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	apiErr := decodeAPIError(t, rec)
	assert.Equal(t, domain.ErrorTypeValidation, apiErr.Type)
	require.Contains(t, apiErr.Errors, "rfqId")
	require.Contains(t, apiErr.Errors, "trId")
	assert.Contains(t, apiErr.Detail, "requires an RFQ or a technical recommendation")
}

func TestRespondServiceError_SentinelMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"not found", fmt.Errorf("work order abc: %w", service.ErrNotFound), http.StatusNotFound, domain.ErrorTypeNotFound},
		{"invalid input", fmt.Errorf("%w: rfq belongs to another work order", service.ErrInvalidInput), http.StatusBadRequest, domain.ErrorTypeBadRequest},
		{"conflict", fmt.Errorf("%w: duplicate code", service.ErrConflict), http.StatusConflict, domain.ErrorTypeConflict},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, domain.ErrorTypeForbidden},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, domain.ErrorTypeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondServiceError(rec, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)
			apiErr := decodeAPIError(t, rec)
			assert.Equal(t, tc.wantType, apiErr.Type)
			assert.Empty(t, apiErr.Errors)
		})
	}
}
