package apperrors_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"fmk-dating/internal/apperrors"
)

func TestMapPassesThroughAPIErrors(t *testing.T) {
	original := apperrors.Forbidden("Access denied")
	mapped := apperrors.Map(fmt.Errorf("handler: %w", original))
	assert.Equal(t, http.StatusForbidden, mapped.Status)
	assert.Equal(t, "Access denied", mapped.Message)
}

func TestMapInfraErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{gorm.ErrRecordNotFound, http.StatusNotFound},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{context.Canceled, 499},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, apperrors.Map(tc.err).Status, "for %v", tc.err)
	}
	assert.Nil(t, apperrors.Map(nil))
}

func TestErrorStringAndUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := apperrors.Internal("internal server error", cause)
	assert.Equal(t, "internal server error: disk full", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "Invalid action", apperrors.Validation("Invalid action").Error())
}

func TestWriteRendersJSONBody(t *testing.T) {
	rec := httptest.NewRecorder()
	apperrors.Write(rec, apperrors.NotFound("Match not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Match not found"}`, rec.Body.String())
}

func TestWriteHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	apperrors.Write(rec, errors.New("password=hunter2 leaked"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}
