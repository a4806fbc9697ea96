package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	apperrors "autoshop-system/pkg/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func errorStatus(t *testing.T, err error) (int, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, ErrorResponse(c, err, zap.NewNop()))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestErrorResponse_MapsErrorKinds(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", apperrors.NewValidationError(apperrors.KindPastDate, "date", "в прошлом"), http.StatusUnprocessableEntity},
		{"slot conflict", apperrors.NewValidationError(apperrors.KindSlotConflict, "slot", "занято"), http.StatusConflict},
		{"wrapped not found", fmt.Errorf("заявка 5: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{"conflict", apperrors.ErrConflict, http.StatusConflict},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden},
		{"expired token", apperrors.ErrTokenExpired, http.StatusUnauthorized},
		{"http error", apperrors.NewHttpError(http.StatusBadRequest, "плохо", nil, nil), http.StatusBadRequest},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := errorStatus(t, tc.err)
			assert.Equal(t, tc.code, code)
			assert.Equal(t, false, body["status"])
		})
	}
}

func TestErrorResponse_ValidationBodyCarriesKind(t *testing.T) {
	_, body := errorStatus(t, apperrors.NewValidationError(apperrors.KindPastDate, "date", "дата в прошлом"))
	details, ok := body["body"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "past_date", details["kind"])
	assert.Equal(t, "date", details["field"])
}

func TestParseFilterFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("search", "Gomez")
	values.Set("sort[created_at]", "DESC")
	values.Set("sort[name]", "sideways")
	values.Add("filter[status]", "pending")
	values.Add("filter[status]", "in_progress")
	values.Set("limit", "1000")
	values.Set("page", "3")

	f := ParseFilterFromQuery(values)
	assert.Equal(t, "Gomez", f.Search)
	assert.Equal(t, map[string]string{"created_at": "desc"}, f.Sort)
	assert.Equal(t, "pending,in_progress", f.Filter["status"])
	assert.Equal(t, MaxLimit, f.Limit)
	assert.Equal(t, 2*MaxLimit, f.Offset)
	assert.True(t, f.WithPagination)
}

func TestNormalizePhoneAndPlate(t *testing.T) {
	assert.Equal(t, "+56912345678", NormalizePhone(" +56 9 1234-5678 "))
	assert.Equal(t, "12345678", NormalizePhone("1234 5678"))
	assert.Equal(t, "AB CD 12", NormalizePlate(" ab  cd 12 "))
}
