package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/EcoTrail/pkg/errors"
	"github.com/utafrali/EcoTrail/pkg/logger"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *ErrorResponse {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

// --- WriteJSON ---

func TestWriteJSON_SetsContentTypeAndStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"id": "abc"})

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":"abc"}`, rec.Body.String())
}

// --- WriteError ---

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)

	WriteError(rec, req, apperrors.InvalidParameter("page", "x", "must be an integer"), testLogger())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_PARAMETER", decodeError(t, rec).Code)
}

func TestWriteError_StoreFailure_CarriesMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/reviews", nil)

	WriteError(rec, req, apperrors.StoreFailure(errors.New("write concern timeout")), testLogger())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "STORE_ERROR", body.Code)
	assert.Equal(t, "write concern timeout", body.Message)
}

func TestWriteError_WrappedAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/products", nil)

	WriteError(rec, req, fmt.Errorf("create product: %w", apperrors.StoreUnavailable("create product")), testLogger())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "STORE_UNAVAILABLE", decodeError(t, rec).Code)
}

func TestWriteError_SentinelInvalidInput(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/test", nil)

	WriteError(rec, req, apperrors.ErrInvalidInput, testLogger())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeError(t, rec).Code)
}

func TestWriteError_UnknownError_Returns500(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	WriteError(rec, req, fmt.Errorf("something unexpected"), testLogger())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", body.Code)
	assert.Equal(t, "an internal error occurred", body.Message)
}

func TestWriteError_IncludesRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx := logger.WithCorrelationID(context.Background(), "corr-123")
	req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)

	WriteError(rec, req, apperrors.ErrNotFound, testLogger())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "corr-123", decodeError(t, rec).RequestID)
}

func TestWriteError_NoCorrelationID_OmitsRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	WriteError(rec, req, apperrors.ErrNotFound, testLogger())

	var raw map[string]map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	_, hasRequestID := raw["error"]["request_id"]
	assert.False(t, hasRequestID)
}

// --- WriteValidationError ---

func TestWriteValidationError_NonValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteValidationError(rec, fmt.Errorf("decode request body: unexpected EOF"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeError(t, rec).Code)
}

// --- Page ---

func TestNewPage_NilItemsBecomeEmptyArray(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, NewPage[string](nil, 0, 1, 12))

	assert.JSONEq(t, `{"items":[],"total":0,"page":1,"page_size":12}`, rec.Body.String())
}

func TestNewPage_EchoesWindow(t *testing.T) {
	p := NewPage([]int{4, 5}, 17, 3, 2)
	assert.Equal(t, []int{4, 5}, p.Items)
	assert.Equal(t, int64(17), p.Total)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 2, p.PageSize)
}

// --- Query parsing ---

func TestQueryString(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?q=Tent&category=", nil)

	q := QueryString(req, "q")
	require.NotNil(t, q)
	assert.Equal(t, "Tent", *q)
	assert.Nil(t, QueryString(req, "category"))
	assert.Nil(t, QueryString(req, "season"))
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&page_size=abc&neg=-2", nil)

	n, err := QueryInt(req, "page", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = QueryInt(req, "missing", 12)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	n, err = QueryInt(req, "neg", 1)
	require.NoError(t, err)
	assert.Equal(t, -2, n)

	_, err = QueryInt(req, "page_size", 12)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))
}

func TestQueryFloat(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?min_price=10.5&max_price=cheap&x=NaN", nil)

	f, err := QueryFloat(req, "min_price")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, 10.5, *f)

	f, err = QueryFloat(req, "absent")
	require.NoError(t, err)
	assert.Nil(t, f)

	_, err = QueryFloat(req, "max_price")
	assert.Error(t, err)

	_, err = QueryFloat(req, "x")
	assert.Error(t, err)
}
