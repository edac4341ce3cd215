package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/id"
	"bizerp/internal/core/tx"
	"bizerp/internal/domain/domaintest"
	"bizerp/internal/domain/expenses"
	"bizerp/internal/infrastructure/http/v1/middleware"
)

type fakeReceipts struct {
	saved   []string
	removed []string
	saveErr error
}

func (f *fakeReceipts) SaveReceipt(_ context.Context, r io.Reader) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	url := "/uploads/receipts/" + id.New().String() + ".jpg"
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeReceipts) Remove(url string) error {
	f.removed = append(f.removed, url)
	return nil
}

func newExpenseRouter(receipts ReceiptStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	repo := domaintest.NewMemoryCatalog[*expenses.Expense]("expense")
	svc := expenses.NewService(repo, tx.Passthrough{}, id.New())

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	NewExpenseHandler(NewBaseHandler(), svc, receipts).RegisterRoutes(r.Group("/expenses"))
	return r
}

func createExpense(t *testing.T, r *gin.Engine) *expenses.Expense {
	t.Helper()
	body := `{"expense_date":"2024-03-05","category":"Travel","amount":"100.50","tax_amount":"18"}`
	w := doRequest(r, http.MethodPost, "/expenses", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var e expenses.Expense
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &e))
	return &e
}

func uploadRequest(t *testing.T, path string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "receipt.jpg")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestExpenseHandler_CreateComputesTotal(t *testing.T) {
	r := newExpenseRouter(nil)

	e := createExpense(t, r)

	assert.Equal(t, expenses.StatusPending, e.Status)
	assert.Equal(t, "118.5", e.TotalAmount.String())
}

func TestExpenseHandler_ApproveOnlyPending(t *testing.T) {
	r := newExpenseRouter(nil)
	e := createExpense(t, r)

	w := doRequest(r, http.MethodPost, "/expenses/"+e.ID.String()+"/approve", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var approved expenses.Expense
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &approved))
	assert.Equal(t, expenses.StatusApproved, approved.Status)

	w = doRequest(r, http.MethodPost, "/expenses/"+e.ID.String()+"/reject", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, apperror.CodeInvalidStatus, decodeEnvelope(t, w).Code)
}

func TestExpenseHandler_UpdateIgnoresReceiptURL(t *testing.T) {
	r := newExpenseRouter(nil)
	e := createExpense(t, r)

	w := doRequest(r, http.MethodPut, "/expenses/"+e.ID.String(), `{"category":"Meals","receipt_url":"/evil"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got expenses.Expense
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &got))
	assert.Equal(t, "Meals", got.Category)
	assert.Nil(t, got.ReceiptURL)
}

func TestExpenseHandler_UploadReceipt(t *testing.T) {
	store := &fakeReceipts{}
	r := newExpenseRouter(store)
	e := createExpense(t, r)
	path := "/expenses/" + e.ID.String() + "/receipt"

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, path, []byte("first")))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got expenses.Expense
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &got))
	require.NotNil(t, got.ReceiptURL)
	require.Len(t, store.saved, 1)
	assert.Equal(t, store.saved[0], *got.ReceiptURL)

	// A second upload replaces the first file.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, path, []byte("second")))
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.saved, 2)
	assert.Equal(t, []string{store.saved[0]}, store.removed)
}

func TestExpenseHandler_UploadReceiptErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		r := newExpenseRouter(&fakeReceipts{})
		e := createExpense(t, r)

		w := doRequest(r, http.MethodPost, "/expenses/"+e.ID.String()+"/receipt", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown expense", func(t *testing.T) {
		r := newExpenseRouter(&fakeReceipts{})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, uploadRequest(t, "/expenses/"+id.New().String()+"/receipt", []byte("x")))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("store rejects image", func(t *testing.T) {
		store := &fakeReceipts{saveErr: apperror.NewValidation("file is not a supported image")}
		r := newExpenseRouter(store)
		e := createExpense(t, r)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, uploadRequest(t, "/expenses/"+e.ID.String()+"/receipt", []byte("x")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("uploads disabled", func(t *testing.T) {
		r := newExpenseRouter(nil)
		e := createExpense(t, r)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, uploadRequest(t, "/expenses/"+e.ID.String()+"/receipt", []byte("x")))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		store := &fakeReceipts{saveErr: errors.New("disk full")}
		r := newExpenseRouter(store)
		e := createExpense(t, r)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, uploadRequest(t, "/expenses/"+e.ID.String()+"/receipt", []byte("x")))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestCatalogHandler_DeleteTwiceSucceeds(t *testing.T) {
	r := newExpenseRouter(nil)
	e := createExpense(t, r)

	for i := 0; i < 2; i++ {
		w := doRequest(r, http.MethodDelete, "/expenses/"+e.ID.String(), "")
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
