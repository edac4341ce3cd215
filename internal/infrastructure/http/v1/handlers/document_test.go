package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/id"
	"bizerp/internal/core/numerator"
	"bizerp/internal/core/tx"
	"bizerp/internal/domain/documents"
	"bizerp/internal/domain/documents/documentstest"
	"bizerp/internal/domain/documents/purchase_order"
	"bizerp/internal/infrastructure/http/v1/middleware"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type poFixture struct {
	router *gin.Engine
	repo   *documentstest.MemoryRepo[*purchase_order.PurchaseOrder, *purchase_order.Line]
}

func newPOFixture() poFixture {
	gin.SetMode(gin.TestMode)
	repo := documentstest.NewMemoryRepo[*purchase_order.PurchaseOrder, *purchase_order.Line](purchase_order.Definition)
	svc := purchase_order.NewService(repo, &numerator.MockGenerator{}, tx.Passthrough{},
		documents.Options{OrganizationID: id.New()})

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	NewDocumentHandler(NewBaseHandler(), svc).RegisterRoutes(r.Group("/purchase-orders"))
	return poFixture{router: r, repo: repo}
}

const poBody = `{
	"vendor_name": "Acme Supplies",
	"date": "2024-03-01",
	"total_amount": "150.00",
	"items": [
		{"item_name": "Bolt", "quantity": 10, "rate": "10", "amount": "100"},
		{"item_name": "Nut", "quantity": 5, "rate": "10", "amount": "50"}
	]
}`

func createPO(t *testing.T, f poFixture) *purchase_order.PurchaseOrder {
	t.Helper()
	w := doRequest(f.router, http.MethodPost, "/purchase-orders", poBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var po purchase_order.PurchaseOrder
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &po))
	return &po
}

func TestDocumentHandler_Create(t *testing.T) {
	f := newPOFixture()

	po := createPO(t, f)

	assert.Equal(t, "PO-00001", po.Number)
	assert.Equal(t, purchase_order.StatusDraft, po.Status)
	assert.Equal(t, "150", po.TotalAmount.String())
	require.Len(t, po.Items, 2)
	for _, line := range po.Items {
		assert.Equal(t, po.ID, line.PurchaseOrderID)
	}
	assert.Equal(t, 1, f.repo.Headers())
	assert.Equal(t, 2, f.repo.LineCount(po.ID))
}

func TestDocumentHandler_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"vendor_name":`},
		{"missing vendor", `{"date":"2024-03-01","items":[{"item_name":"Bolt","quantity":1}]}`},
		{"missing lines", `{"vendor_name":"Acme","date":"2024-03-01","items":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPOFixture()

			w := doRequest(f.router, http.MethodPost, "/purchase-orders", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			env := decodeEnvelope(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, apperror.CodeValidation, env.Code)
			assert.Equal(t, 0, f.repo.Headers())
		})
	}
}

func TestDocumentHandler_Get(t *testing.T) {
	f := newPOFixture()
	po := createPO(t, f)

	w := doRequest(f.router, http.MethodGet, "/purchase-orders/"+po.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)

	var got purchase_order.PurchaseOrder
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &got))
	assert.Equal(t, po.Number, got.Number)
	assert.Len(t, got.Items, 2)
}

func TestDocumentHandler_GetErrors(t *testing.T) {
	f := newPOFixture()

	w := doRequest(f.router, http.MethodGet, "/purchase-orders/not-an-id", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(f.router, http.MethodGet, "/purchase-orders/"+id.New().String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperror.CodeNotFound, decodeEnvelope(t, w).Code)
}

func TestDocumentHandler_UpdateReplacesLines(t *testing.T) {
	f := newPOFixture()
	po := createPO(t, f)

	body := `{"notes":"rush","items":[{"item_name":"Washer","quantity":3,"rate":"2","amount":"6"}]}`
	w := doRequest(f.router, http.MethodPut, "/purchase-orders/"+po.ID.String(), body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got purchase_order.PurchaseOrder
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &got))
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Washer", got.Items[0].ItemName)
	for _, old := range po.Items {
		assert.NotEqual(t, old.ID, got.Items[0].ID)
	}
	require.NotNil(t, got.Notes)
	assert.Equal(t, "rush", *got.Notes)
	assert.Equal(t, 1, f.repo.LineCount(po.ID))
}

func TestDocumentHandler_UpdateWithoutItemsKeepsLines(t *testing.T) {
	f := newPOFixture()
	po := createPO(t, f)

	w := doRequest(f.router, http.MethodPut, "/purchase-orders/"+po.ID.String(), `{"vendor_name":"Acme Ltd"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, 2, f.repo.LineCount(po.ID))
}

func TestDocumentHandler_DeleteIsIdempotent(t *testing.T) {
	f := newPOFixture()
	po := createPO(t, f)

	for i := 0; i < 2; i++ {
		w := doRequest(f.router, http.MethodDelete, "/purchase-orders/"+po.ID.String(), "")
		require.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		assert.True(t, env.Success)
		assert.Equal(t, "purchase order deleted successfully", env.Message)
	}
	assert.Equal(t, 0, f.repo.Headers())
}

func TestDocumentHandler_GenerateNumber(t *testing.T) {
	f := newPOFixture()

	w := doRequest(f.router, http.MethodGet, "/purchase-orders/generate-number", "")
	require.Equal(t, http.StatusOK, w.Code)

	var data map[string]string
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
	assert.Equal(t, "PO-00001", data["number"])
	assert.Equal(t, "PO-00001", data["purchase_order_number"])
}

func TestDocumentHandler_List(t *testing.T) {
	f := newPOFixture()
	createPO(t, f)
	createPO(t, f)

	w := doRequest(f.router, http.MethodGet, "/purchase-orders?limit=10", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Success    bool              `json:"success"`
		Data       []json.RawMessage `json:"data"`
		TotalCount int64             `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.True(t, list.Success)
	assert.Len(t, list.Data, 2)
	assert.EqualValues(t, 2, list.TotalCount)
}
