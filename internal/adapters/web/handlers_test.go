package web_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"warehouse-ledger/internal/adapters/web"
	"warehouse-ledger/internal/app"
	"warehouse-ledger/internal/core"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	now := func() time.Time { return time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC) }
	store := core.NewStore(nil, core.WithClock(now), core.WithIDGenerator(core.NewSequenceIDs()))
	if err := store.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}
	svc := app.NewAppService(store, core.DefaultThresholds(), nil)
	return web.NewHandler(svc, []string{"http://localhost:3000"}, nil)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

type errorBody struct {
	Error     string         `json:"error"`
	Code      string         `json:"code"`
	RequestID string         `json:"request_id"`
	Details   map[string]any `json:"details"`
}

const widgetOrder = `{"vendor":"Acme","item":"Widget","quantity":10,"unitPrice":"5.00","expectedDeliveryDate":"2025-03-20"}`

func createOrder(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/purchase-orders", widgetOrder)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", rec.Code, rec.Body.String())
	}
	var res struct {
		Order struct {
			ID string `json:"id"`
		} `json:"order"`
	}
	decode(t, rec, &res)
	return res.Order.ID
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestCreateAndGetPurchaseOrder(t *testing.T) {
	h := newTestServer(t)
	id := createOrder(t, h)

	rec := do(t, h, http.MethodGet, "/api/purchase-orders/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var res struct {
		Order struct {
			ID            string `json:"id"`
			DisplayStatus string `json:"displayStatus"`
			Remaining     int    `json:"remaining"`
		} `json:"order"`
	}
	decode(t, rec, &res)
	if res.Order.ID != id || res.Order.DisplayStatus != "Open" || res.Order.Remaining != 10 {
		t.Errorf("order = %+v", res.Order)
	}

	rec = do(t, h, http.MethodGet, "/api/purchase-orders/PO-9999", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown order status = %d, want 404", rec.Code)
	}
}

func TestCreatePurchaseOrderErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
		want string
	}{
		{"malformed json", `{"vendor":`, http.StatusBadRequest, "BAD_REQUEST"},
		{"bad price", `{"vendor":"Acme","item":"W","quantity":1,"unitPrice":"abc","expectedDeliveryDate":"2025-03-20"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"zero quantity", `{"vendor":"Acme","item":"W","quantity":0,"unitPrice":"1","expectedDeliveryDate":"2025-03-20"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing vendor", `{"item":"W","quantity":1,"unitPrice":"1","expectedDeliveryDate":"2025-03-20"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t)
			rec := do(t, h, http.MethodPost, "/api/purchase-orders", tt.body)
			if rec.Code != tt.code {
				t.Fatalf("status = %d, want %d body=%s", rec.Code, tt.code, rec.Body.String())
			}
			var body errorBody
			decode(t, rec, &body)
			if body.Code != tt.want {
				t.Errorf("code = %q, want %q", body.Code, tt.want)
			}
		})
	}
}

func TestReceiveOverageReturnsDetails(t *testing.T) {
	h := newTestServer(t)
	id := createOrder(t, h)

	rec := do(t, h, http.MethodPost, "/api/purchase-orders/"+id+"/receipts", `{"quantity":12,"invoiceAmount":"60"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 body=%s", rec.Code, rec.Body.String())
	}
	var body errorBody
	decode(t, rec, &body)
	if body.Code != "OVERAGE" {
		t.Fatalf("code = %q, want OVERAGE", body.Code)
	}
	if body.Details["remaining"] != float64(10) || body.Details["requested"] != float64(12) {
		t.Errorf("details = %v", body.Details)
	}

	rec = do(t, h, http.MethodPost, "/api/purchase-orders/"+id+"/receipts", `{"quantity":12,"invoiceAmount":"60","allowOverage":true}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("confirmed status = %d body=%s", rec.Code, rec.Body.String())
	}

	// Closed orders are locked against edits.
	rec = do(t, h, http.MethodPut, "/api/purchase-orders/"+id, widgetOrder)
	if rec.Code != http.StatusLocked {
		t.Errorf("edit closed status = %d, want 423", rec.Code)
	}
}

func TestSaleAndPaymentFlow(t *testing.T) {
	h := newTestServer(t)
	id := createOrder(t, h)

	rec := do(t, h, http.MethodPost, "/api/purchase-orders/"+id+"/receipts", `{"quantity":4,"invoiceAmount":"20"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("receive status = %d", rec.Code)
	}
	var receipt struct {
		Payable struct {
			ID string `json:"id"`
		} `json:"payable"`
	}
	decode(t, rec, &receipt)

	rec = do(t, h, http.MethodPost, "/api/sales", `{"item":"Widget","quantity":9,"unitPrice":"8"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("oversell status = %d, want 409", rec.Code)
	}
	var shortage errorBody
	decode(t, rec, &shortage)
	if shortage.Code != "INSUFFICIENT_STOCK" || shortage.Details["available"] != float64(4) {
		t.Errorf("shortage = %+v", shortage)
	}

	rec = do(t, h, http.MethodPost, "/api/sales", `{"item":"Widget","quantity":3,"unitPrice":"8"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("sale status = %d body=%s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/api/stock/Widget", "")
	var level struct {
		Qty int `json:"qty"`
	}
	decode(t, rec, &level)
	if level.Qty != 1 {
		t.Errorf("stock = %d, want 1", level.Qty)
	}

	path := "/api/payables/" + receipt.Payable.ID + "/pay"
	if rec = do(t, h, http.MethodPost, path, ""); rec.Code != http.StatusOK {
		t.Fatalf("pay status = %d", rec.Code)
	}
	rec = do(t, h, http.MethodPost, path, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("repeat pay status = %d, want 409", rec.Code)
	}
	var paid errorBody
	decode(t, rec, &paid)
	if paid.Code != "ALREADY_PAID" {
		t.Errorf("code = %q, want ALREADY_PAID", paid.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/payables?status=Bogus", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad status filter = %d, want 400", rec.Code)
	}
}

func TestDeletePurchaseOrder(t *testing.T) {
	h := newTestServer(t)
	id := createOrder(t, h)

	if rec := do(t, h, http.MethodDelete, "/api/purchase-orders/"+id, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/purchase-orders/"+id, ""); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rec.Code)
	}
}

func TestReports(t *testing.T) {
	h := newTestServer(t)
	createOrder(t, h)

	tests := []struct {
		path string
		code int
	}{
		{"/api/reports/sales-mix", http.StatusOK},
		{"/api/reports/sales-mix?month=2025-13", http.StatusBadRequest},
		{"/api/reports/trend?months=12", http.StatusOK},
		{"/api/reports/trend?months=abc", http.StatusBadRequest},
		{"/api/reports/trend?months=0", http.StatusBadRequest},
		{"/api/reports/financial?month=2025-03", http.StatusOK},
		{"/api/reports/stock-health", http.StatusOK},
		{"/api/reports/delivery-schedule", http.StatusOK},
		{"/api/reports/pending-receipts?asOf=2025-03-31", http.StatusOK},
		{"/api/reports/pending-receipts?asOf=31/03/2025", http.StatusBadRequest},
		{"/api/reports/months", http.StatusOK},
		{"/api/schema", http.StatusOK},
		{"/api/memory", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.path, "")
			if rec.Code != tt.code {
				t.Errorf("status = %d, want %d body=%s", rec.Code, tt.code, rec.Body.String())
			}
		})
	}

	rec := do(t, h, http.MethodGet, "/api/reports/pending-receipts?asOf=2025-03-31", "")
	var schedule struct {
		Deliveries []struct {
			Remaining int `json:"remaining"`
		} `json:"deliveries"`
	}
	decode(t, rec, &schedule)
	if len(schedule.Deliveries) != 1 || schedule.Deliveries[0].Remaining != 10 {
		t.Errorf("pending = %+v", schedule.Deliveries)
	}
}

func TestExportCSV(t *testing.T) {
	h := newTestServer(t)
	createOrder(t, h)

	rec := do(t, h, http.MethodGet, "/api/purchase-orders/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "id,source,vendor,item") {
		t.Errorf("csv = %q", rec.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/purchase-orders", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow origin = %q", got)
	}
}
