package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"warehouse-ledger/internal/app"
	"warehouse-ledger/internal/core"
)

// apiStockLevels handles GET /api/stock.
func (h *Handler) apiStockLevels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.GetStockLevels(r.Context()))
}

// apiItemStock handles GET /api/stock/{item}.
func (h *Handler) apiItemStock(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.GetItemStock(r.Context(), chi.URLParam(r, "item")))
}

// apiListSales handles GET /api/sales.
func (h *Handler) apiListSales(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.ListSales(r.Context()))
}

// apiSalesHistory handles GET /api/sales/history/{item}.
func (h *Handler) apiSalesHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.SalesHistory(r.Context(), chi.URLParam(r, "item")))
}

// apiRecordSale handles POST /api/sales.
// Body: { date?, item, quantity, unitPrice }
func (h *Handler) apiRecordSale(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date      string `json:"date"`
		Item      string `json:"item"`
		Quantity  int    `json:"quantity"`
		UnitPrice string `json:"unitPrice"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	price, ok := parseMoney(w, r, "unitPrice", body.UnitPrice)
	if !ok {
		return
	}

	rec, err := h.svc.RecordSale(r.Context(), app.RecordSaleRequest{
		Date:      body.Date,
		Item:      body.Item,
		Quantity:  body.Quantity,
		UnitPrice: price,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, rec)
}

// apiListPayables handles GET /api/payables?status=Unpaid|Paid.
func (h *Handler) apiListPayables(w http.ResponseWriter, r *http.Request) {
	status := core.PayableStatus(r.URL.Query().Get("status"))
	result, err := h.svc.ListPayables(r.Context(), status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiOutstandingPayables handles GET /api/payables/outstanding.
func (h *Handler) apiOutstandingPayables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.OutstandingPayables(r.Context()))
}

// apiPayPayable handles POST /api/payables/{id}/pay.
func (h *Handler) apiPayPayable(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.PayPayable(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, entry)
}
