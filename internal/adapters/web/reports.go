package web

import "net/http"

// apiSalesMix handles GET /api/reports/sales-mix?month=YYYY-MM.
func (h *Handler) apiSalesMix(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.SalesMix(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiTrend handles GET /api/reports/trend?months=6.
func (h *Handler) apiTrend(w http.ResponseWriter, r *http.Request) {
	months, ok := queryInt(w, r, "months", 6)
	if !ok {
		return
	}
	result, err := h.svc.Trend(r.Context(), months)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiFinancialSummary handles GET /api/reports/financial?month=YYYY-MM.
func (h *Handler) apiFinancialSummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.FinancialSummary(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiStockHealth handles GET /api/reports/stock-health.
func (h *Handler) apiStockHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.StockHealth(r.Context()))
}

// apiDeliverySchedule handles GET /api/reports/delivery-schedule.
func (h *Handler) apiDeliverySchedule(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.DeliverySchedule(r.Context()))
}

// apiPendingReceipts handles GET /api/reports/pending-receipts?asOf=YYYY-MM-DD.
func (h *Handler) apiPendingReceipts(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.PendingReceipts(r.Context(), r.URL.Query().Get("asOf"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiRecentMonths handles GET /api/reports/months?n=12, the month picker list.
func (h *Handler) apiRecentMonths(w http.ResponseWriter, r *http.Request) {
	n, ok := queryInt(w, r, "n", 12)
	if !ok {
		return
	}
	type response struct {
		Months []string `json:"months"`
	}
	writeJSON(w, response{Months: h.svc.RecentMonths(r.Context(), n)})
}
