package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"warehouse-ledger/internal/app"
	"warehouse-ledger/internal/core"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	logger *zap.Logger
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins []string, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{svc: svc, logger: logger}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recoverer(logger))
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	r.Get("/api/health", h.health)
	r.Get("/api/schema", h.apiSchema)
	r.Get("/api/memory", h.apiMemory)

	// ── Purchase orders ───────────────────────────────────────────────────────
	r.Get("/api/purchase-orders", h.apiListPurchaseOrders)
	r.Post("/api/purchase-orders", h.apiCreatePurchaseOrder)
	r.Get("/api/purchase-orders/export", h.apiExportPurchaseOrders)
	r.Get("/api/purchase-orders/{id}", h.apiGetPurchaseOrder)
	r.Put("/api/purchase-orders/{id}", h.apiEditPurchaseOrder)
	r.Delete("/api/purchase-orders/{id}", h.apiDeletePurchaseOrder)
	r.Post("/api/purchase-orders/{id}/receipts", h.apiReceiveGoods)
	r.Post("/api/purchase-orders/{id}/email", h.apiSendOrderEmail)
	r.Post("/api/purchase-orders/{id}/email/read", h.apiMarkOrderEmailRead)

	// ── Inventory and sales ───────────────────────────────────────────────────
	r.Get("/api/stock", h.apiStockLevels)
	r.Get("/api/stock/{item}", h.apiItemStock)
	r.Get("/api/sales", h.apiListSales)
	r.Post("/api/sales", h.apiRecordSale)
	r.Get("/api/sales/history/{item}", h.apiSalesHistory)

	// ── Payables ──────────────────────────────────────────────────────────────
	r.Get("/api/payables", h.apiListPayables)
	r.Get("/api/payables/outstanding", h.apiOutstandingPayables)
	r.Post("/api/payables/{id}/pay", h.apiPayPayable)

	// ── Reports ───────────────────────────────────────────────────────────────
	r.Get("/api/reports/sales-mix", h.apiSalesMix)
	r.Get("/api/reports/trend", h.apiTrend)
	r.Get("/api/reports/financial", h.apiFinancialSummary)
	r.Get("/api/reports/stock-health", h.apiStockHealth)
	r.Get("/api/reports/delivery-schedule", h.apiDeliverySchedule)
	r.Get("/api/reports/pending-receipts", h.apiPendingReceipts)
	r.Get("/api/reports/months", h.apiRecentMonths)

	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// apiSchema handles GET /api/schema.
func (h *Handler) apiSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.DocumentSchema())
}

// apiMemory handles GET /api/memory.
func (h *Handler) apiMemory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Memory(r.Context()))
}

// fail writes err as a JSON error, logging failures that are not the caller's fault.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if !isDomainError(err) {
		h.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.Error(err))
	}
	writeServiceError(w, r, err)
}

func isDomainError(err error) bool {
	for _, kind := range []error{
		core.ErrValidation, core.ErrConflict, core.ErrLocked, core.ErrInsufficientStock,
		core.ErrNotFound, core.ErrAlreadyPaid, core.ErrOverage,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

// parseMoney parses a decimal amount sent as a string. Empty means zero.
func parseMoney(w http.ResponseWriter, r *http.Request, field, value string) (decimal.Decimal, bool) {
	if value == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		writeError(w, r, "invalid "+field+": "+value, "VALIDATION_ERROR", http.StatusBadRequest)
		return decimal.Zero, false
	}
	return d, true
}

// queryInt reads an integer query parameter, falling back to def when absent.
func queryInt(w http.ResponseWriter, r *http.Request, key string, def int) (int, bool) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		writeError(w, r, "invalid "+key+": "+v, "VALIDATION_ERROR", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}
