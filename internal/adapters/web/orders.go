package web

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"warehouse-ledger/internal/app"
	"warehouse-ledger/internal/core"
)

// purchaseOrderBody is the JSON body for creating or editing a purchase order.
// Money travels as a decimal string.
type purchaseOrderBody struct {
	Source               string `json:"source"`
	Vendor               string `json:"vendor"`
	Item                 string `json:"item"`
	ManufactureDate      string `json:"manufactureDate"`
	Quantity             int    `json:"quantity"`
	UnitPrice            string `json:"unitPrice"`
	ExpectedDeliveryDate string `json:"expectedDeliveryDate"`
}

func (h *Handler) decodePurchaseOrder(w http.ResponseWriter, r *http.Request) (app.PurchaseOrderRequest, bool) {
	var body purchaseOrderBody
	if !decodeJSON(w, r, &body) {
		return app.PurchaseOrderRequest{}, false
	}
	price, ok := parseMoney(w, r, "unitPrice", body.UnitPrice)
	if !ok {
		return app.PurchaseOrderRequest{}, false
	}
	return app.PurchaseOrderRequest{
		Source:               core.Source(body.Source),
		Vendor:               body.Vendor,
		Item:                 body.Item,
		ManufactureDate:      body.ManufactureDate,
		Quantity:             body.Quantity,
		UnitPrice:            price,
		ExpectedDeliveryDate: body.ExpectedDeliveryDate,
	}, true
}

// apiListPurchaseOrders handles GET /api/purchase-orders?status=.
func (h *Handler) apiListPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	status := core.DisplayStatus(r.URL.Query().Get("status"))
	result, err := h.svc.ListPurchaseOrders(r.Context(), status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiCreatePurchaseOrder handles POST /api/purchase-orders.
func (h *Handler) apiCreatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodePurchaseOrder(w, r)
	if !ok {
		return
	}
	result, err := h.svc.CreatePurchaseOrder(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

// apiGetPurchaseOrder handles GET /api/purchase-orders/{id}.
func (h *Handler) apiGetPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetPurchaseOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiEditPurchaseOrder handles PUT /api/purchase-orders/{id}.
func (h *Handler) apiEditPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodePurchaseOrder(w, r)
	if !ok {
		return
	}
	result, err := h.svc.EditPurchaseOrder(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiDeletePurchaseOrder handles DELETE /api/purchase-orders/{id}.
func (h *Handler) apiDeletePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePurchaseOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// apiReceiveGoods handles POST /api/purchase-orders/{id}/receipts.
// Body: { quantity, invoiceAmount, allowOverage? }
func (h *Handler) apiReceiveGoods(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Quantity      int    `json:"quantity"`
		InvoiceAmount string `json:"invoiceAmount"`
		AllowOverage  bool   `json:"allowOverage"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	amount, ok := parseMoney(w, r, "invoiceAmount", body.InvoiceAmount)
	if !ok {
		return
	}

	result, err := h.svc.ReceiveGoods(r.Context(), app.ReceiveGoodsRequest{
		OrderID:       chi.URLParam(r, "id"),
		Quantity:      body.Quantity,
		InvoiceAmount: amount,
		AllowOverage:  body.AllowOverage,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

// apiSendOrderEmail handles POST /api/purchase-orders/{id}/email.
func (h *Handler) apiSendOrderEmail(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.SendOrderEmail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiMarkOrderEmailRead handles POST /api/purchase-orders/{id}/email/read.
func (h *Handler) apiMarkOrderEmailRead(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.MarkOrderEmailRead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiExportPurchaseOrders handles GET /api/purchase-orders/export.
func (h *Handler) apiExportPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.svc.ExportPurchaseOrders(r.Context(), &buf); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="purchase_orders.csv"`)
	_, _ = w.Write(buf.Bytes())
}
