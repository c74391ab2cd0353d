package app

import (
	"github.com/shopspring/decimal"

	"warehouse-ledger/internal/core"
)

// OrderView is a purchase order with its derived display fields.
type OrderView struct {
	core.PurchaseOrder
	DisplayStatus core.DisplayStatus `json:"displayStatus"`
	DisplayLabel  string             `json:"displayLabel"`
	Total         decimal.Decimal    `json:"total"`
	Remaining     int                `json:"remaining"`
}

func newOrderView(po core.PurchaseOrder) OrderView {
	return OrderView{
		PurchaseOrder: po,
		DisplayStatus: core.DerivedDisplayStatus(po),
		DisplayLabel:  core.DisplayLabel(po),
		Total:         po.Total(),
		Remaining:     po.Remaining(),
	}
}

// OrderResult is returned by purchase order lifecycle operations.
type OrderResult struct {
	Order OrderView `json:"order"`
}

// OrderListResult is returned by ListPurchaseOrders.
type OrderListResult struct {
	Orders []OrderView `json:"orders"`
}

// ReceiptResult is returned by ReceiveGoods.
type ReceiptResult struct {
	Order   OrderView         `json:"order"`
	Payable core.PayableEntry `json:"payable"`
	Overage bool              `json:"overage"`
}

// StockResult is returned by GetStockLevels.
type StockResult struct {
	Levels     []core.StockLevel `json:"levels"`
	TotalValue decimal.Decimal   `json:"totalValue"`
}

type SalesResult struct {
	Sales []core.SalesRecord `json:"sales"`
}

type PayablesResult struct {
	Payables []core.PayableEntry `json:"payables"`
	Total    decimal.Decimal     `json:"total"`
}

type OutstandingResult struct {
	Vendors []core.VendorBalance `json:"vendors"`
	Total   decimal.Decimal      `json:"total"`
}

type SalesMixResult struct {
	Month string         `json:"month"`
	Items map[string]int `json:"items"`
}

type TrendResult struct {
	Points []core.TrendPoint `json:"points"`
}

type StockHealthResult struct {
	Items []core.StockHealth `json:"items"`
}

type ScheduleResult struct {
	Deliveries []core.ScheduledDelivery `json:"deliveries"`
}
