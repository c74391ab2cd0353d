package app

import (
	"github.com/shopspring/decimal"

	"warehouse-ledger/internal/core"
)

// PurchaseOrderRequest is the input for creating or editing a purchase order.
type PurchaseOrderRequest struct {
	Source               core.Source
	Vendor               string
	Item                 string
	ManufactureDate      string // YYYY-MM-DD, optional
	Quantity             int
	UnitPrice            decimal.Decimal
	ExpectedDeliveryDate string // YYYY-MM-DD
}

func (r PurchaseOrderRequest) toInput() core.OrderInput {
	return core.OrderInput{
		Source:               r.Source,
		Vendor:               r.Vendor,
		Item:                 r.Item,
		ManufactureDate:      r.ManufactureDate,
		OrderedQty:           r.Quantity,
		UnitPrice:            r.UnitPrice,
		ExpectedDeliveryDate: r.ExpectedDeliveryDate,
	}
}

// ReceiveGoodsRequest is the input for recording goods arriving against an order.
type ReceiveGoodsRequest struct {
	OrderID       string
	Quantity      int
	InvoiceAmount decimal.Decimal
	AllowOverage  bool
}

// RecordSaleRequest is the input for an outbound sale. Empty Date means today.
type RecordSaleRequest struct {
	Date      string
	Item      string
	Quantity  int
	UnitPrice decimal.Decimal
}
