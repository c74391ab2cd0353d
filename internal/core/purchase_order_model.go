package core

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// OrderInput holds the caller-editable fields of a purchase order.
type OrderInput struct {
	Source               Source // empty means DirectEntry
	Vendor               string
	Item                 string
	ManufactureDate      string // YYYY-MM-DD, optional
	OrderedQty           int
	UnitPrice            decimal.Decimal
	ExpectedDeliveryDate string // YYYY-MM-DD
}

// ReceiptInput records goods arriving against a purchase order.
type ReceiptInput struct {
	OrderID       string
	Qty           int
	InvoiceAmount decimal.Decimal
	// AllowOverage confirms a receipt larger than the remaining quantity.
	AllowOverage bool
}

// ReceiptResult is the outcome of a committed receipt.
type ReceiptResult struct {
	Order   PurchaseOrder
	Payable PayableEntry
	Overage bool
}

// PurchaseOrderService provides purchase order lifecycle operations.
type PurchaseOrderService interface {
	// Create records a new Open purchase order with nothing received.
	Create(ctx context.Context, in OrderInput) (*PurchaseOrder, error)

	// Edit replaces the editable fields of an Open order. Closed orders are locked.
	// The id, received quantity and email status are preserved.
	Edit(ctx context.Context, id string, in OrderInput) (*PurchaseOrder, error)

	// Delete removes an order that is Open and has nothing received.
	Delete(ctx context.Context, id string) error

	// Receive books a receipt: increases the received quantity, adds stock and appends one
	// Unpaid payable, all or nothing. A receipt beyond the remaining quantity returns an
	// *OverageError unless AllowOverage is set.
	Receive(ctx context.Context, in ReceiptInput) (*ReceiptResult, error)

	// SendEmail marks the order as e-mailed to the vendor.
	SendEmail(ctx context.Context, id string) (*PurchaseOrder, error)

	// MarkEmailRead records that the vendor has read the order e-mail.
	MarkEmailRead(ctx context.Context, id string) (*PurchaseOrder, error)

	Get(id string) (*PurchaseOrder, error)

	// List returns all orders in creation order.
	List() []PurchaseOrder
}

// DerivedDisplayStatus is the single source of truth for the status shown to users.
func DerivedDisplayStatus(po PurchaseOrder) DisplayStatus {
	switch {
	case po.Status == POStatusClosed:
		return DisplayClosed
	case po.ReceivedQty > 0:
		return DisplayPartiallyReceived
	default:
		return DisplayOpen
	}
}

// DisplayLabel renders the display status, with progress for partially received orders.
func DisplayLabel(po PurchaseOrder) string {
	status := DerivedDisplayStatus(po)
	if status == DisplayPartiallyReceived {
		return fmt.Sprintf("%s (%d/%d)", status, po.ReceivedQty, po.OrderedQty)
	}
	return string(status)
}
