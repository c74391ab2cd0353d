package core

import "github.com/shopspring/decimal"

// dateLayout is the calendar-date format used throughout the ledger (YYYY-MM-DD).
const dateLayout = "2006-01-02"

// monthLayout is the month-key format used by the reports (YYYY-MM).
const monthLayout = "2006-01"

// POStatus is the stored order status, recomputed from quantities on every change.
type POStatus string

const (
	POStatusOpen   POStatus = "Open"
	POStatusClosed POStatus = "Closed"
)

// DisplayStatus is the status shown to users. It is derived, never stored.
type DisplayStatus string

const (
	DisplayOpen              DisplayStatus = "Open"
	DisplayPartiallyReceived DisplayStatus = "PartiallyReceived"
	DisplayClosed            DisplayStatus = "Closed"
)

// Source names the kind of upstream document a purchase order was raised from.
type Source string

const (
	SourceDirectEntry       Source = "DirectEntry"
	SourceProcurementPlan   Source = "ProcurementPlan"
	SourceOrderForm         Source = "OrderForm"
	SourceQuotationTransfer Source = "QuotationTransfer"
)

// DefaultSources returns the source document types every new ledger recognises.
func DefaultSources() []Source {
	return []Source{SourceDirectEntry, SourceProcurementPlan, SourceOrderForm, SourceQuotationTransfer}
}

// EmailStatus tracks whether the order was e-mailed to its vendor and read.
type EmailStatus string

const (
	EmailNotSent    EmailStatus = "NotSent"
	EmailSentUnread EmailStatus = "SentUnread"
	EmailRead       EmailStatus = "Read"
)

// PayableStatus is Unpaid until the entry is settled.
type PayableStatus string

const (
	PayableUnpaid PayableStatus = "Unpaid"
	PayablePaid   PayableStatus = "Paid"
)

// IsValid reports whether s is a known payable status.
func (s PayableStatus) IsValid() bool {
	return s == PayableUnpaid || s == PayablePaid
}

// PurchaseOrder is a commitment to buy a quantity of one item from one vendor.
// Status is Closed exactly when ReceivedQty >= OrderedQty.
type PurchaseOrder struct {
	ID                   string          `json:"id"`
	Source               Source          `json:"source"`
	Vendor               string          `json:"vendor"`
	Item                 string          `json:"item"`
	ManufactureDate      string          `json:"mfg_date"` // YYYY-MM-DD, optional
	OrderedQty           int             `json:"qty"`
	UnitPrice            decimal.Decimal `json:"price"`
	ExpectedDeliveryDate string          `json:"delivery_date"` // YYYY-MM-DD
	ReceivedQty          int             `json:"received_qty"`
	EmailStatus          EmailStatus     `json:"email_status"`
	Status               POStatus        `json:"status"`
}

// Total is the ordered value of the purchase order.
func (po PurchaseOrder) Total() decimal.Decimal {
	return po.UnitPrice.Mul(decimal.NewFromInt(int64(po.OrderedQty)))
}

// Remaining is the quantity still expected. It never goes below zero, even after an over-receipt.
func (po PurchaseOrder) Remaining() int {
	if po.ReceivedQty >= po.OrderedQty {
		return 0
	}
	return po.OrderedQty - po.ReceivedQty
}

func (po *PurchaseOrder) recomputeStatus() {
	if po.ReceivedQty >= po.OrderedQty {
		po.Status = POStatusClosed
		return
	}
	po.Status = POStatusOpen
}

// SalesRecord is an outbound sale. Records are append-only.
type SalesRecord struct {
	Date      string          `json:"date"` // YYYY-MM-DD
	Item      string          `json:"item"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
}

// PayableEntry is an amount owed to a vendor, created by one receipt event.
// OrderRef points back at the originating purchase order for traceability only.
type PayableEntry struct {
	ID          string          `json:"id"`
	OrderRef    string          `json:"po_ref"`
	Date        string          `json:"date"` // YYYY-MM-DD
	Vendor      string          `json:"vendor"`
	Description string          `json:"desc"`
	Amount      decimal.Decimal `json:"amt"`
	Status      PayableStatus   `json:"status"`
	PaymentDate string          `json:"pay_date,omitempty"`
}

// MemoryLists are the remembered vendor and item names offered as suggestions.
type MemoryLists struct {
	Vendors []string `json:"vendors"`
	Items   []string `json:"items"`
	Sources []Source `json:"sources"`
}
