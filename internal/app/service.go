package app

import (
	"context"
	"io"

	"github.com/invopop/jsonschema"

	"warehouse-ledger/internal/core"
)

// ApplicationService is the single interface all UI adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// Memory returns the remembered vendors, items and recognised source documents.
	Memory(ctx context.Context) core.MemoryLists

	// ListPurchaseOrders returns orders in creation order, optionally filtered by display status.
	ListPurchaseOrders(ctx context.Context, status core.DisplayStatus) (*OrderListResult, error)

	GetPurchaseOrder(ctx context.Context, id string) (*OrderResult, error)

	// CreatePurchaseOrder records a new Open order.
	CreatePurchaseOrder(ctx context.Context, req PurchaseOrderRequest) (*OrderResult, error)

	// EditPurchaseOrder replaces the editable fields of an Open order.
	EditPurchaseOrder(ctx context.Context, id string, req PurchaseOrderRequest) (*OrderResult, error)

	// DeletePurchaseOrder removes an Open order with nothing received.
	DeletePurchaseOrder(ctx context.Context, id string) error

	// ReceiveGoods books a receipt against an order and raises the matching payable.
	// When the quantity exceeds what remains and AllowOverage is false, the returned
	// error is a *core.OverageError and nothing changes.
	ReceiveGoods(ctx context.Context, req ReceiveGoodsRequest) (*ReceiptResult, error)

	// SendOrderEmail marks the order as e-mailed to its vendor.
	SendOrderEmail(ctx context.Context, id string) (*OrderResult, error)

	// MarkOrderEmailRead records the vendor's read receipt.
	MarkOrderEmailRead(ctx context.Context, id string) (*OrderResult, error)

	// ExportPurchaseOrders writes every order as CSV.
	ExportPurchaseOrders(ctx context.Context, w io.Writer) error

	// GetStockLevels returns every stocked item with quantity, value and classification.
	GetStockLevels(ctx context.Context) *StockResult

	// GetItemStock returns one item's stock; unknown items report zero.
	GetItemStock(ctx context.Context, item string) core.StockLevel

	// RecordSale sells from stock.
	RecordSale(ctx context.Context, req RecordSaleRequest) (*core.SalesRecord, error)

	ListSales(ctx context.Context) *SalesResult

	// SalesHistory returns one item's sales sorted by date.
	SalesHistory(ctx context.Context, item string) *SalesResult

	// ListPayables returns payables filtered by status; empty returns all.
	ListPayables(ctx context.Context, status core.PayableStatus) (*PayablesResult, error)

	// OutstandingPayables sums unpaid amounts per vendor.
	OutstandingPayables(ctx context.Context) *OutstandingResult

	// PayPayable settles an Unpaid payable.
	PayPayable(ctx context.Context, id string) (*core.PayableEntry, error)

	// SalesMix sums sold quantity per item for month (YYYY-MM, empty means the current month).
	SalesMix(ctx context.Context, month string) (*SalesMixResult, error)

	// Trend returns inbound and outbound quantity for the last months months, oldest first.
	Trend(ctx context.Context, months int) (*TrendResult, error)

	// FinancialSummary compares revenue with payable cost for month (empty means the current month).
	FinancialSummary(ctx context.Context, month string) (*core.FinancialSummary, error)

	StockHealth(ctx context.Context) *StockHealthResult

	// DeliverySchedule lists Open orders by expected delivery date.
	DeliverySchedule(ctx context.Context) *ScheduleResult

	// PendingReceipts lists Open orders due on or before asOf (empty means today).
	PendingReceipts(ctx context.Context, asOf string) (*ScheduleResult, error)

	// RecentMonths returns the n most recent month keys, oldest first.
	RecentMonths(ctx context.Context, n int) []string

	// DocumentSchema describes the persisted ledger document.
	DocumentSchema() *jsonschema.Schema

	// Flush saves the current ledger.
	Flush(ctx context.Context) error
}
