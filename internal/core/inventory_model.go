package core

import "github.com/shopspring/decimal"

// StockClass classifies an item's on-hand quantity against the configured thresholds.
type StockClass string

const (
	StockNormal StockClass = "Normal"
	StockLow    StockClass = "LowStock"
	StockOver   StockClass = "OverStock"
)

// StockThresholds bound the Normal band: below Low is LowStock, above Over is OverStock.
type StockThresholds struct {
	Low  int
	Over int
}

// DefaultThresholds returns the thresholds used when none are configured.
func DefaultThresholds() StockThresholds {
	return StockThresholds{Low: 5, Over: 100}
}

// Validate rejects negative or inverted thresholds.
func (t StockThresholds) Validate() error {
	if t.Low < 0 || t.Over < 0 {
		return validationf("stock thresholds must not be negative (low %d, over %d)", t.Low, t.Over)
	}
	if t.Low > t.Over {
		return validationf("low stock threshold %d exceeds over stock threshold %d", t.Low, t.Over)
	}
	return nil
}

// Classify places qty into its stock class.
func (t StockThresholds) Classify(qty int) StockClass {
	switch {
	case qty < t.Low:
		return StockLow
	case qty > t.Over:
		return StockOver
	default:
		return StockNormal
	}
}

// StockLevel is a read view of one item's stock and value.
type StockLevel struct {
	Item        string          `json:"item"`
	Qty         int             `json:"qty"`
	LatestPrice decimal.Decimal `json:"latestPrice"`
	Valuation   decimal.Decimal `json:"valuation"`
	Class       StockClass      `json:"class"`
}

// InventoryService answers stock questions. Values are computed from the current ledger on every call.
type InventoryService interface {
	// CurrentStock returns the on-hand quantity, 0 for unknown items.
	CurrentStock(item string) int

	// LatestPurchasePrice is the unit price of the most recently created order for item, 0 if none.
	LatestPurchasePrice(item string) decimal.Decimal

	// Valuation is CurrentStock × LatestPurchasePrice.
	Valuation(item string) decimal.Decimal

	Classify(item string) StockClass

	// Level returns one item's stock view; unknown items report zero.
	Level(item string) StockLevel

	// StockLevels lists every stocked item, sorted by name.
	StockLevels() []StockLevel
}

// applyReceipt adds received goods to the stock of item.
func applyReceipt(doc *Document, item string, qty int) error {
	if qty <= 0 {
		return validationf("receipt quantity must be positive, got %d", qty)
	}
	doc.Stock[item] += qty
	return nil
}

// applySale removes sold goods from stock. Selling more than is on hand is rejected.
func applySale(doc *Document, item string, qty int) error {
	if qty <= 0 {
		return validationf("sale quantity must be positive, got %d", qty)
	}
	onHand := doc.Stock[item]
	if qty > onHand {
		return &InsufficientStockError{Item: item, Requested: qty, Available: onHand}
	}
	doc.Stock[item] = onHand - qty
	return nil
}
