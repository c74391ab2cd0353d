package core

import (
	"slices"

	"github.com/shopspring/decimal"
)

type inventoryService struct {
	store      *Store
	thresholds StockThresholds
}

// NewInventoryService constructs an InventoryService classifying stock with the given thresholds.
func NewInventoryService(store *Store, thresholds StockThresholds) InventoryService {
	return &inventoryService{store: store, thresholds: thresholds}
}

func (s *inventoryService) CurrentStock(item string) int {
	var qty int
	s.store.view(func(doc *Document) {
		qty = doc.Stock[item]
	})
	return qty
}

func (s *inventoryService) LatestPurchasePrice(item string) decimal.Decimal {
	var price decimal.Decimal
	s.store.view(func(doc *Document) {
		price = latestPurchasePrice(doc, item)
	})
	return price
}

func (s *inventoryService) Valuation(item string) decimal.Decimal {
	var v decimal.Decimal
	s.store.view(func(doc *Document) {
		v = latestPurchasePrice(doc, item).Mul(decimal.NewFromInt(int64(doc.Stock[item])))
	})
	return v
}

func (s *inventoryService) Classify(item string) StockClass {
	return s.thresholds.Classify(s.CurrentStock(item))
}

func (s *inventoryService) Level(item string) StockLevel {
	var level StockLevel
	s.store.view(func(doc *Document) {
		level = stockLevel(doc, item, s.thresholds)
	})
	return level
}

func (s *inventoryService) StockLevels() []StockLevel {
	var levels []StockLevel
	s.store.view(func(doc *Document) {
		levels = stockLevels(doc, s.thresholds)
	})
	return levels
}

func stockLevels(doc *Document, thresholds StockThresholds) []StockLevel {
	items := make([]string, 0, len(doc.Stock))
	for item := range doc.Stock {
		items = append(items, item)
	}
	slices.Sort(items)

	levels := make([]StockLevel, 0, len(items))
	for _, item := range items {
		levels = append(levels, stockLevel(doc, item, thresholds))
	}
	return levels
}

func stockLevel(doc *Document, item string, thresholds StockThresholds) StockLevel {
	qty := doc.Stock[item]
	price := latestPurchasePrice(doc, item)
	return StockLevel{
		Item:        item,
		Qty:         qty,
		LatestPrice: price,
		Valuation:   price.Mul(decimal.NewFromInt(int64(qty))),
		Class:       thresholds.Classify(qty),
	}
}

// latestPurchasePrice scans orders newest-created first. Orders are kept in creation order.
func latestPurchasePrice(doc *Document, item string) decimal.Decimal {
	for i := len(doc.PurchaseOrders) - 1; i >= 0; i-- {
		if doc.PurchaseOrders[i].Item == item {
			return doc.PurchaseOrders[i].UnitPrice
		}
	}
	return decimal.Zero
}
