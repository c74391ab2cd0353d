package core

import (
	"context"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// SaleInput describes one outbound sale. Date is YYYY-MM-DD; empty means today.
type SaleInput struct {
	Date      string
	Item      string
	Qty       int
	UnitPrice decimal.Decimal
}

// SalesService records outbound sales against on-hand stock.
type SalesService interface {
	// RecordSale decrements stock and appends a sales record, or fails with
	// *InsufficientStockError leaving the ledger unchanged.
	RecordSale(ctx context.Context, in SaleInput) (*SalesRecord, error)

	// List returns all sales in the order they were recorded.
	List() []SalesRecord

	// ItemHistory returns the sales of one item sorted by date.
	ItemHistory(item string) []SalesRecord
}

type salesService struct {
	store *Store
}

func NewSalesService(store *Store) SalesService {
	return &salesService{store: store}
}

func (s *salesService) RecordSale(ctx context.Context, in SaleInput) (*SalesRecord, error) {
	in.Item = strings.TrimSpace(in.Item)
	in.Date = strings.TrimSpace(in.Date)
	switch {
	case in.Item == "":
		return nil, validationf("item is required")
	case in.Qty <= 0:
		return nil, validationf("sale quantity must be positive, got %d", in.Qty)
	case in.UnitPrice.IsNegative():
		return nil, validationf("unit price cannot be negative, got %s", in.UnitPrice)
	}
	if in.Date == "" {
		in.Date = s.store.today()
	}
	if err := parseDate("sale date", in.Date); err != nil {
		return nil, err
	}

	var rec SalesRecord
	err := s.store.mutate(ctx, "sale.record", func(doc *Document) error {
		if err := applySale(doc, in.Item, in.Qty); err != nil {
			return err
		}
		rec = SalesRecord{
			Date:      in.Date,
			Item:      in.Item,
			Qty:       in.Qty,
			UnitPrice: in.UnitPrice,
			Total:     in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Qty))),
		}
		doc.Sales = append(doc.Sales, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *salesService) List() []SalesRecord {
	var sales []SalesRecord
	s.store.view(func(doc *Document) {
		sales = slices.Clone(doc.Sales)
	})
	return sales
}

func (s *salesService) ItemHistory(item string) []SalesRecord {
	history := []SalesRecord{}
	s.store.view(func(doc *Document) {
		for _, rec := range doc.Sales {
			if rec.Item == item {
				history = append(history, rec)
			}
		}
	})
	slices.SortStableFunc(history, func(a, b SalesRecord) int {
		return strings.Compare(a.Date, b.Date)
	})
	return history
}
