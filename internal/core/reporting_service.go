package core

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TrendPoint is the inbound and outbound quantity of one month.
type TrendPoint struct {
	Month       string `json:"month"`
	ReceivedQty int    `json:"receivedQty"`
	SoldQty     int    `json:"soldQty"`
}

// FinancialSummary compares a month's sales revenue with the cost booked to payables.
type FinancialSummary struct {
	Month        string          `json:"month"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	GrossMargin  decimal.Decimal `json:"grossMargin"`
}

// StockAction is the suggested response to an item's stock class.
type StockAction string

const (
	ActionNone    StockAction = "none"
	ActionReorder StockAction = "reorder"
	ActionPromote StockAction = "promote"
)

type StockHealth struct {
	Item   string      `json:"item"`
	Qty    int         `json:"qty"`
	Class  StockClass  `json:"class"`
	Action StockAction `json:"action"`
}

// ScheduledDelivery is an Open order's outstanding quantity on its expected delivery date.
type ScheduledDelivery struct {
	OrderID      string `json:"orderId"`
	DeliveryDate string `json:"deliveryDate"`
	Vendor       string `json:"vendor"`
	Item         string `json:"item"`
	Remaining    int    `json:"remaining"`
}

// ReportingService computes read-only aggregates over the ledger.
type ReportingService interface {
	// SalesMixByMonth sums sold quantity per item for sales dated in month (YYYY-MM).
	SalesMixByMonth(month string) (map[string]int, error)

	// TrendSeries returns, per month key, the received quantity of orders expected that month
	// and the quantity sold that month.
	TrendSeries(months []string) ([]TrendPoint, error)

	// FinancialSummary sums payables dated in month as cost, paid or not, against sales revenue.
	FinancialSummary(month string) (*FinancialSummary, error)

	// StockHealthReport classifies every stocked item and suggests an action.
	StockHealthReport() []StockHealth

	// DeliverySchedule lists Open orders by expected delivery date.
	DeliverySchedule() []ScheduledDelivery

	// PendingReceipts lists Open orders expected on or before asOf (YYYY-MM-DD).
	PendingReceipts(asOf string) ([]ScheduledDelivery, error)
}

type reportingService struct {
	store      *Store
	thresholds StockThresholds
}

func NewReportingService(store *Store, thresholds StockThresholds) ReportingService {
	return &reportingService{store: store, thresholds: thresholds}
}

func (s *reportingService) SalesMixByMonth(month string) (map[string]int, error) {
	if err := parseMonth(month); err != nil {
		return nil, err
	}
	mix := map[string]int{}
	s.store.view(func(doc *Document) {
		for _, rec := range doc.Sales {
			if inMonth(rec.Date, month) {
				mix[rec.Item] += rec.Qty
			}
		}
	})
	return mix, nil
}

func (s *reportingService) TrendSeries(months []string) ([]TrendPoint, error) {
	for _, m := range months {
		if err := parseMonth(m); err != nil {
			return nil, err
		}
	}
	points := make([]TrendPoint, len(months))
	s.store.view(func(doc *Document) {
		for i, m := range months {
			points[i].Month = m
			for _, po := range doc.PurchaseOrders {
				if inMonth(po.ExpectedDeliveryDate, m) {
					points[i].ReceivedQty += po.ReceivedQty
				}
			}
			for _, rec := range doc.Sales {
				if inMonth(rec.Date, m) {
					points[i].SoldQty += rec.Qty
				}
			}
		}
	})
	return points, nil
}

func (s *reportingService) FinancialSummary(month string) (*FinancialSummary, error) {
	if err := parseMonth(month); err != nil {
		return nil, err
	}
	sum := &FinancialSummary{Month: month}
	s.store.view(func(doc *Document) {
		for _, entry := range doc.Payables {
			if inMonth(entry.Date, month) {
				sum.TotalCost = sum.TotalCost.Add(entry.Amount)
			}
		}
		for _, rec := range doc.Sales {
			if inMonth(rec.Date, month) {
				sum.TotalRevenue = sum.TotalRevenue.Add(rec.Total)
			}
		}
	})
	sum.GrossMargin = sum.TotalRevenue.Sub(sum.TotalCost)
	return sum, nil
}

func (s *reportingService) StockHealthReport() []StockHealth {
	report := []StockHealth{}
	s.store.view(func(doc *Document) {
		for _, level := range stockLevels(doc, s.thresholds) {
			report = append(report, StockHealth{
				Item:   level.Item,
				Qty:    level.Qty,
				Class:  level.Class,
				Action: actionFor(level.Class),
			})
		}
	})
	return report
}

func actionFor(class StockClass) StockAction {
	switch class {
	case StockLow:
		return ActionReorder
	case StockOver:
		return ActionPromote
	default:
		return ActionNone
	}
}

func (s *reportingService) DeliverySchedule() []ScheduledDelivery {
	var out []ScheduledDelivery
	s.store.view(func(doc *Document) {
		out = openDeliveries(doc, "")
	})
	return out
}

func (s *reportingService) PendingReceipts(asOf string) ([]ScheduledDelivery, error) {
	if err := parseDate("as-of date", asOf); err != nil {
		return nil, err
	}
	var out []ScheduledDelivery
	s.store.view(func(doc *Document) {
		out = openDeliveries(doc, asOf)
	})
	return out, nil
}

// openDeliveries returns Open orders sorted by delivery date, keeping creation order on ties.
// A non-empty until drops orders expected after it.
func openDeliveries(doc *Document, until string) []ScheduledDelivery {
	out := []ScheduledDelivery{}
	for _, po := range doc.PurchaseOrders {
		if po.Status != POStatusOpen {
			continue
		}
		if until != "" && po.ExpectedDeliveryDate > until {
			continue
		}
		out = append(out, ScheduledDelivery{
			OrderID:      po.ID,
			DeliveryDate: po.ExpectedDeliveryDate,
			Vendor:       po.Vendor,
			Item:         po.Item,
			Remaining:    po.Remaining(),
		})
	}
	slices.SortStableFunc(out, func(a, b ScheduledDelivery) int {
		return strings.Compare(a.DeliveryDate, b.DeliveryDate)
	})
	return out
}

// RecentMonthKeys returns n month keys ending with the month of today, oldest first.
func RecentMonthKeys(today time.Time, n int) []string {
	if n <= 0 {
		return nil
	}
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[n-1-i] = first.AddDate(0, -i, 0).Format(monthLayout)
	}
	return keys
}

// inMonth reports whether a YYYY-MM-DD date falls in a YYYY-MM month.
func inMonth(date, month string) bool {
	return strings.HasPrefix(date, month+"-")
}
