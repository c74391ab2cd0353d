package core

import (
	"fmt"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// Document is the single durable structure holding the whole ledger.
// Field names match the layout of documents written by earlier versions of the tool.
type Document struct {
	PurchaseOrders []PurchaseOrder `json:"po_db"`
	Stock          map[string]int  `json:"stock_db"`
	Sales          []SalesRecord   `json:"sales_db"`
	Payables       []PayableEntry  `json:"ap_db"`
	MemoryItems    []string        `json:"memory_items"`
	MemoryVendors  []string        `json:"memory_vendors"`
	SourceTypes    []Source        `json:"source_types"`
}

// DefaultDocument is the ledger a fresh installation starts with.
func DefaultDocument() *Document {
	return &Document{
		PurchaseOrders: []PurchaseOrder{},
		Stock:          map[string]int{"CPU-i9": 5, "RAM-16G": 50},
		Sales:          []SalesRecord{},
		Payables:       []PayableEntry{},
		MemoryItems:    []string{"CPU-i9", "RAM-16G", "SSD-1TB", "Office-Suite"},
		MemoryVendors:  []string{"Guanghua Tech", "Coolpc", "Microsoft Reseller"},
		SourceTypes:    DefaultSources(),
	}
}

// Labels found in older ledger files, mapped onto the current enums.
var (
	legacySources = map[string]Source{
		"直接輸入":   SourceDirectEntry,
		"採購計畫拋轉": SourceProcurementPlan,
		"訂貨單拋轉":  SourceOrderForm,
		"詢價單轉入":  SourceQuotationTransfer,
	}
	legacyEmailStatuses = map[string]EmailStatus{
		"未傳送":        EmailNotSent,
		"已傳送 (廠商未讀)": EmailSentUnread,
		"✅ 廠商已讀":     EmailRead,
	}
)

// Normalize backfills fields missing from older documents. today (YYYY-MM-DD) is used for a
// missing delivery date. Order status is recomputed from quantities and a missing sale
// total is derived from quantity and price.
func (d *Document) Normalize(today string) {
	if d.PurchaseOrders == nil {
		d.PurchaseOrders = []PurchaseOrder{}
	}
	if d.Stock == nil {
		d.Stock = map[string]int{}
	}
	if d.Sales == nil {
		d.Sales = []SalesRecord{}
	}
	if d.Payables == nil {
		d.Payables = []PayableEntry{}
	}
	if d.MemoryItems == nil {
		d.MemoryItems = []string{}
	}
	if d.MemoryVendors == nil {
		d.MemoryVendors = []string{}
	}
	for i, src := range d.SourceTypes {
		if mapped, ok := legacySources[string(src)]; ok {
			d.SourceTypes[i] = mapped
		}
	}
	if len(d.SourceTypes) == 0 {
		d.SourceTypes = DefaultSources()
	}
	if !slices.Contains(d.SourceTypes, SourceDirectEntry) {
		d.SourceTypes = append([]Source{SourceDirectEntry}, d.SourceTypes...)
	}
	d.SourceTypes = dedupe(d.SourceTypes)

	for i := range d.PurchaseOrders {
		po := &d.PurchaseOrders[i]
		if po.ReceivedQty < 0 {
			po.ReceivedQty = 0
		}
		if po.ExpectedDeliveryDate == "" {
			po.ExpectedDeliveryDate = today
		}
		if mapped, ok := legacyEmailStatuses[string(po.EmailStatus)]; ok {
			po.EmailStatus = mapped
		}
		if po.EmailStatus == "" {
			po.EmailStatus = EmailNotSent
		}
		if mapped, ok := legacySources[string(po.Source)]; ok {
			po.Source = mapped
		}
		if po.Source == "" {
			po.Source = SourceDirectEntry
		}
		po.recomputeStatus()
	}
	for i := range d.Sales {
		rec := &d.Sales[i]
		if rec.Total.IsZero() {
			rec.Total = rec.UnitPrice.Mul(decimal.NewFromInt(int64(rec.Qty)))
		}
	}
	for i := range d.Payables {
		if !d.Payables[i].Status.IsValid() {
			d.Payables[i].Status = PayableUnpaid
		}
	}
	for item, qty := range d.Stock {
		if qty < 0 {
			d.Stock[item] = 0
		}
	}
}

// Clone returns a deep copy. The store mutates clones and swaps them in only after they persist.
func (d *Document) Clone() *Document {
	return &Document{
		PurchaseOrders: slices.Clone(d.PurchaseOrders),
		Stock:          maps.Clone(d.Stock),
		Sales:          slices.Clone(d.Sales),
		Payables:       slices.Clone(d.Payables),
		MemoryItems:    slices.Clone(d.MemoryItems),
		MemoryVendors:  slices.Clone(d.MemoryVendors),
		SourceTypes:    slices.Clone(d.SourceTypes),
	}
}

func (d *Document) orderIndex(id string) (int, error) {
	for i := range d.PurchaseOrders {
		if d.PurchaseOrders[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: purchase order %s not found", ErrNotFound, id)
}

func (d *Document) payableIndex(id string) (int, error) {
	for i := range d.Payables {
		if d.Payables[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: payable %s not found", ErrNotFound, id)
}

func (d *Document) hasID(id string) bool {
	for _, po := range d.PurchaseOrders {
		if po.ID == id {
			return true
		}
	}
	for _, ap := range d.Payables {
		if ap.ID == id {
			return true
		}
	}
	return false
}

// remember appends vendor and item to the memory lists when not already present (exact match).
func (d *Document) remember(vendor, item string) {
	if !slices.Contains(d.MemoryVendors, vendor) {
		d.MemoryVendors = append(d.MemoryVendors, vendor)
	}
	if !slices.Contains(d.MemoryItems, item) {
		d.MemoryItems = append(d.MemoryItems, item)
	}
}

func (d *Document) checkSource(src Source) error {
	if !slices.Contains(d.SourceTypes, src) {
		return validationf("source %q is not a recognised document type", src)
	}
	return nil
}

func dedupe[T comparable](in []T) []T {
	seen := make(map[T]struct{}, len(in))
	out := in[:0]
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
