package core_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"warehouse-ledger/internal/core"
)

func TestOpenSeedsDefaultDocument(t *testing.T) {
	p := &memPersister{}
	svc := newServices(t, p)

	if p.saves != 1 {
		t.Errorf("saves = %d, want the seeded document written once", p.saves)
	}
	if got := svc.inventory.CurrentStock("CPU-i9"); got != 5 {
		t.Errorf("CPU-i9 = %d, want 5", got)
	}
	if got := svc.inventory.CurrentStock("RAM-16G"); got != 50 {
		t.Errorf("RAM-16G = %d, want 50", got)
	}
	mem := svc.store.Memory()
	if len(mem.Sources) != 4 || mem.Sources[0] != core.SourceDirectEntry {
		t.Errorf("sources = %v", mem.Sources)
	}
}

func TestOpenBackfillsOlderDocuments(t *testing.T) {
	legacy := `{
		"po_db": [
			{"id": "PO-0312093000", "vendor": "Coolpc", "item": "RAM-16G", "qty": 10, "price": 12.5, "status": "Closed"},
			{"id": "PO-0312093100", "vendor": "Coolpc", "item": "CPU-i9", "qty": 2, "price": 300,
			 "received_qty": 2, "delivery_date": "2025-03-01", "source": "詢價單轉入", "email_status": "✅ 廠商已讀", "status": "Open"}
		],
		"stock_db": {"RAM-16G": 50},
		"ap_db": [{"id": "AP-0312093200", "po_ref": "PO-0312093100", "date": "2025-03-12", "vendor": "Coolpc", "desc": "x", "amt": 600}],
		"memory_items": ["RAM-16G"],
		"memory_vendors": ["Coolpc"]
	}`
	p := &memPersister{data: []byte(legacy)}
	svc := newServices(t, p)

	if sales := svc.sales.List(); len(sales) != 0 {
		t.Errorf("sales = %v, want empty", sales)
	}

	orders := svc.orders.List()
	if len(orders) != 2 {
		t.Fatalf("orders = %d, want 2", len(orders))
	}
	first := orders[0]
	if first.ReceivedQty != 0 {
		t.Errorf("received = %d, want 0", first.ReceivedQty)
	}
	if first.Status != core.POStatusOpen {
		t.Errorf("status = %s, want Open recomputed from quantities", first.Status)
	}
	if first.ExpectedDeliveryDate != "2025-03-15" {
		t.Errorf("delivery date = %q, want today", first.ExpectedDeliveryDate)
	}
	if first.EmailStatus != core.EmailNotSent || first.Source != core.SourceDirectEntry {
		t.Errorf("defaults not applied: %+v", first)
	}
	if !first.UnitPrice.Equal(dec("12.5")) {
		t.Errorf("price = %s, want 12.5", first.UnitPrice)
	}

	second := orders[1]
	if second.Status != core.POStatusClosed {
		t.Errorf("status = %s, want Closed recomputed from quantities", second.Status)
	}
	if second.Source != core.SourceQuotationTransfer || second.EmailStatus != core.EmailRead {
		t.Errorf("legacy labels not mapped: %+v", second)
	}

	entry, err := svc.payables.Get("AP-0312093200")
	if err != nil {
		t.Fatalf("get payable: %v", err)
	}
	if entry.Status != core.PayableUnpaid {
		t.Errorf("payable status = %s, want Unpaid", entry.Status)
	}
	if sources := svc.store.Memory().Sources; len(sources) != 4 {
		t.Errorf("sources = %v, want defaults", sources)
	}
}

func TestOpenBackfillsSaleAmounts(t *testing.T) {
	legacy := `{
		"po_db": [],
		"stock_db": {"RAM-16G": 50},
		"sales_db": [
			{"date": "2025-03-01", "item": "RAM-16G", "qty": 3},
			{"date": "2025-03-02", "item": "RAM-16G", "qty": 4, "price": 15.5},
			{"date": "2025-03-03", "item": "RAM-16G", "qty": 2, "price": 10, "total": 18}
		],
		"ap_db": []
	}`
	svc := newServices(t, &memPersister{data: []byte(legacy)})

	sales := svc.sales.List()
	if len(sales) != 3 {
		t.Fatalf("sales = %d, want 3", len(sales))
	}
	tests := []struct {
		name      string
		unitPrice string
		total     string
	}{
		{"no price or total", "0", "0"},
		{"price only", "15.5", "62"},
		{"explicit total kept", "10", "18"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := sales[i]
			if !rec.UnitPrice.Equal(dec(tt.unitPrice)) {
				t.Errorf("price = %s, want %s", rec.UnitPrice, tt.unitPrice)
			}
			if !rec.Total.Equal(dec(tt.total)) {
				t.Errorf("total = %s, want %s", rec.Total, tt.total)
			}
		})
	}
}

func TestOpenSurfacesLoadFailure(t *testing.T) {
	p := &memPersister{data: []byte("{not json")}
	store := core.NewStore(p)
	err := store.Open(context.Background())
	if !errors.Is(err, core.ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
}

func TestMutationsPersistAndReload(t *testing.T) {
	ctx := context.Background()
	p := &memPersister{}
	svc := newServices(t, p)

	po := mustCreate(t, svc, orderInput("Office-Suite", 3, "199.99"))
	mustReceive(t, svc, core.ReceiptInput{OrderID: po.ID, Qty: 3, InvoiceAmount: dec("599.97")})
	if _, err := svc.sales.RecordSale(ctx, core.SaleInput{Date: "2025-03-15", Item: "Office-Suite", Qty: 1, UnitPrice: dec("249")}); err != nil {
		t.Fatalf("record sale: %v", err)
	}

	reopened := newServices(t, p)
	if got := reopened.inventory.CurrentStock("Office-Suite"); got != 2 {
		t.Errorf("reloaded stock = %d, want 2", got)
	}
	got, err := reopened.orders.Get(po.ID)
	if err != nil {
		t.Fatalf("reloaded order: %v", err)
	}
	if got.Status != core.POStatusClosed || !got.UnitPrice.Equal(dec("199.99")) {
		t.Errorf("reloaded order = %+v", got)
	}
	if ap, _ := reopened.payables.Query(core.PayableUnpaid); len(ap) != 1 || !ap[0].Amount.Equal(dec("599.97")) {
		t.Errorf("reloaded payables = %+v", ap)
	}
}

func TestConcurrentMutationsSerialize(t *testing.T) {
	ctx := context.Background()
	svc := newServices(t, &memPersister{})
	po := mustCreate(t, svc, orderInput("RAM-16G", 1000, "10"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.orders.Receive(ctx, core.ReceiptInput{OrderID: po.ID, Qty: 2, InvoiceAmount: dec("20")}); err != nil {
				t.Errorf("receive: %v", err)
			}
			if _, err := svc.sales.RecordSale(ctx, core.SaleInput{Item: "RAM-16G", Qty: 1, UnitPrice: dec("15")}); err != nil {
				t.Errorf("sale: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := svc.orders.Get(po.ID)
	if got.ReceivedQty != 100 {
		t.Errorf("received = %d, want 100", got.ReceivedQty)
	}
	if stock := svc.inventory.CurrentStock("RAM-16G"); stock != 100 {
		t.Errorf("stock = %d, want 50 + 100 - 50", stock)
	}
	all, _ := svc.payables.Query("")
	seen := map[string]bool{}
	for _, entry := range all {
		if seen[entry.ID] {
			t.Fatalf("duplicate payable id %s", entry.ID)
		}
		seen[entry.ID] = true
	}
	if len(all) != 50 {
		t.Errorf("payables = %d, want 50", len(all))
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	svc := newServices(t, nil)
	snap := svc.store.Snapshot()
	snap.Stock["CPU-i9"] = 999
	if got := svc.inventory.CurrentStock("CPU-i9"); got != 5 {
		t.Errorf("store stock changed through snapshot: %d", got)
	}
}

func TestTimestampIDs(t *testing.T) {
	gen := core.NewTimestampIDs(fixedClock)
	a := gen.NewID(core.PrefixPurchaseOrder)
	b := gen.NewID(core.PrefixPurchaseOrder)
	if a == b {
		t.Fatalf("ids within the same second collide: %s", a)
	}
	if a[:14] != "PO-0315103000-" {
		t.Errorf("id = %s, want PO-0315103000- prefix", a)
	}
}

func TestWritePurchaseOrderCSV(t *testing.T) {
	svc := newServices(t, nil)
	po := mustCreate(t, svc, orderInput("RAM-16G", 10, "12.5"))
	mustReceive(t, svc, core.ReceiptInput{OrderID: po.ID, Qty: 4, InvoiceAmount: dec("50")})

	var buf bytes.Buffer
	if err := core.WritePurchaseOrderCSV(&buf, svc.orders.List()); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1", len(rows))
	}
	header := rows[0]
	if header[0] != "id" || header[len(header)-1] != "status" || len(header) != 11 {
		t.Errorf("header = %v", header)
	}
	row := rows[1]
	if row[0] != po.ID || row[7] != "125" || row[9] != "4" || row[10] != "PartiallyReceived" {
		t.Errorf("row = %v", row)
	}
}

func TestDocumentSchema(t *testing.T) {
	data, err := json.Marshal(core.DocumentSchema())
	if err != nil {
		t.Fatalf("marshal schema: %v", err)
	}
	var schema struct {
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(data, &schema); err != nil {
		t.Fatalf("unmarshal schema: %v", err)
	}
	for _, key := range []string{"po_db", "stock_db", "sales_db", "ap_db", "memory_items", "memory_vendors", "source_types"} {
		if _, ok := schema.Properties[key]; !ok {
			t.Errorf("schema missing property %s", key)
		}
	}
}
